package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/handler"
	"github.com/nefera/wellbeing-api/internal/middleware"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/service"
	"github.com/nefera/wellbeing-api/pkg/config"
	"github.com/nefera/wellbeing-api/pkg/logger"
	corsmiddleware "github.com/nefera/wellbeing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nefera/wellbeing-api/pkg/middleware/requestid"
)

// Dependencies collects everything the HTTP surface needs.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Checkin *service.CheckinService
	Assess  *service.AssessmentService
	Risk    *service.RiskService
	Over    *service.OverviewService
	Export  *service.ExportService
	Metrics *service.MetricsService
}

// New builds the gin engine with all routes mounted.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	authHandler := handler.NewAuthHandler(deps.Auth)
	checkinHandler := handler.NewCheckinHandler(deps.Checkin)
	assessmentHandler := handler.NewAssessmentHandler(deps.Assess)
	riskHandler := handler.NewRiskHandler(deps.Risk, deps.Over)
	overviewHandler := handler.NewOverviewHandler(deps.Over)
	exportHandler := handler.NewExportHandler(deps.Export)
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(deps.Auth), authHandler.Logout)
		auth.GET("/me", middleware.JWT(deps.Auth), authHandler.Me)
	}

	protected := api.Group("", middleware.JWT(deps.Auth))

	student := protected.Group("", middleware.RequireRoles(models.RoleStudent))
	{
		student.POST("/checkins", checkinHandler.CheckIn)
		student.GET("/checkins/journals", checkinHandler.ListJournals)
		student.POST("/assessments", assessmentHandler.Submit)
		student.GET("/assessments", assessmentHandler.History)
	}

	counselor := protected.Group("/risk", middleware.RequireRoles(models.RoleCounselor))
	{
		counselor.GET("/students", riskHandler.AtRisk)
		counselor.GET("/students/:id", riskHandler.StudentDetail)
		counselor.PUT("/students/:id/status", riskHandler.Override)
	}

	overview := protected.Group("/overview")
	{
		overview.GET("/school", middleware.RequireRoles(models.RolePrincipal, models.RoleCounselor), overviewHandler.School)
		overview.GET("/classes/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleCounselor), overviewHandler.Class)
		overview.GET("/child", middleware.RequireRoles(models.RoleParent), overviewHandler.Child)
	}

	exports := protected.Group("/exports", middleware.RequireRoles(models.RoleCounselor))
	{
		exports.GET("/at-risk", exportHandler.AtRisk)
		exports.GET("/students/:id/safety-events", exportHandler.SafetyEvents)
	}

	return r
}
