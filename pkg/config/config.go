package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Journal  JournalConfig
	Risk     RiskConfig
	Overview OverviewConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// JournalConfig carries the key sealing journal text at rest.
type JournalConfig struct {
	// EncryptionKey is base64, decoding to 32 bytes.
	EncryptionKey string
}

// RiskConfig holds the rolling-window recompute thresholds and the
// background queue tuning. Thresholds live in configuration, not as
// constants scattered through the engine.
type RiskConfig struct {
	WindowDays        int
	WorriedOrange     int
	SadFlatOrange     int
	SadFlatRed        int
	RecomputeWorkers  int
	RecomputeBuffer   int
	RecomputeRetries  int
	RecomputeRetryGap time.Duration
}

// OverviewConfig governs dashboard aggregate exposure and cache tuning.
type OverviewConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// ExportsConfig toggles counselor export endpoints.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Journal = JournalConfig{
		EncryptionKey: v.GetString("JOURNAL_ENCRYPTION_KEY"),
	}

	cfg.Risk = RiskConfig{
		WindowDays:        v.GetInt("RISK_WINDOW_DAYS"),
		WorriedOrange:     v.GetInt("RISK_WORRIED_ORANGE_DAYS"),
		SadFlatOrange:     v.GetInt("RISK_SADFLAT_ORANGE_DAYS"),
		SadFlatRed:        v.GetInt("RISK_SADFLAT_RED_DAYS"),
		RecomputeWorkers:  v.GetInt("RISK_RECOMPUTE_WORKERS"),
		RecomputeBuffer:   v.GetInt("RISK_RECOMPUTE_BUFFER"),
		RecomputeRetries:  v.GetInt("RISK_RECOMPUTE_RETRIES"),
		RecomputeRetryGap: parseDuration(v.GetString("RISK_RECOMPUTE_RETRY_GAP"), 5*time.Second),
	}

	cfg.Overview = OverviewConfig{
		Enabled:  v.GetBool("ENABLE_OVERVIEW"),
		CacheTTL: parseDuration(v.GetString("OVERVIEW_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nefera_wellbeing")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("JOURNAL_ENCRYPTION_KEY", "")

	v.SetDefault("RISK_WINDOW_DAYS", 7)
	v.SetDefault("RISK_WORRIED_ORANGE_DAYS", 3)
	v.SetDefault("RISK_SADFLAT_ORANGE_DAYS", 3)
	v.SetDefault("RISK_SADFLAT_RED_DAYS", 5)
	v.SetDefault("RISK_RECOMPUTE_WORKERS", 2)
	v.SetDefault("RISK_RECOMPUTE_BUFFER", 64)
	v.SetDefault("RISK_RECOMPUTE_RETRIES", 3)
	v.SetDefault("RISK_RECOMPUTE_RETRY_GAP", "5s")

	v.SetDefault("ENABLE_OVERVIEW", true)
	v.SetDefault("OVERVIEW_CACHE_TTL", "5m")
	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
