package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// JournalCipher seals free-text journal content before it reaches storage.
// Keyword triage always runs on the plaintext first; only the stored copy
// is opaque.
type JournalCipher struct {
	key []byte
}

// NewJournalCipher builds a cipher from a base64 encoded 32 byte key.
func NewJournalCipher(encodedKey string) (*JournalCipher, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("journal encryption key is not set")
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode journal key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("journal key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &JournalCipher{key: key}, nil
}

// Seal encrypts plaintext and returns a base64 blob with the nonce prefixed.
// Empty input stays empty.
func (c *JournalCipher) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a blob produced by Seal. Empty input stays empty.
func (c *JournalCipher) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed journal: %w", err)
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("sealed journal too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed journal: %w", err)
	}
	return string(plain), nil
}
