package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestJournalCipherRoundTrip(t *testing.T) {
	cipher, err := NewJournalCipher(testKey())
	require.NoError(t, err)

	sealed, err := cipher.Seal("today was hard but I talked to my friend")
	require.NoError(t, err)
	assert.NotEqual(t, "today was hard but I talked to my friend", sealed)

	plain, err := cipher.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "today was hard but I talked to my friend", plain)
}

func TestJournalCipherEmptyPassthrough(t *testing.T) {
	cipher, err := NewJournalCipher(testKey())
	require.NoError(t, err)

	sealed, err := cipher.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := cipher.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestJournalCipherNonceIsFresh(t *testing.T) {
	cipher, err := NewJournalCipher(testKey())
	require.NoError(t, err)

	a, err := cipher.Seal("same content")
	require.NoError(t, err)
	b, err := cipher.Seal("same content")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJournalCipherRejectsBadKey(t *testing.T) {
	_, err := NewJournalCipher("")
	require.Error(t, err)

	_, err = NewJournalCipher("not base64!!!")
	require.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = NewJournalCipher(short)
	require.Error(t, err)
}

func TestJournalCipherRejectsTamperedBlob(t *testing.T) {
	cipher, err := NewJournalCipher(testKey())
	require.NoError(t, err)

	sealed, err := cipher.Seal("private thoughts")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = cipher.Open(base64.StdEncoding.EncodeToString(raw))
	require.Error(t, err)
}
