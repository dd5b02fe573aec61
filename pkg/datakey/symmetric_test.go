package datakey

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)
	assert.NotNil(t, c)

	// AES requires 16, 24, or 32 bytes
	_, err = NewSymmetric(make([]byte, 15))
	assert.Error(t, err)
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{"simple secret", []byte("web-client"), []byte("secret")},
		{"empty plaintext", []byte("web-client"), []byte("")},
		{"long secret", []byte("batch-client"), bytes.Repeat([]byte("x"), 10000)},
		{"nil aad", nil, []byte("secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := c.Encrypt(tt.aad, tt.plaintext)
			require.NoError(t, err)
			assert.Equal(t, version, sealed[0])

			opened, err := c.Decrypt(tt.aad, sealed)
			require.NoError(t, err)
			assert.Equal(t, string(tt.plaintext), string(opened))
		})
	}
}

func TestSymmetricDecrypt_WrongAAD(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	sealed, err := c.Encrypt([]byte("web-client"), []byte("secret"))
	require.NoError(t, err)

	_, err = c.Decrypt([]byte("other-client"), sealed)
	assert.Error(t, err)
}

func TestSymmetricDecrypt_Malformed(t *testing.T) {
	c, err := NewSymmetric(testKey())
	require.NoError(t, err)

	_, err = c.Decrypt(nil, []byte("short"))
	assert.ErrorContains(t, err, "too short")

	sealed, err := c.Encrypt(nil, []byte("secret"))
	require.NoError(t, err)
	sealed[0] = 'X'
	_, err = c.Decrypt(nil, sealed)
	assert.ErrorContains(t, err, "version")
}

func TestFromBase64(t *testing.T) {
	_, err := FromBase64(base64.StdEncoding.EncodeToString(testKey()))
	assert.NoError(t, err)

	_, err = FromBase64("not base64!")
	assert.Error(t, err)

	_, err = FromBase64(base64.StdEncoding.EncodeToString(make([]byte, 16)))
	assert.ErrorContains(t, err, "expected 32 bytes")
}

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	assert.Len(t, a, KeySize)
	assert.NotEqual(t, a, b)
}
