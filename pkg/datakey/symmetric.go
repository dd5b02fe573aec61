package datakey

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize   = 32
	nonceSize = 12
	tagSize   = aes.BlockSize
	version   = byte('G')
)

// Cipher seals and opens values bound to additional authenticated data.
type Cipher interface {
	Encrypt(aad, plainText []byte) ([]byte, error)
	Decrypt(aad, sealed []byte) ([]byte, error)
}

// Symmetric is an AES-GCM Cipher. Sealed values are laid out as
// version | tag | nonce | ciphertext.
type Symmetric struct {
	aead cipher.AEAD
}

// NewSymmetric creates a cipher from a 16, 24 or 32 byte key.
func NewSymmetric(key []byte) (*Symmetric, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Symmetric{aead: aead}, nil
}

// FromBase64 decodes a base64 data key and creates a cipher from it.
func FromBase64(encoded string) (*Symmetric, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad data key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("bad data key: expected %d bytes, got %d", KeySize, len(key))
	}
	return NewSymmetric(key)
}

// Generate returns a new random data key.
func Generate() ([]byte, error) {
	return RandomBytes(KeySize)
}

// RandomBytes returns size bytes from crypto/rand.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key.
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}
	return s.seal(aad, plainText, nonce), nil
}

func (s *Symmetric) seal(aad, plainText, nonce []byte) []byte {
	withTag := s.aead.Seal(nil, nonce, plainText, aad)
	split := len(withTag) - tagSize

	out := make([]byte, 0, 1+tagSize+nonceSize+split)
	out = append(out, version)
	out = append(out, withTag[split:]...)
	out = append(out, nonce...)
	out = append(out, withTag[:split]...)
	return out
}

func (s *Symmetric) Decrypt(aad, sealed []byte) ([]byte, error) {
	if len(sealed) < 1+tagSize+nonceSize {
		return nil, errors.New("sealed value is too short")
	}
	if sealed[0] != version {
		return nil, fmt.Errorf("unknown sealed value version %q", sealed[0])
	}

	tag := sealed[1 : 1+tagSize]
	nonce := sealed[1+tagSize : 1+tagSize+nonceSize]
	body := sealed[1+tagSize+nonceSize:]

	withTag := make([]byte, 0, len(body)+tagSize)
	withTag = append(withTag, body...)
	withTag = append(withTag, tag...)
	return s.aead.Open(nil, nonce, withTag, aad)
}
