package clientsecret

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/datakey"
)

// Stored secret encodings. A secret without a prefix is plain text.
const (
	PrefixBcrypt = "{bcrypt}"
	PrefixNoop   = "{noop}"
)

const secretSize = 32

// GenerateSecret returns a new random client secret.
func GenerateSecret() (string, error) {
	b, err := datakey.RandomBytes(secretSize)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSecret encodes a plain secret for storage.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return PrefixBcrypt + string(hash), nil
}

// MatchSecret reports whether claimed matches the stored secret. Plain
// secrets are compared through SHA-256 digests so neither their length nor
// their content affects timing. An empty secret never matches, stored or
// claimed. Unknown {prefix} encodings never match.
func MatchSecret(stored, claimed string) bool {
	if stored == "" || claimed == "" {
		return false
	}
	switch {
	case strings.HasPrefix(stored, PrefixBcrypt):
		hash := strings.TrimPrefix(stored, PrefixBcrypt)
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(claimed)) == nil
	case strings.HasPrefix(stored, PrefixNoop):
		plain := strings.TrimPrefix(stored, PrefixNoop)
		return plain != "" && constantTimeEqual(plain, claimed)
	case strings.HasPrefix(stored, "{") && strings.Contains(stored, "}"):
		return false
	default:
		return constantTimeEqual(stored, claimed)
	}
}

func constantTimeEqual(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}
