package clientsecret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSecret(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		claimed string
		want    bool
	}{
		{"plain match", "secret", "secret", true},
		{"plain mismatch", "secret", "secret-invalid", false},
		{"plain different length", "secret", "s", false},
		{"plain empty claimed", "secret", "", false},
		{"noop match", "{noop}secret", "secret", true},
		{"noop mismatch", "{noop}secret", "{noop}secret", false},
		{"noop empty", "{noop}", "", false},
		{"empty stored", "", "", false},
		{"unknown encoding", "{sha256}abc", "abc", false},
		{"unknown encoding literal", "{sha256}abc", "{sha256}abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchSecret(tt.stored, tt.claimed))
		})
	}
}

func TestHashSecret(t *testing.T) {
	hashed, err := HashSecret("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, PrefixBcrypt))
	assert.NotContains(t, hashed, "secret")

	assert.True(t, MatchSecret(hashed, "secret"))
	assert.False(t, MatchSecret(hashed, "secret-invalid"))
	assert.False(t, MatchSecret(hashed, ""))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
