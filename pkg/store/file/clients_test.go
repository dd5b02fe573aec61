package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

const webClientYAML = `
clients:
  - client_id: web-client
    client_secret: secret
    client_name: Web Client
    authentication_methods: [client_secret_basic, client_secret_post]
    client_secret_expires_at: 2030-01-01T00:00:00Z
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParse(t *testing.T) {
	clients, err := Parse([]byte(webClientYAML))
	require.NoError(t, err)
	require.Len(t, clients, 1)

	c := clients[0]
	assert.Equal(t, "web-client", c.ClientID)
	assert.Equal(t, "secret", c.ClientSecret)
	assert.Equal(t, "Web Client", c.ClientName)
	assert.Equal(t, []model.AuthenticationMethod{model.MethodClientSecretBasic, model.MethodClientSecretPost}, c.AuthenticationMethods)
	require.NotNil(t, c.ClientSecretExpiresAt)
	assert.Equal(t, 2030, c.ClientSecretExpiresAt.Year())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "clients: [", "failed to parse"},
		{"missing client id", "clients:\n  - client_secret: x\n", "invalid clients file"},
		{"unknown method", "clients:\n  - client_id: a\n    authentication_methods: [private_key_jwt]\n", "invalid clients file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.yml")
	writeFile(t, path, webClientYAML)

	dir, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, dir.Path())
	assert.Equal(t, 1, dir.Len())

	c, err := dir.FindByClientID(context.Background(), "web-client")
	require.NoError(t, err)
	assert.Equal(t, "secret", c.ClientSecret)

	_, err = dir.FindByClientID(context.Background(), "web-client-invalid")
	assert.ErrorIs(t, err, store.ErrClientNotFound)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to read clients file")

	path := filepath.Join(t.TempDir(), "clients.yml")
	writeFile(t, path, "clients:\n  - client_id: a\n  - client_id: a\n")
	_, err = Open(path)
	assert.ErrorContains(t, err, "duplicate client id")
}

func TestReload_KeepsClientsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.yml")
	writeFile(t, path, webClientYAML)

	dir, err := Open(path)
	require.NoError(t, err)

	writeFile(t, path, "clients: [")
	assert.Error(t, dir.Reload())
	assert.Equal(t, 1, dir.Len())

	writeFile(t, path, "clients:\n  - client_id: a\n  - client_id: b\n")
	require.NoError(t, dir.Reload())
	assert.Equal(t, 2, dir.Len())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.yml")
	writeFile(t, path, webClientYAML)

	dir, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- dir.Watch(ctx, func(err error) {
			if err == nil {
				reloads.Add(1)
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "clients:\n  - client_id: a\n  - client_id: b\n  - client_id: c\n")

	assert.Eventually(t, func() bool { return dir.Len() == 3 }, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
