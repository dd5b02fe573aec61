// Package file provides a client directory backed by a YAML file.
//
// The file lists registered clients:
//
//	clients:
//	  - client_id: web-client
//	    client_secret: "{bcrypt}$2a$10$..."
//	    client_name: Web Client
//	    authentication_methods: [client_secret_basic]
//
// Watch reloads the directory whenever the file is written or replaced.
// A file that fails to parse or validate leaves the previous clients in place.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

// Ensure ClientDirectory implements store.ClientDirectory
var _ store.ClientDirectory = (*ClientDirectory)(nil)

type clientsFile struct {
	Clients []clientEntry `yaml:"clients" validate:"dive"`
}

type clientEntry struct {
	ClientID              string     `yaml:"client_id" validate:"required"`
	ClientSecret          string     `yaml:"client_secret"`
	ClientName            string     `yaml:"client_name"`
	AuthenticationMethods []string   `yaml:"authentication_methods" validate:"dive,oneof=client_secret_basic client_secret_post none"`
	ClientIDIssuedAt      time.Time  `yaml:"client_id_issued_at"`
	ClientSecretExpiresAt *time.Time `yaml:"client_secret_expires_at"`
}

var validate = validator.New()

// ClientDirectory serves registered clients read from a YAML file.
type ClientDirectory struct {
	path    string
	clients *store.InMemoryClientDirectory
}

// Open reads path and returns a directory holding its clients.
func Open(path string) (*ClientDirectory, error) {
	clients, err := Load(path)
	if err != nil {
		return nil, err
	}
	mem, err := store.NewInMemoryClientDirectory(clients...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ClientDirectory{path: path, clients: mem}, nil
}

// Load parses and validates a clients file.
func Load(path string) ([]model.RegisteredClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clients file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates clients file content.
func Parse(data []byte) ([]model.RegisteredClient, error) {
	var f clientsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse clients file: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid clients file: %w", err)
	}

	clients := make([]model.RegisteredClient, 0, len(f.Clients))
	for _, e := range f.Clients {
		var methods []model.AuthenticationMethod
		for _, m := range e.AuthenticationMethods {
			methods = append(methods, model.AuthenticationMethod(m))
		}
		clients = append(clients, model.RegisteredClient{
			ClientID:              e.ClientID,
			ClientSecret:          e.ClientSecret,
			ClientName:            e.ClientName,
			AuthenticationMethods: methods,
			ClientIDIssuedAt:      e.ClientIDIssuedAt,
			ClientSecretExpiresAt: e.ClientSecretExpiresAt,
		})
	}
	return clients, nil
}

// Path returns the clients file path.
func (d *ClientDirectory) Path() string {
	return d.path
}

// Len returns the number of loaded clients.
func (d *ClientDirectory) Len() int {
	return d.clients.Len()
}

// FindByClientID returns the client registered under clientID.
func (d *ClientDirectory) FindByClientID(ctx context.Context, clientID string) (*model.RegisteredClient, error) {
	return d.clients.FindByClientID(ctx, clientID)
}

// Reload re-reads the clients file. On error the loaded clients are kept.
func (d *ClientDirectory) Reload() error {
	clients, err := Load(d.path)
	if err != nil {
		return err
	}
	if err := d.clients.Replace(clients); err != nil {
		return fmt.Errorf("%s: %w", d.path, err)
	}
	return nil
}

// Watch reloads the directory each time the clients file changes, until
// ctx is done. onReload, if not nil, is called after every reload attempt.
func (d *ClientDirectory) Watch(ctx context.Context, onReload func(err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are noticed.
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", d.path, err)
	}
	target := filepath.Clean(d.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			err := d.Reload()
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(err)
			}
		}
	}
}
