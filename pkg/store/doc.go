// Package store provides the client directory abstraction used by the
// client authenticators.
//
// This package defines the ClientDirectory interface, allowing the
// authenticators to be decoupled from where registered clients live. This
// enables easier testing and support for different storage backends.
//
// # Available Directories
//
//   - InMemoryClientDirectory: map-backed, safe for concurrent use
//   - gorm.ClientDirectory: PostgreSQL via GORM, secrets encrypted at rest
//   - file.ClientDirectory: YAML file, reloaded on change
//
// # Usage
//
//	dir, err := store.NewInMemoryClientDirectory(client)
//	c, err := dir.FindByClientID(ctx, "web-client")
//	if err != nil {
//	    if errors.Is(err, store.ErrClientNotFound) {
//	        // Handle not found
//	    }
//	}
package store
