// Package config provides configuration management for clientauthn.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $CLIENTAUTHN_CONFIG_PATH/clientauthn.yml (default /etc/clientauthn)
//   - CLIENTAUTHN_* environment variables
//
// Each attribute remembers which source set it.
//
// # Key Configuration Options
//
//   - CLIENTAUTHN_CLIENT_DIRECTORY: file or database
//   - CLIENTAUTHN_CLIENTS_FILE: YAML clients file for the file directory
//   - CLIENTAUTHN_AUTHENTICATION_METHODS: accepted client authentication methods
//   - CLIENTAUTHN_AUDIT_ENABLED: audit logging on or off
//   - CLIENTAUTHN_DATA_KEY: data key sealing client secrets in the database
//   - DATABASE_URL: database connection
package config
