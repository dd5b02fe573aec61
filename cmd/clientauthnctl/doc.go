// Command clientauthnctl manages and exercises OAuth2 client authentication.
//
// Registered clients live either in a YAML clients file or in PostgreSQL,
// selected by the client_directory configuration attribute.
//
// # Quick Start
//
//	# Generate a data key for encrypting stored client secrets
//	export CLIENTAUTHN_DATA_KEY="$(clientauthnctl data-key generate)"
//
//	# Run database migrations
//	clientauthnctl db migrate
//
//	# Register a client; the generated secret is printed once
//	clientauthnctl client create my-app --name "My App"
//
//	# Check a client's credentials
//	clientauthnctl client verify my-app --secret "$SECRET"
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CLIENTAUTHN_DATA_KEY: Base64-encoded 256-bit key for client secret encryption
//   - CLIENTAUTHN_CONFIG_PATH: Directory holding clientauthn.yml
//   - CLIENTAUTHN_CLIENT_DIRECTORY: file or database
//   - CLIENTAUTHN_CLIENTS_FILE: Path to the YAML clients file
//   - CLIENTAUTHN_AUTHENTICATION_METHODS: Comma-separated accepted methods
//   - CLIENTAUTHN_AUDIT_ENABLED: Set to false to silence audit events
//   - AUDIT_DATABASE_URL: Persist audit events to this database
//   - CLIENTAUTHN_LOG_LEVEL: Set to "debug" for SQL query logging
package main
