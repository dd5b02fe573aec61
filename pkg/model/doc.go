// Package model defines the registered client model shared by the client
// directories and the authenticators.
//
// # Core Models
//
//   - RegisteredClient: a known OAuth2 client and its credentials
//   - RegisteredClientRecord: the GORM row backing a RegisteredClient
//   - AuthenticationMethod: a client authentication method name
//
// # Database Schema
//
// Registered clients live in the oauth2_registered_clients table. The
// client_secret column holds the secret encrypted with the data key, using
// the client id as additional authenticated data.
package model
