// Package datakey provides the AES-256-GCM cipher used to encrypt client
// secrets at rest.
//
// # Data Key
//
// The data key is a random 256-bit key, base64 encoded in the
// CLIENTAUTHN_DATA_KEY environment variable:
//
//	key, err := datakey.Generate()
//	c, err := datakey.NewSymmetric(key)
//	sealed, err := c.Encrypt([]byte(clientID), []byte(secret))
//
// The client id is passed as additional authenticated data so a sealed
// secret cannot be moved to another client's row.
package datakey
