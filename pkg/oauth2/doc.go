// Package oauth2 defines the OAuth 2.0 error model (RFC 6749 section 5.2)
// used to report client authentication failures to the protocol layer.
//
// # Usage
//
//	if errors.Is(err, oauth2.ErrInvalidClient) {
//	    // respond with invalid_client
//	}
package oauth2
