// Package authenticator defines the interface for OAuth2 client
// authenticators and the result model they produce.
//
// # Authenticator Interface
//
// All authenticators implement the Authenticator interface:
//
//	type Authenticator interface {
//	    Name() string
//	    Supports(method model.AuthenticationMethod) bool
//	    Authenticate(ctx context.Context, req Request) (Result, error)
//	}
//
// A Result is either authenticated (principal plus registered client) or
// rejected with an ErrorKind. Rejections never say whether the client was
// unknown or the secret was wrong. The error return is kept for
// infrastructure failures such as an unreachable client directory.
//
// # Built-in Authenticators
//
//   - client-secret: client_secret_basic and client_secret_post - see
//     [github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator/clientsecret]
//
// # Dispatch
//
// The Registry selects an authenticator by the explicit
// Request.Method tag. A request whose method no enabled authenticator
// supports fails with ErrUnsupportedMethod before any credential check.
package authenticator
