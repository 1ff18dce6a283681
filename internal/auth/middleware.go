package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key, ANY
// package that knows the string could read or shadow the value. A
// package-private type means only this package can create the key, so only
// this package controls the username slot in the context.
type contextKey string

const usernameKey contextKey = "username"

// WithSession is a middleware that extracts the session identity if a valid
// cookie is present, but does NOT block the request when it's missing or
// invalid.
//
// Every route runs through it: the home page is public but renders the
// logged-in username when there is one, and the mutating JSON endpoints ask
// UsernameFromContext and reject anonymous callers with their own
// endpoint-specific 403 message. That per-endpoint gating is why this is an
// optional middleware rather than a blocking one.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler.
func WithSession(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, err := extractUsername(r, sessions); err == nil && username != "" {
				ctx := context.WithValue(r.Context(), usernameKey, username)
				r = r.WithContext(ctx)
			}
			// Always continue — anonymous requests pass through
			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext retrieves the logged-in username from the request
// context.
//
// Returns ("", false) if the request is anonymous (no valid session cookie).
//
// Usage in handlers:
//
//	username, ok := auth.UsernameFromContext(r.Context())
//	if !ok {
//	    // no session — reject or render the anonymous view
//	}
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// extractUsername reads the session cookie and validates it.
//
// COOKIE FLOW:
// 1. Set-Cookie: session=<token>; HttpOnly; SameSite=Lax (set on login)
// 2. The browser sends Cookie: session=<token> on subsequent requests
// 3. We read r.Cookie and validate the signature and expiry
func extractUsername(r *http.Request, sessions *SessionService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		// http.ErrNoCookie — not an error, just an anonymous request
		return "", err
	}

	return sessions.Validate(cookie.Value)
}
