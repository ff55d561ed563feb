package routeguard

import (
	"context"
	"net/http"

	"github.com/storekit/authflow/pkg/cookie"
	"github.com/storekit/authflow/pkg/sessiontoken"
)

type claimsContextKey struct{}

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session_token"

// ClaimsFromContext returns the verified session claims injected by the
// middleware, if the request was authenticated.
func ClaimsFromContext(ctx context.Context) (sessiontoken.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(sessiontoken.Claims)
	return claims, ok
}

// WithClaims injects claims into a context. Exposed for handler tests.
func WithClaims(ctx context.Context, claims sessiontoken.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// Middleware verifies the session cookie on every request, applies the
// guard rules and rotates the token for authenticated requests so an
// active session keeps extending its validity window. Token failures of
// any kind mean "not authenticated"; they are never surfaced to the user.
func Middleware(rules Rules, codec *sessiontoken.Codec, cookies *cookie.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims        sessiontoken.Claims
				authenticated bool
			)
			if raw, err := cookies.Get(r, SessionCookieName); err == nil {
				if c, err := codec.Verify(raw); err == nil {
					claims = c
					authenticated = true
				}
			}

			switch rules.Decide(r.URL.Path, authenticated) {
			case RedirectLogin:
				http.Redirect(w, r, rules.LoginPath, http.StatusSeeOther)
				return
			case RedirectLanding:
				http.Redirect(w, r, rules.LandingPath, http.StatusSeeOther)
				return
			}

			if authenticated {
				// Re-issue with a fresh expiration; ignore rotation failures
				// rather than failing a request that already proved itself.
				// Only page loads rotate: mutating handlers (sign-out above
				// all) own the Set-Cookie header on their responses.
				if r.Method == http.MethodGet {
					if rotated, err := codec.Issue(claims); err == nil {
						cookies.Set(w, SessionCookieName, rotated,
							cookie.WithMaxAge(int(codec.TTL().Seconds())))
					}
				}
				r = r.WithContext(WithClaims(r.Context(), claims))
			}

			next.ServeHTTP(w, r)
		})
	}
}
