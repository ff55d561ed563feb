// Package routeguard classifies request paths against a static
// public/protected layout and decides allow/redirect per request. The
// decision is a pure function; the HTTP middleware wires it to the session
// cookie.
package routeguard

import "strings"

// Action is the outcome of a guard decision.
type Action int

const (
	// Allow lets the request through.
	Allow Action = iota
	// RedirectLogin sends an unauthenticated request to the login page.
	RedirectLogin
	// RedirectLanding sends an authenticated request away from login pages.
	RedirectLanding
)

// Rules is the static route classification. Public entries match by
// prefix (plus the bare root path); ProtectedSub entries match anywhere in
// the path and override a public match.
type Rules struct {
	Public       []string
	ProtectedSub []string
	LoginPath    string
	LandingPath  string
}

// DefaultRules mirrors the storefront layout: the catalog is public, the
// checkout and profile areas under it are not.
func DefaultRules() Rules {
	return Rules{
		Public:       []string{"/login", "/register", "/products"},
		ProtectedSub: []string{"/checkout", "/profile"},
		LoginPath:    "/login",
		LandingPath:  "/",
	}
}

// IsPublic reports whether path is publicly reachable: the root or a
// public prefix, unless a protected sub-route overrides it.
func (r Rules) IsPublic(path string) bool {
	public := path == "/"
	for _, route := range r.Public {
		if strings.HasPrefix(path, route) {
			public = true
			break
		}
	}
	if !public {
		return false
	}
	for _, sub := range r.ProtectedSub {
		if strings.Contains(path, sub) {
			return false
		}
	}
	return true
}

// Decide applies the guard decision table to one request.
func (r Rules) Decide(path string, authenticated bool) Action {
	if authenticated {
		if strings.Contains(path, r.LoginPath) {
			return RedirectLanding
		}
		return Allow
	}
	if r.IsPublic(path) {
		return Allow
	}
	return RedirectLogin
}
