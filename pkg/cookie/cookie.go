// Package cookie wraps net/http cookie handling with secure defaults and
// functional options. Integrity of the session token is the token codec's
// job, so values are stored as-is.
package cookie

import (
	"errors"
	"net/http"
	"time"
)

var ErrCookieNotFound = errors.New("cookie: not found")

// Options are the cookie attributes applied on Set.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option overrides a single attribute for one call or for the manager
// defaults.
type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the cookie lifetime in seconds. Use a value matching the
// session token TTL so the cookie and the token expire together.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

// Manager sets, reads and deletes cookies with shared defaults.
type Manager struct {
	defaults Options
}

// New creates a Manager. Defaults: Path=/, HttpOnly, SameSite=Lax.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&defaults)
	}
	return &Manager{defaults: defaults}
}

// Set writes a cookie with the manager defaults plus per-call overrides.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := m.defaults
	for _, opt := range opts {
		opt(&options)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// Get returns the named cookie's value or ErrCookieNotFound.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the named cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
