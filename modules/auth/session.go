package auth

import (
	"net/http"

	"github.com/storekit/authflow/pkg/cookie"
	"github.com/storekit/authflow/pkg/routeguard"
	"github.com/storekit/authflow/pkg/sessiontoken"
)

// SessionManager issues session tokens for authenticated users and binds
// them to the session cookie. The cookie Max-Age always matches the token
// TTL so both expire together.
type SessionManager struct {
	codec   *sessiontoken.Codec
	cookies *cookie.Manager
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(codec *sessiontoken.Codec, cookies *cookie.Manager) *SessionManager {
	return &SessionManager{codec: codec, cookies: cookies}
}

// Establish issues a signed token for the user and sets the session cookie.
func (m *SessionManager) Establish(w http.ResponseWriter, user *User) error {
	token, err := m.codec.Issue(sessiontoken.Claims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return err
	}
	m.cookies.Set(w, routeguard.SessionCookieName, token,
		cookie.WithMaxAge(int(m.codec.TTL().Seconds())))
	return nil
}

// Clear expires the session cookie on the client.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	m.cookies.Delete(w, routeguard.SessionCookieName)
}

// Current returns the claims of the request's session cookie, if any.
func (m *SessionManager) Current(r *http.Request) (sessiontoken.Claims, bool) {
	raw, err := m.cookies.Get(r, routeguard.SessionCookieName)
	if err != nil {
		return sessiontoken.Claims{}, false
	}
	claims, err := m.codec.Verify(raw)
	if err != nil {
		return sessiontoken.Claims{}, false
	}
	return claims, true
}
