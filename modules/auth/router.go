package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/authflow/pkg/logger"
)

// Router exposes the authentication HTTP surface. Form flows answer with
// per-field JSON errors on failure and a see-other redirect with a session
// cookie on success; the federated flow works through provider redirects.
type Router struct {
	credentials *CredentialService
	federated   *FederatedService
	sessions    *SessionManager
	logger      *slog.Logger
	successPath string
	failurePath string
}

// RouterOption configures the router during construction.
type RouterOption func(*Router)

// WithRouterLogger sets a custom logger.
func WithRouterLogger(log *slog.Logger) RouterOption {
	return func(rt *Router) {
		rt.logger = log
	}
}

// WithSuccessPath sets where authenticated users land after sign-up or
// sign-in. Defaults to the root path.
func WithSuccessPath(path string) RouterOption {
	return func(rt *Router) {
		if path != "" {
			rt.successPath = path
		}
	}
}

// WithFailurePath sets where federated callback failures send the user.
// Defaults to /login.
func WithFailurePath(path string) RouterOption {
	return func(rt *Router) {
		if path != "" {
			rt.failurePath = path
		}
	}
}

// NewRouter creates the authentication router.
func NewRouter(credentials *CredentialService, federated *FederatedService, sessions *SessionManager, opts ...RouterOption) *Router {
	rt := &Router{
		credentials: credentials,
		federated:   federated,
		sessions:    sessions,
		logger:      logger.Discard(),
		successPath: "/",
		failurePath: "/login",
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Routes returns the chi router with all authentication endpoints mounted.
func (rt *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sign-up", rt.handleSignUp)
	r.Post("/sign-in", rt.handleSignIn)
	r.Post("/sign-out", rt.handleSignOut)
	r.Get("/{provider}", rt.handleFederatedBegin)
	r.Get("/{provider}/callback", rt.handleFederatedCallback)
	return r
}

func (rt *Router) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, err := rt.credentials.SignUp(r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		rt.respondFormErrors(w, formErrorsFor(err, msgCannotCreate, rt.logger))
		return
	}

	rt.establishAndRedirect(w, r, user, msgCannotCreate)
}

func (rt *Router) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, err := rt.credentials.SignIn(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		// No cookie of any kind leaves on a failed sign-in.
		rt.respondFormErrors(w, formErrorsFor(err, msgCannotAuthorize, rt.logger))
		return
	}

	rt.establishAndRedirect(w, r, user, msgCannotAuthorize)
}

func (rt *Router) handleSignOut(w http.ResponseWriter, r *http.Request) {
	rt.sessions.Clear(w)
	http.Redirect(w, r, rt.failurePath, http.StatusSeeOther)
}

func (rt *Router) handleFederatedBegin(w http.ResponseWriter, r *http.Request) {
	provider, err := ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	url, err := rt.federated.BeginSignIn(r.Context(), provider)
	if err != nil {
		rt.logger.Error("failed to begin federated sign-in",
			logger.Error(err), logger.Provider(string(provider)), logger.Component("router"))
		http.Redirect(w, r, rt.failurePath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (rt *Router) handleFederatedCallback(w http.ResponseWriter, r *http.Request) {
	provider, err := ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user, err := rt.federated.CompleteSignIn(r.Context(), provider,
		r.URL.Query().Get("code"),
		r.URL.Query().Get("state"),
	)
	if err != nil {
		// The browser arrived via a provider redirect, so there is no form
		// to attach errors to; log and send the user back to sign in again.
		rt.logger.Error("federated callback failed",
			logger.Error(err), logger.Provider(string(provider)), logger.Component("router"))
		http.Redirect(w, r, rt.failurePath, http.StatusSeeOther)
		return
	}

	if err := rt.sessions.Establish(w, user); err != nil {
		rt.logger.Error("failed to establish session",
			logger.Error(err), logger.UserID(user.ID.String()), logger.Component("router"))
		http.Redirect(w, r, rt.failurePath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, rt.successPath, http.StatusSeeOther)
}

// establishAndRedirect finishes a successful form flow: session cookie,
// then redirect. A token issue failure is an infrastructure fault and
// surfaces only as the opaque global message.
func (rt *Router) establishAndRedirect(w http.ResponseWriter, r *http.Request, user *User, globalMsg string) {
	if err := rt.sessions.Establish(w, user); err != nil {
		rt.logger.Error("failed to establish session",
			logger.Error(err), logger.UserID(user.ID.String()), logger.Component("router"))
		fe := &FormErrors{}
		fe.AddGlobal(globalMsg)
		rt.respondJSON(w, http.StatusInternalServerError, fe)
		return
	}
	http.Redirect(w, r, rt.successPath, http.StatusSeeOther)
}

func (rt *Router) respondFormErrors(w http.ResponseWriter, fe *FormErrors) {
	rt.respondJSON(w, http.StatusUnprocessableEntity, fe)
}

func (rt *Router) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rt.logger.Error("failed to encode response", logger.Error(err), logger.Component("router"))
	}
}
