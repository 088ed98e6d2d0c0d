package www

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

const (
	sessionName = "factorydash-session"
	sessionKey  = "sid"
)

type ctxKey int

const workspaceKey ctxKey = iota

func newSessionStore(secret string) *sessions.CookieStore {
	if secret == "" {
		secret = "factorydash-default-secret-change-me"
	}
	s := sessions.NewCookieStore([]byte(secret))
	s.Options.Path = "/"
	s.Options.HttpOnly = true
	s.Options.Secure = false // plant LAN deployments run plain HTTP
	s.Options.SameSite = http.SameSiteLaxMode
	return s
}

// sessionID returns the browser's session id, or "" when it has none.
func (h *Handlers) sessionID(r *http.Request) string {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		return ""
	}
	sid, _ := session.Values[sessionKey].(string)
	return sid
}

// ensureSessionID returns the browser's session id, issuing a new one and
// setting the cookie when there is none.
func (h *Handlers) ensureSessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, _ := h.sessions.Get(r, sessionName)
	if sid, ok := session.Values[sessionKey].(string); ok && sid != "" {
		return sid, nil
	}
	sid := uuid.NewString()
	session.Values[sessionKey] = sid
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return sid, nil
}

// requireAuth re-checks the credential on every navigation and attaches the
// session's workspace to the request context. Signed-out sessions never get a
// workspace.
func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := h.sessionID(r)
		if sid == "" {
			http.Redirect(w, r, views.LoginPath, http.StatusSeeOther)
			return
		}
		if !credential.HasValid(r.Context(), h.engine.Credentials(sid)) {
			h.engine.Drop(sid)
			http.Redirect(w, r, views.LoginPath, http.StatusSeeOther)
			return
		}
		ws := h.engine.Workspace(sid)
		ctx := context.WithValue(r.Context(), workspaceKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func workspaceFrom(r *http.Request) *views.Workspace {
	ws, _ := r.Context().Value(workspaceKey).(*views.Workspace)
	return ws
}

// guard applies the 401 policy after a backend call. It reports whether the
// response was already written.
func (h *Handlers) guard(w http.ResponseWriter, r *http.Request, ws *views.Workspace, f api.Failure) bool {
	to := ws.Shell.Guard(r.Context(), f)
	if to == "" {
		return false
	}
	h.engine.NotifyLogout(ws.ID)
	http.Redirect(w, r, to, http.StatusSeeOther)
	return true
}
