package www

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sid := h.sessionID(r); sid != "" && credential.HasValid(r.Context(), h.engine.Credentials(sid)) {
		http.Redirect(w, r, views.RootPath, http.StatusSeeOther)
		return
	}
	h.render(w, r, "login.html", map[string]any{
		"Page": "login",
	})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sid, err := h.ensureSessionID(w, r)
	if err != nil {
		h.logger.Error("session save failed", zap.Error(err))
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	login := views.NewLogin(h.engine.Client(), h.engine.Credentials(sid), h.logger.Named("login"))
	email := r.FormValue("email")
	to := login.Submit(r.Context(), email, r.FormValue("password"))
	if to == "" {
		st := login.State()
		h.render(w, r, "login.html", map[string]any{
			"Page":  "login",
			"Email": st.Email,
			"Error": st.Error,
		})
		return
	}

	h.engine.NotifyLogin(sid, login.State().Email)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(r)
	if sid != "" {
		if ws, ok := h.engine.Lookup(sid); ok {
			ws.Shell.Logout(r.Context())
		} else {
			h.engine.Credentials(sid).Clear(r.Context())
		}
		h.engine.NotifyLogout(sid)
	}
	http.Redirect(w, r, views.LoginPath, http.StatusSeeOther)
}
