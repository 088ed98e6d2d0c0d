package www

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/engine"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	base     *template.Template
	tmpls    map[string]*template.Template
	eventHub *EventHub
	logger   *zap.Logger
}

// NewRouter builds the dashboard's HTTP surface. The returned func stops the
// SSE hub.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	h, r := newRouter(eng)
	return r, h.eventHub.Stop
}

func newRouter(eng *engine.Engine) (*Handlers, chi.Router) {
	logger := eng.Logger().Named("www")

	// Layout and partials form the base set; each page is parsed into its own
	// clone so the pages' {{define "content"}} blocks do not collide.
	base := template.New("").Funcs(templateFuncs())
	base = template.Must(base.ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html"))

	pages := []string{
		"templates/login.html",
		"templates/landing.html",
		"templates/dashboard.html",
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone := template.Must(base.Clone())
		clone = template.Must(clone.ParseFS(templateFS, p))
		tmpls[p[len("templates/"):]] = clone
	}

	hub := NewEventHub(logger.Named("sse"))
	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		base:     base,
		tmpls:    tmpls,
		eventHub: hub,
		logger:   logger,
	}
	hub.Start()
	hub.SetupEngineListeners(eng, h.renderPartial)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/events", h.SSEHandler)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/", h.handleLanding)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/go/{tab}", h.handleGoTo)
		r.Post("/drawer", h.handleDrawer)
		r.Post("/search/keystroke", h.handleSearchKeystroke)
		r.Post("/search/reset", h.handleSearchReset)
		r.Post("/open/reset", h.handleOpenReset)
		r.Get("/export/search.xlsx", h.handleExportSearch)
		r.Get("/export/open.xlsx", h.handleExportOpen)
	})

	return h, r
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	tmpl, ok := h.tmpls[name]
	if !ok {
		h.logger.Error("template not found", zap.String("template", name))
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if ws := workspaceFrom(r); ws != nil {
		data["DrawerOpen"] = ws.Shell.DrawerOpen()
		data["Authenticated"] = true
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// renderPartial executes one partial outside a page, for SSE pushes.
func (h *Handlers) renderPartial(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := h.base.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
