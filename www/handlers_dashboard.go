package www

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

const healthTimeout = 3 * time.Second

var statusOptions = []struct{ Value, Label string }{
	{"", "All Status"},
	{string(api.StatusDispatched), "Dispatched"},
	{string(api.StatusPending), "Pending"},
}

func (h *Handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	data := map[string]any{
		"Page":    "landing",
		"Tabs":    views.Tabs,
		"Backend": h.engine.Client().BaseURL(),
	}
	if hs, err := h.engine.Client().Health(ctx); err != nil {
		data["HealthError"] = err.Error()
	} else {
		data["Health"] = hs
	}
	h.render(w, r, "landing.html", data)
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	q := r.URL.Query()
	tab := ws.Dashboard.Sync(q)

	switch tab {
	case views.TabSearch:
		if q.Has("apply") {
			ws.Search.SetFilter(views.SearchFilterFromValues(q))
			if h.guard(w, r, ws, ws.Search.Apply(r.Context())) {
				return
			}
		}
	case views.TabOpen:
		if q.Has("apply") {
			ws.Open.SetFilter(views.OpenFilterFromValues(q))
		}
		if h.guard(w, r, ws, ws.Open.Apply(r.Context())) {
			return
		}
	case views.TabAnalytics:
		var res api.Result[views.AnalyticsState]
		if q.Has("financial_year") {
			res = ws.Analytics.SetYear(r.Context(), q.Get("financial_year"))
		} else {
			res = ws.Analytics.Load(r.Context())
		}
		if h.guard(w, r, ws, res) {
			return
		}
	}
	h.renderDashboard(w, r, ws, tab)
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, ws *views.Workspace, tab views.Tab) {
	data := map[string]any{
		"Page":   "dashboard",
		"Tabs":   views.Tabs,
		"Active": string(tab),
	}
	switch tab {
	case views.TabSearch:
		data["Search"] = searchData(ws)
	case views.TabOpen:
		data["Open"] = openData(ws)
	case views.TabAnalytics:
		data["Analytics"] = analyticsData(ws)
	}
	h.render(w, r, "dashboard.html", data)
}

func (h *Handlers) handleGoTo(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	target := chi.URLParam(r, "tab")
	if target == "home" {
		http.Redirect(w, r, ws.Shell.GoHome(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, ws.Shell.GoToTab(views.Tab(target)), http.StatusSeeOther)
}

func (h *Handlers) handleDrawer(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if r.FormValue("open") == "1" {
		ws.Shell.OpenDrawer()
	} else {
		ws.Shell.CloseDrawer()
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchKeystroke records the form as typed and (re)arms the
// debounced search. Results arrive over SSE.
func (h *Handlers) handleSearchKeystroke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws := workspaceFrom(r)
	f := views.SearchFilterFromValues(r.PostForm)
	ws.Search.SetFilter(f)
	ws.Search.TypeGlobal(f.Global)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleSearchReset(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Search.Reset()
	http.Redirect(w, r, ws.Dashboard.ChangeTab(views.TabSearch), http.StatusSeeOther)
}

// handleOpenReset clears the filters and re-fetches, then renders the tab in
// place so the list is not fetched a second time.
func (h *Handlers) handleOpenReset(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if h.guard(w, r, ws, ws.Open.Reset(r.Context())) {
		return
	}
	ws.Dashboard.ChangeTab(views.TabOpen)
	h.renderDashboard(w, r, ws, views.TabOpen)
}

func searchData(ws *views.Workspace) map[string]any {
	st := ws.Search.State()
	return map[string]any{
		"Filter":   st.Filter,
		"Results":  st.Results,
		"Loading":  st.Loading,
		"Searched": st.Searched,
		"Pending":  ws.Search.AutoSearchPending(),
		"Statuses": statusOptions,
	}
}

func openData(ws *views.Workspace) map[string]any {
	st := ws.Open.State()
	return map[string]any{
		"Filter":  st.Filter,
		"Orders":  st.Orders,
		"Summary": st.Summary,
		"Loading": st.Loading,
	}
}

func analyticsData(ws *views.Workspace) map[string]any {
	st := ws.Analytics.State()
	maxProduct, maxCustomer := decimal.Zero, decimal.Zero
	for _, p := range st.Products {
		maxProduct = decimal.Max(maxProduct, p.TotalAmount)
	}
	for _, c := range st.Customers {
		maxCustomer = decimal.Max(maxCustomer, c.TotalAmount)
	}
	return map[string]any{
		"State":       st,
		"ValidYear":   views.ValidFinancialYear(st.FinancialYear),
		"MaxProduct":  maxProduct,
		"MaxCustomer": maxCustomer,
	}
}
