package views

import (
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

// WorkspaceOptions carries the tunables each workspace is built with.
type WorkspaceOptions struct {
	SearchDebounce            time.Duration
	DefaultFinancialYear      string
	ForceLogoutOnUnauthorized bool
}

// Workspace is everything one signed-in browser sees: the shell and the
// state of each dashboard tab.
type Workspace struct {
	ID        string
	Client    *api.Client
	Shell     *Shell
	Dashboard *Dashboard
	Search    *Search
	Open      *OpenOrders
	Analytics *Analytics
}

// NewWorkspace builds the views on top of a client already bound to the
// session's credential store.
func NewWorkspace(id string, client *api.Client, opts WorkspaceOptions, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))
	return &Workspace{
		ID:        id,
		Client:    client,
		Shell:     NewShell(client.Credentials(), opts.ForceLogoutOnUnauthorized),
		Dashboard: NewDashboard(),
		Search:    NewSearch(client, opts.SearchDebounce, logger.Named("search")),
		Open:      NewOpenOrders(client, logger.Named("open")),
		Analytics: NewAnalytics(client, opts.DefaultFinancialYear, logger.Named("analytics")),
	}
}

// Close stops background work owned by the workspace.
func (w *Workspace) Close() {
	w.Search.Close()
}
