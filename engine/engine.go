package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

type Config struct {
	AppConfig *config.Config
	// Client is the base backend client. Each workspace derives its own
	// from it with WithCredentials.
	Client *api.Client
	KV     credential.KV
	Logger *zap.Logger
	// SweepInterval is how often idle workspaces are looked for. Zero means
	// one minute.
	SweepInterval time.Duration
}

type entry struct {
	ws       *views.Workspace
	lastSeen time.Time
}

// Engine owns the per-browser workspaces and the event bus that links them
// to the web layer.
type Engine struct {
	cfg    *config.Config
	client *api.Client
	kv     credential.KV
	logger *zap.Logger
	Events *EventBus

	sweep    time.Duration
	idle     time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu         sync.Mutex
	workspaces map[string]*entry
}

func New(c Config) *Engine {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sweep := c.SweepInterval
	if sweep <= 0 {
		sweep = time.Minute
	}
	return &Engine{
		cfg:        c.AppConfig,
		client:     c.Client,
		kv:         c.KV,
		logger:     logger,
		Events:     NewEventBus(),
		sweep:      sweep,
		idle:       c.AppConfig.Web.WorkspaceIdle,
		stopChan:   make(chan struct{}),
		workspaces: make(map[string]*entry),
	}
}

func (e *Engine) Start() {
	e.wireEventHandlers()
	if e.idle > 0 {
		e.wg.Add(1)
		go e.evictionLoop()
	}
	e.logger.Info("engine started", zap.Duration("workspace_idle", e.idle))
}

// Stop ends the eviction loop and closes every workspace. It is safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopChan)
		e.wg.Wait()

		e.mu.Lock()
		for sid, en := range e.workspaces {
			en.ws.Close()
			delete(e.workspaces, sid)
		}
		e.mu.Unlock()
		e.logger.Info("engine stopped")
	})
}

// Accessors
func (e *Engine) AppConfig() *config.Config { return e.cfg }
func (e *Engine) Client() *api.Client       { return e.client }
func (e *Engine) Logger() *zap.Logger       { return e.logger }

// Credentials returns the token store for one browser session.
func (e *Engine) Credentials(sessionID string) credential.Store {
	return credential.NewStore(e.kv, credential.SessionKey(sessionID), e.logger.Named("credential"))
}

// Workspace returns the session's workspace, creating it on first use, and
// marks it as recently seen.
func (e *Engine) Workspace(sessionID string) *views.Workspace {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.workspaces[sessionID]; ok {
		en.lastSeen = time.Now()
		return en.ws
	}
	ws := e.newWorkspace(sessionID)
	e.workspaces[sessionID] = &entry{ws: ws, lastSeen: time.Now()}
	return ws
}

// Lookup returns the session's workspace without creating one.
func (e *Engine) Lookup(sessionID string) (*views.Workspace, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.workspaces[sessionID]
	if !ok {
		return nil, false
	}
	return en.ws, true
}

// Drop closes and forgets a workspace. The stored credential is untouched.
func (e *Engine) Drop(sessionID string) {
	e.mu.Lock()
	en, ok := e.workspaces[sessionID]
	delete(e.workspaces, sessionID)
	e.mu.Unlock()
	if ok {
		en.ws.Close()
	}
}

func (e *Engine) WorkspaceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workspaces)
}

// Reconfigure points every workspace at a new backend address.
func (e *Engine) Reconfigure(cfg *config.Config) {
	base, timeout := cfg.APISettings()
	e.cfg.UpdateAPI(config.APIConfig{BaseURL: base, Timeout: timeout})
	e.client.Reconfigure(base, timeout)
	e.Events.Emit(Event{Type: EventBackendReconfigured, Payload: BackendReconfiguredEvent{BaseURL: base}})
}

// NotifyLogin and NotifyLogout are called by the web layer after the
// credential has changed.
func (e *Engine) NotifyLogin(sessionID, email string) {
	e.Events.Emit(Event{Type: EventLoggedIn, Payload: SessionEvent{SessionID: sessionID, Email: email}})
}

func (e *Engine) NotifyLogout(sessionID string) {
	e.Events.Emit(Event{Type: EventLoggedOut, Payload: SessionEvent{SessionID: sessionID}})
}

func (e *Engine) newWorkspace(sessionID string) *views.Workspace {
	client := e.client.WithCredentials(e.Credentials(sessionID))
	ws := views.NewWorkspace(sessionID, client, views.WorkspaceOptions{
		SearchDebounce:            e.cfg.Search.Debounce,
		DefaultFinancialYear:      e.cfg.Analytics.DefaultFinancialYear,
		ForceLogoutOnUnauthorized: e.cfg.Auth.ForceLogoutOnUnauthorized,
	}, e.logger.Named("views"))

	ws.Search.OnAutoSearch(func(res api.Result[[]api.Order]) {
		if redirect := ws.Shell.Guard(ws.Search.Context(), res); redirect != "" {
			e.Events.Emit(Event{Type: EventSessionExpired, Payload: SessionExpiredEvent{
				SessionID: sessionID,
				Redirect:  redirect,
			}})
			return
		}
		e.Events.Emit(Event{Type: EventSearchCompleted, Payload: SearchCompletedEvent{
			SessionID: sessionID,
			Orders:    res.Value,
			Err:       res.Err,
		}})
	})
	return ws
}

func (e *Engine) evictionLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case now := <-ticker.C:
			e.EvictIdle(now)
		}
	}
}

// EvictIdle closes workspaces not seen for longer than the idle limit and
// returns how many were removed.
func (e *Engine) EvictIdle(now time.Time) int {
	if e.idle <= 0 {
		return 0
	}
	type victim struct {
		sid  string
		ws   *views.Workspace
		idle time.Duration
	}
	var victims []victim

	e.mu.Lock()
	for sid, en := range e.workspaces {
		if d := now.Sub(en.lastSeen); d > e.idle {
			victims = append(victims, victim{sid, en.ws, d})
			delete(e.workspaces, sid)
		}
	}
	e.mu.Unlock()

	for _, v := range victims {
		v.ws.Close()
		e.Events.Emit(Event{Type: EventWorkspaceEvicted, Payload: WorkspaceEvictedEvent{
			SessionID: v.sid,
			IdleFor:   v.idle.Round(time.Second).String(),
		}})
	}
	return len(victims)
}
