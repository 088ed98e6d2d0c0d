package engine

import "go.uber.org/zap"

func (e *Engine) wireEventHandlers() {
	Handle(e.Events, EventLoggedIn, func(ev SessionEvent) {
		e.logger.Info("session logged in", zap.String("session", ev.SessionID), zap.String("email", ev.Email))
	})

	// A signed-out browser starts from a fresh workspace next time.
	Handle(e.Events, EventLoggedOut, func(ev SessionEvent) {
		e.logger.Info("session logged out", zap.String("session", ev.SessionID))
		e.Drop(ev.SessionID)
	})

	Handle(e.Events, EventSessionExpired, func(ev SessionExpiredEvent) {
		e.logger.Warn("backend rejected session token", zap.String("session", ev.SessionID))
		e.Drop(ev.SessionID)
	})

	Handle(e.Events, EventWorkspaceEvicted, func(ev WorkspaceEvictedEvent) {
		e.logger.Debug("workspace evicted", zap.String("session", ev.SessionID), zap.String("idle", ev.IdleFor))
	})

	Handle(e.Events, EventBackendReconfigured, func(ev BackendReconfiguredEvent) {
		e.logger.Info("backend address changed", zap.String("base_url", ev.BaseURL))
	})
}
