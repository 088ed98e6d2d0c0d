package engine

import "github.com/keerthikaa27/factory-order-dashboard/api"

const (
	EventLoggedIn EventType = iota + 1
	EventLoggedOut
	EventSearchCompleted
	EventSessionExpired
	EventWorkspaceEvicted
	EventBackendReconfigured
)

// --- Event payloads ---

type SessionEvent struct {
	SessionID string
	Email     string
}

// SearchCompletedEvent carries the outcome of a debounced search.
type SearchCompletedEvent struct {
	SessionID string
	Orders    []api.Order
	Err       error
}

type SessionExpiredEvent struct {
	SessionID string
	Redirect  string
}

type WorkspaceEvictedEvent struct {
	SessionID string
	IdleFor   string
}

type BackendReconfiguredEvent struct {
	BaseURL string
}
