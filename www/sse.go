package www

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/engine"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

type SSEEvent struct {
	Event string
	Data  string
}

// EventHub fans events out to the SSE streams of each browser session.
// A client whose buffer is full misses the event.
type EventHub struct {
	logger *zap.Logger

	mu       sync.RWMutex
	clients  map[string]map[chan SSEEvent]struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		logger:   logger,
		clients:  make(map[string]map[chan SSEEvent]struct{}),
		stopChan: make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	h.wg.Add(1)
	go h.keepalive(30 * time.Second)
}

func (h *EventHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
		h.wg.Wait()
	})
}

func (h *EventHub) keepalive(every time.Duration) {
	defer h.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-h.stopChan:
			return
		case <-t.C:
			h.Broadcast("keepalive", "ping")
		}
	}
}

// Send delivers an event to every stream of one session.
func (h *EventHub) Send(sessionID, event, data string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients[sessionID] {
		select {
		case ch <- SSEEvent{Event: event, Data: data}:
		default:
		}
	}
}

// Broadcast delivers an event to every connected stream.
func (h *EventHub) Broadcast(event, data string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for ch := range set {
			select {
			case ch <- SSEEvent{Event: event, Data: data}:
			default:
			}
		}
	}
}

func (h *EventHub) AddClient(sessionID string) chan SSEEvent {
	ch := make(chan SSEEvent, 64)
	h.mu.Lock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[chan SSEEvent]struct{})
		h.clients[sessionID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) RemoveClient(sessionID string, ch chan SSEEvent) {
	h.mu.Lock()
	if set, ok := h.clients[sessionID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.clients, sessionID)
		}
	}
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// SetupEngineListeners wires engine events to SSE messages. Search results
// are rendered to HTML here so the browser only swaps markup.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine, render func(name string, data any) (string, error)) {
	engine.Handle(eng.Events, engine.EventSearchCompleted, func(ev engine.SearchCompletedEvent) {
		ws, ok := eng.Lookup(ev.SessionID)
		if !ok {
			return
		}
		html, err := render("search-results", searchData(ws))
		if err != nil {
			h.logger.Error("render search results", zap.Error(err))
			return
		}
		h.Send(ev.SessionID, "search-results", jsonString(map[string]any{"html": html}))
	})

	engine.Handle(eng.Events, engine.EventSessionExpired, func(ev engine.SessionExpiredEvent) {
		h.Send(ev.SessionID, "session-expired", jsonString(map[string]string{"redirect": ev.Redirect}))
	})

	engine.Handle(eng.Events, engine.EventLoggedOut, func(ev engine.SessionEvent) {
		h.Send(ev.SessionID, "session-expired", jsonString(map[string]string{"redirect": views.LoginPath}))
	})

	engine.Handle(eng.Events, engine.EventBackendReconfigured, func(ev engine.BackendReconfiguredEvent) {
		h.Broadcast("system-status", jsonString(map[string]string{"backend": ev.BaseURL}))
	})
}

// SSEHandler serves the event stream of the caller's session.
func (h *Handlers) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	sid := h.sessionID(r)
	if sid == "" {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.eventHub.AddClient(sid)
	defer h.eventHub.RemoveClient(sid, ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				h.logger.Debug("sse write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func jsonString(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
