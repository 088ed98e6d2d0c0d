package views

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

// OrderSearcher is the slice of the backend client the search view uses.
type OrderSearcher interface {
	SearchOrders(ctx context.Context, q api.SearchQuery) ([]api.Order, error)
}

// SearchFilter is the six-field search form. Field names follow the query
// parameters the form posts.
type SearchFilter struct {
	Global       string
	PONumber     string
	SerialNumber string
	PartNumber   string
	CustomerName string
	Status       string
}

// SearchFilterFromValues reads the form fields out of a query string.
func SearchFilterFromValues(v url.Values) SearchFilter {
	return SearchFilter{
		Global:       v.Get("global"),
		PONumber:     v.Get("po_number"),
		SerialNumber: v.Get("serial_number"),
		PartNumber:   v.Get("part_number"),
		CustomerName: v.Get("customer_name"),
		Status:       v.Get("status"),
	}
}

// Values is the inverse of SearchFilterFromValues, omitting empty fields.
func (f SearchFilter) Values() url.Values {
	v := url.Values{}
	setIf := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	setIf("global", f.Global)
	setIf("po_number", f.PONumber)
	setIf("serial_number", f.SerialNumber)
	setIf("part_number", f.PartNumber)
	setIf("customer_name", f.CustomerName)
	setIf("status", f.Status)
	return v
}

// IsZero reports whether every field is empty.
func (f SearchFilter) IsZero() bool {
	return f == SearchFilter{}
}

// Query builds the backend request. Each identifying field falls back to
// the global term when it is empty; status is only sent when chosen.
func (f SearchFilter) Query() api.SearchQuery {
	or := func(own string) string {
		if own != "" {
			return own
		}
		return f.Global
	}
	return api.SearchQuery{
		PONumber:     or(f.PONumber),
		SerialNumber: or(f.SerialNumber),
		PartNumber:   or(f.PartNumber),
		CustomerName: or(f.CustomerName),
		Status:       api.OrderStatus(f.Status),
	}
}

type SearchState struct {
	Filter   SearchFilter
	Results  []api.Order
	Loading  bool
	Searched bool // a search has completed since the last reset
}

// Search is the order search view. Typing in the global field schedules a
// debounced search; Apply searches at once. Overlapping searches are not
// ordered: whichever finishes last wins.
type Search struct {
	client   OrderSearcher
	debounce *Debouncer
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    SearchState
	inflight int
	onAuto   func(api.Result[[]api.Order])
}

func NewSearch(client OrderSearcher, delay time.Duration, logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Search{
		client:   client,
		debounce: NewDebouncer(delay),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnAutoSearch registers a callback run after every debounced search.
func (s *Search) OnAutoSearch(fn func(api.Result[[]api.Order])) {
	s.mu.Lock()
	s.onAuto = fn
	s.mu.Unlock()
}

func (s *Search) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Results = append([]api.Order(nil), s.state.Results...)
	return st
}

// SetFilter replaces the form contents without searching.
func (s *Search) SetFilter(f SearchFilter) {
	s.mu.Lock()
	s.state.Filter = f
	s.mu.Unlock()
}

// TypeGlobal records a keystroke in the global field. A non-empty term
// (re)starts the debounce timer; an empty one cancels any pending search.
func (s *Search) TypeGlobal(value string) {
	s.mu.Lock()
	s.state.Filter.Global = value
	s.mu.Unlock()

	if strings.TrimSpace(value) == "" {
		s.debounce.Cancel()
		return
	}
	s.debounce.Trigger(func() {
		res := s.run(s.ctx)
		s.mu.Lock()
		fn := s.onAuto
		s.mu.Unlock()
		if fn != nil {
			fn(res)
		}
	})
}

// Context is the context debounced searches run under. It is cancelled by Close.
func (s *Search) Context() context.Context { return s.ctx }

// AutoSearchPending reports whether a debounced search is waiting to fire.
func (s *Search) AutoSearchPending() bool {
	return s.debounce.Pending()
}

// Apply searches immediately with the current filter, superseding any
// pending debounced search.
func (s *Search) Apply(ctx context.Context) api.Result[[]api.Order] {
	s.debounce.Cancel()
	return s.run(ctx)
}

// Reset clears the form and results without issuing a request.
func (s *Search) Reset() {
	s.debounce.Cancel()
	s.mu.Lock()
	s.state.Filter = SearchFilter{}
	s.state.Results = nil
	s.state.Searched = false
	s.mu.Unlock()
}

// Close stops the debouncer and cancels an in-flight debounced search.
func (s *Search) Close() {
	s.debounce.Stop()
	s.cancel()
}

func (s *Search) run(ctx context.Context) api.Result[[]api.Order] {
	s.mu.Lock()
	q := s.state.Filter.Query()
	s.inflight++
	s.state.Loading = true
	s.mu.Unlock()

	res := api.Call(func() ([]api.Order, error) {
		return s.client.SearchOrders(ctx, q)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.state.Loading = s.inflight > 0
	s.state.Searched = true
	if !res.OK() {
		s.logger.Warn("order search failed", zap.Error(res.Err))
		s.state.Results = nil
		return res
	}
	s.state.Results = res.Value
	return res
}
