package views

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

// OpenOrderLister is the slice of the backend client the open-orders view uses.
type OpenOrderLister interface {
	OpenOrders(ctx context.Context, q api.OpenQuery) ([]api.Order, error)
}

type OpenFilter struct {
	CustomerName string
	PartNumber   string
	TodayOnly    bool
}

func OpenFilterFromValues(v url.Values) OpenFilter {
	today := v.Get("today_only")
	return OpenFilter{
		CustomerName: v.Get("customer_name"),
		PartNumber:   v.Get("part_number"),
		TodayOnly:    today == "on" || today == "true" || today == "1",
	}
}

func (f OpenFilter) Values() url.Values {
	return f.Query().Values()
}

func (f OpenFilter) Query() api.OpenQuery {
	return api.OpenQuery{
		CustomerName: f.CustomerName,
		PartNumber:   f.PartNumber,
		TodayOnly:    f.TodayOnly,
	}
}

// OpenSummary holds the counters shown above the open-orders table.
type OpenSummary struct {
	PendingOrders int
	OpenQuantity  int
	Customers     int
}

// Summarize counts rows, sums outstanding quantity (null as zero) and counts
// distinct customer names. Empty or missing names are not counted.
func Summarize(orders []api.Order) OpenSummary {
	seen := make(map[string]struct{})
	sum := OpenSummary{PendingOrders: len(orders)}
	for _, o := range orders {
		sum.OpenQuantity += o.Outstanding()
		if name := o.Customer(); name != "" {
			seen[name] = struct{}{}
		}
	}
	sum.Customers = len(seen)
	return sum
}

type OpenState struct {
	Filter  OpenFilter
	Orders  []api.Order
	Summary OpenSummary
	Loading bool
}

// OpenOrders is the outstanding-orders view.
type OpenOrders struct {
	client OpenOrderLister
	logger *zap.Logger

	mu       sync.Mutex
	state    OpenState
	inflight int
}

func NewOpenOrders(client OpenOrderLister, logger *zap.Logger) *OpenOrders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenOrders{client: client, logger: logger}
}

func (v *OpenOrders) State() OpenState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state
	st.Orders = append([]api.Order(nil), v.state.Orders...)
	return st
}

func (v *OpenOrders) SetFilter(f OpenFilter) {
	v.mu.Lock()
	v.state.Filter = f
	v.mu.Unlock()
}

// Apply fetches with the current filter and recomputes the summary.
func (v *OpenOrders) Apply(ctx context.Context) api.Result[[]api.Order] {
	v.mu.Lock()
	q := v.state.Filter.Query()
	v.inflight++
	v.state.Loading = true
	v.mu.Unlock()

	res := api.Call(func() ([]api.Order, error) {
		return v.client.OpenOrders(ctx, q)
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inflight--
	v.state.Loading = v.inflight > 0
	if !res.OK() {
		v.logger.Warn("open orders fetch failed", zap.Error(res.Err))
		v.state.Orders = nil
	} else {
		v.state.Orders = res.Value
	}
	v.state.Summary = Summarize(v.state.Orders)
	return res
}

// Reset clears the filter and re-fetches the unfiltered list.
func (v *OpenOrders) Reset(ctx context.Context) api.Result[[]api.Order] {
	v.SetFilter(OpenFilter{})
	return v.Apply(ctx)
}
