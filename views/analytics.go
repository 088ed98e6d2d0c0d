package views

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

// AnalyticsClient is the slice of the backend client the analytics view uses.
type AnalyticsClient interface {
	FinancialYearSummary(ctx context.Context, financialYear string) (*api.FinancialYearSummary, error)
	ProductWiseSales(ctx context.Context, financialYear string) ([]api.ProductSales, error)
	CustomerWiseSales(ctx context.Context, financialYear string) ([]api.CustomerSales, error)
}

var fyPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// ValidFinancialYear reports whether fy has the backend's YYYY-YYYY shape.
func ValidFinancialYear(fy string) bool {
	return fyPattern.MatchString(strings.TrimSpace(fy))
}

type AnalyticsState struct {
	FinancialYear string
	Summary       *api.FinancialYearSummary // nil until loaded
	Products      []api.ProductSales
	Customers     []api.CustomerSales
	Loading       bool
}

// Analytics is the sales analytics view. Its three series load
// independently: a failed request leaves that piece as it was.
type Analytics struct {
	client AnalyticsClient
	logger *zap.Logger

	mu       sync.Mutex
	state    AnalyticsState
	inflight int
}

func NewAnalytics(client AnalyticsClient, defaultYear string, logger *zap.Logger) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analytics{
		client: client,
		logger: logger,
		state:  AnalyticsState{FinancialYear: defaultYear},
	}
}

func (a *Analytics) State() AnalyticsState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	st.Products = append([]api.ProductSales(nil), a.state.Products...)
	st.Customers = append([]api.CustomerSales(nil), a.state.Customers...)
	return st
}

// SetYear records an edit of the financial-year field and reloads.
func (a *Analytics) SetYear(ctx context.Context, fy string) api.Result[AnalyticsState] {
	a.mu.Lock()
	a.state.FinancialYear = fy
	a.mu.Unlock()
	return a.Load(ctx)
}

// Load issues the three aggregate requests in parallel for the current year.
// The Result carries the first failure, if any; partial data is kept.
func (a *Analytics) Load(ctx context.Context) api.Result[AnalyticsState] {
	a.mu.Lock()
	fy := a.state.FinancialYear
	a.inflight++
	a.state.Loading = true
	a.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		sum, err := a.client.FinancialYearSummary(ctx, fy)
		if err != nil {
			a.logger.Warn("financial year summary failed", zap.String("financial_year", fy), zap.Error(err))
			return err
		}
		a.apply(fy, func(st *AnalyticsState) { st.Summary = sum })
		return nil
	})
	g.Go(func() error {
		rows, err := a.client.ProductWiseSales(ctx, fy)
		if err != nil {
			a.logger.Warn("product-wise sales failed", zap.String("financial_year", fy), zap.Error(err))
			return err
		}
		a.apply(fy, func(st *AnalyticsState) { st.Products = rows })
		return nil
	})
	g.Go(func() error {
		rows, err := a.client.CustomerWiseSales(ctx, fy)
		if err != nil {
			a.logger.Warn("customer-wise sales failed", zap.String("financial_year", fy), zap.Error(err))
			return err
		}
		a.apply(fy, func(st *AnalyticsState) { st.Customers = rows })
		return nil
	})
	err := g.Wait()

	a.mu.Lock()
	a.inflight--
	a.state.Loading = a.inflight > 0
	a.mu.Unlock()

	st := a.State()
	if err != nil {
		return api.Result[AnalyticsState]{Value: st, Err: err}
	}
	return api.Result[AnalyticsState]{Value: st}
}

// apply updates one piece of state, unless the year was edited meanwhile.
func (a *Analytics) apply(fy string, fn func(*AnalyticsState)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.FinancialYear != fy {
		return
	}
	fn(&a.state)
}
