package views

import (
	"context"
	"sync"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

type fakeBackend struct {
	mu sync.Mutex

	searchCalls []api.SearchQuery
	searchOut   []api.Order
	searchErr   error

	openCalls []api.OpenQuery
	openOut   []api.Order
	openErr   error

	loginOut *api.LoginResponse
	loginErr error

	summary    *api.FinancialYearSummary
	summaryErr error
	products   []api.ProductSales
	productErr error
	customers  []api.CustomerSales
	custErr    error
	years      []string
}

func (f *fakeBackend) SearchOrders(_ context.Context, q api.SearchQuery) ([]api.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, q)
	return f.searchOut, f.searchErr
}

func (f *fakeBackend) OpenOrders(_ context.Context, q api.OpenQuery) ([]api.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openCalls = append(f.openCalls, q)
	return f.openOut, f.openErr
}

func (f *fakeBackend) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeBackend) FinancialYearSummary(_ context.Context, fy string) (*api.FinancialYearSummary, error) {
	f.mu.Lock()
	f.years = append(f.years, fy)
	f.mu.Unlock()
	return f.summary, f.summaryErr
}

func (f *fakeBackend) ProductWiseSales(_ context.Context, _ string) ([]api.ProductSales, error) {
	return f.products, f.productErr
}

func (f *fakeBackend) CustomerWiseSales(_ context.Context, _ string) ([]api.CustomerSales, error) {
	return f.customers, f.custErr
}

func (f *fakeBackend) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
