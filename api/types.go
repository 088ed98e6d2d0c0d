package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus is the dispatch status of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusDispatched OrderStatus = "DISPATCHED"
)

// Source types the backend ingests orders from.
const (
	SourceOutstanding = "OUTSTANDING"
	SourceDelivery    = "DELIVERY"
)

// Order is one row as returned by the search and open-orders endpoints.
// Every field but ID may be null.
type Order struct {
	ID              int64        `json:"id"`
	SourceType      string       `json:"source_type,omitempty"`
	Status          *OrderStatus `json:"status"`
	SONumber        *string      `json:"so_number"`
	OrderNo         *string      `json:"order_no"`
	CustomerName    *string      `json:"customer_name"`
	CustomerCode    *string      `json:"customer_code"`
	PartNumber      *string      `json:"part_number"`
	OrderDate       *string      `json:"order_date"`
	DeliveryDate    *string      `json:"delivery_date"`
	FinancialYear   *string      `json:"financial_year"`
	Department      *string      `json:"department"`
	ItemDescription *string      `json:"item_description"`
	Quantity        *int         `json:"quantity"`
	OrderQty        *int         `json:"order_qty"`
	OSOrderQty      *int         `json:"os_order_qty"`
	LastUpdatedAt   *string      `json:"last_updated_at"`
}

// Dispatched reports whether the order has left the factory.
func (o Order) Dispatched() bool {
	return o.Status != nil && *o.Status == StatusDispatched
}

// Outstanding returns the open quantity, treating null as zero.
func (o Order) Outstanding() int {
	if o.OSOrderQty == nil {
		return 0
	}
	return *o.OSOrderQty
}

// Customer returns the trimmed customer name or "".
func (o Order) Customer() string {
	if o.CustomerName == nil {
		return ""
	}
	return strings.TrimSpace(*o.CustomerName)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type FinancialYearSummary struct {
	FinancialYear    string          `json:"financial_year"`
	TotalSalesAmount decimal.Decimal `json:"total_sales_amount"`
	TotalQuantity    int64           `json:"total_quantity"`
}

type ProductSales struct {
	PartNumber  string          `json:"part_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type CustomerSales struct {
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// SearchQuery is the parameter set of GET /orders/search. Empty fields are
// left out of the request.
type SearchQuery struct {
	PONumber      string
	SerialNumber  string
	PartNumber    string
	CustomerName  string
	Status        OrderStatus
	SourceType    string
	FinancialYear string
	Limit         int
	Skip          int
}

func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	setIf(v, "po_number", q.PONumber)
	setIf(v, "serial_number", q.SerialNumber)
	setIf(v, "part_number", q.PartNumber)
	setIf(v, "customer_name", q.CustomerName)
	setIf(v, "status", string(q.Status))
	setIf(v, "source_type", q.SourceType)
	setIf(v, "financial_year", q.FinancialYear)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	return v
}

// OpenQuery is the parameter set of GET /orders/open.
type OpenQuery struct {
	CustomerName string
	PartNumber   string
	TodayOnly    bool
	Limit        int
	Skip         int
}

func (q OpenQuery) Values() url.Values {
	v := url.Values{}
	setIf(v, "customer_name", strings.TrimSpace(q.CustomerName))
	setIf(v, "part_number", strings.TrimSpace(q.PartNumber))
	if q.TodayOnly {
		v.Set("today_only", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
