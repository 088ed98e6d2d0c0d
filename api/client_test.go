package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client, credential.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := credential.Memory()
	client := NewClient(srv.URL, 5*time.Second, creds, nil)
	return srv, client, creds
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestBearerHeaderWhenTokenPresent(t *testing.T) {
	var got string
	_, client, creds := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	creds.Set(context.Background(), "tok-123")

	if _, err := client.OpenOrders(context.Background(), OpenQuery{}); err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer tok-123")
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var present bool
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.Write([]byte("[]"))
	})

	if _, err := client.OpenOrders(context.Background(), OpenQuery{}); err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if present {
		t.Error("Authorization header should be omitted without a credential")
	}
}

func TestWithCredentialsSharesTransport(t *testing.T) {
	var got string
	srv, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})

	other := credential.Memory()
	other.Set(context.Background(), "session-token")
	derived := client.WithCredentials(other)

	if derived.BaseURL() != srv.URL {
		t.Errorf("BaseURL = %q, want %q", derived.BaseURL(), srv.URL)
	}
	derived.OpenOrders(context.Background(), OpenQuery{})
	if got != "Bearer session-token" {
		t.Errorf("Authorization = %q", got)
	}

	client.Reconfigure("http://elsewhere:1", time.Second)
	if derived.BaseURL() != "http://elsewhere:1" {
		t.Errorf("derived client did not see Reconfigure: %q", derived.BaseURL())
	}
}

func TestLogin(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q, want /auth/login", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var req LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "admin@test.com" || req.Password != "secret" {
			t.Errorf("body = %+v", req)
		}
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "jwt", TokenType: "bearer"})
	})

	resp, err := client.Login(context.Background(), "admin@test.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "jwt" {
		t.Errorf("AccessToken = %q, want jwt", resp.AccessToken)
	}
}

func TestLoginRejected(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false for %v", err)
	}
	if Detail(err) != "Invalid credentials" {
		t.Errorf("Detail = %q", Detail(err))
	}
}

func TestLoginWithoutToken(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	})
	if _, err := client.Login(context.Background(), "a", "b"); err != ErrNoToken {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestSearchOrders(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/search" {
			t.Errorf("path = %q, want /orders/search", r.URL.Path)
		}
		want := url.Values{
			"po_number":     {"PO-1"},
			"serial_number": {"PO-1"},
			"part_number":   {"P-9"},
			"customer_name": {"PO-1"},
			"status":        {"PENDING"},
		}
		if diff := cmp.Diff(want, r.URL.Query()); diff != "" {
			t.Errorf("query mismatch (-want +got):\n%s", diff)
		}
		w.Write([]byte(`[
			{"id": 7, "source_type": "OUTSTANDING", "status": "PENDING", "so_number": "SO-7",
			 "customer_name": "Emerson", "part_number": "P-9", "order_qty": 10, "os_order_qty": 4,
			 "delivery_date": "2025-01-15"},
			{"id": 8, "status": null, "customer_name": null}
		]`))
	})

	orders, err := client.SearchOrders(context.Background(), SearchQuery{
		PONumber:     "PO-1",
		SerialNumber: "PO-1",
		PartNumber:   "P-9",
		CustomerName: "PO-1",
		Status:       StatusPending,
	})
	if err != nil {
		t.Fatalf("SearchOrders: %v", err)
	}
	pending := StatusPending
	want := []Order{
		{ID: 7, SourceType: "OUTSTANDING", Status: &pending, SONumber: strp("SO-7"),
			CustomerName: strp("Emerson"), PartNumber: strp("P-9"), OrderQty: intp(10),
			OSOrderQty: intp(4), DeliveryDate: strp("2025-01-15")},
		{ID: 8},
	}
	if diff := cmp.Diff(want, orders); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenOrdersQuery(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/open" {
			t.Errorf("path = %q, want /orders/open", r.URL.Path)
		}
		want := url.Values{"customer_name": {"Acme"}, "today_only": {"true"}}
		if diff := cmp.Diff(want, r.URL.Query()); diff != "" {
			t.Errorf("query mismatch (-want +got):\n%s", diff)
		}
		w.Write([]byte(`[]`))
	})

	orders, err := client.OpenOrders(context.Background(), OpenQuery{CustomerName: "  Acme ", PartNumber: "   ", TodayOnly: true})
	if err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("len = %d, want 0", len(orders))
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fy := r.URL.Query().Get("financial_year"); fy != "2024-2025" {
			t.Errorf("financial_year = %q", fy)
		}
		switch r.URL.Path {
		case "/analytics/financial-year":
			w.Write([]byte(`{"financial_year":"2024-2025","total_sales_amount":125000.5,"total_quantity":340}`))
		case "/analytics/product-wise":
			w.Write([]byte(`[{"part_number":"P-1","total_amount":100000.25},{"part_number":null,"total_amount":0}]`))
		case "/analytics/customer-wise":
			w.Write([]byte(`[{"customer_name":"Emerson","total_amount":125000.5}]`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})
	ctx := context.Background()

	sum, err := client.FinancialYearSummary(ctx, "2024-2025")
	if err != nil {
		t.Fatalf("FinancialYearSummary: %v", err)
	}
	if !sum.TotalSalesAmount.Equal(decimal.RequireFromString("125000.5")) {
		t.Errorf("TotalSalesAmount = %s", sum.TotalSalesAmount)
	}
	if sum.TotalQuantity != 340 {
		t.Errorf("TotalQuantity = %d, want 340", sum.TotalQuantity)
	}

	products, err := client.ProductWiseSales(ctx, "2024-2025")
	if err != nil {
		t.Fatalf("ProductWiseSales: %v", err)
	}
	if len(products) != 2 || products[0].PartNumber != "P-1" || products[1].PartNumber != "" {
		t.Errorf("products = %+v", products)
	}

	customers, err := client.CustomerWiseSales(ctx, "2024-2025")
	if err != nil {
		t.Fatalf("CustomerWiseSales: %v", err)
	}
	if len(customers) != 1 || customers[0].CustomerName != "Emerson" {
		t.Errorf("customers = %+v", customers)
	}
}

func TestHTTPError(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("server error"))
	})

	_, err := client.SearchOrders(context.Background(), SearchQuery{})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", StatusCode(err))
	}
	if IsUnauthorized(err) {
		t.Error("500 is not unauthorized")
	}
}

func TestValidationDetail(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["query","financial_year"],"msg":"field required"},{"msg":"bad"}]}`)
	if got := parseDetail(body); got != "field required; bad" {
		t.Errorf("parseDetail = %q", got)
	}
	if got := parseDetail([]byte("not json")); got != "" {
		t.Errorf("parseDetail(non-json) = %q, want empty", got)
	}
}

func TestDecodeError(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	if _, err := client.SearchOrders(context.Background(), SearchQuery{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHealth(t *testing.T) {
	_, client, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok","environment":"development"}`))
	})
	h, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("Status = %q", h.Status)
	}
}

func TestResult(t *testing.T) {
	ok := Call(func() (int, error) { return 3, nil })
	if !ok.OK() || ok.Value != 3 || ok.Unauthorized() {
		t.Errorf("ok result = %+v", ok)
	}
	unauth := Call(func() (int, error) {
		return 9, &APIError{StatusCode: http.StatusUnauthorized}
	})
	if unauth.OK() || !unauth.Unauthorized() {
		t.Errorf("unauthorized result = %+v", unauth)
	}
	if unauth.Value != 0 {
		t.Errorf("failed result should carry zero value, got %d", unauth.Value)
	}
}

func TestOrderHelpers(t *testing.T) {
	dispatched := StatusDispatched
	o := Order{Status: &dispatched, OSOrderQty: intp(5), CustomerName: strp(" Acme ")}
	if !o.Dispatched() {
		t.Error("Dispatched = false")
	}
	if o.Outstanding() != 5 {
		t.Errorf("Outstanding = %d", o.Outstanding())
	}
	if o.Customer() != "Acme" {
		t.Errorf("Customer = %q", o.Customer())
	}
	var empty Order
	if empty.Dispatched() || empty.Outstanding() != 0 || empty.Customer() != "" {
		t.Error("null fields should read as zero values")
	}
}
