package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/store"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

func testEnv(t *testing.T, handler http.HandlerFunc) (*cliEnv, *cobra.Command, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.API.BaseURL = srv.URL
	env := newCLIEnv(cfg, zap.NewNop(), credential.Memory())

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return env, cmd, &out
}

func TestLoginStoresToken(t *testing.T) {
	env, cmd, out := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		io.WriteString(w, `{"access_token":"tok-9","token_type":"bearer"}`)
	})
	loginEmail, loginPassword = "", ""

	err := runLogin(cmd, env, strings.NewReader("ops@example.com\nsecret\n"))
	require.NoError(t, err)
	assert.Equal(t, "tok-9", env.creds.Get(context.Background()))
	assert.Contains(t, out.String(), "Logged in as ops@example.com")
}

func TestLoginReadsPasswordFromPipe(t *testing.T) {
	env, cmd, _ := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["email"])
		assert.Equal(t, "s3cret", body["password"])
		io.WriteString(w, `{"access_token":"tok-p","token_type":"bearer"}`)
	})
	loginEmail, loginPassword = "ops@example.com", ""
	defer func() { loginEmail = "" }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_, err = io.WriteString(w, "s3cret\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, runLogin(cmd, env, r))
	assert.Equal(t, "tok-p", env.creds.Get(context.Background()))
}

func TestLoginFailureReturnsDetail(t *testing.T) {
	env, cmd, _ := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Invalid credentials"}`)
	})
	loginEmail, loginPassword = "ops@example.com", "bad"
	defer func() { loginEmail, loginPassword = "", "" }()

	err := runLogin(cmd, env, strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, credential.HasValid(context.Background(), env.creds))
}

func TestSearchRequiresLogin(t *testing.T) {
	env, cmd, _ := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})
	err := runSearch(cmd, env, searchFlags{filter: searchFilter("PO-1")})
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestSearchSendsGlobalFallbackAndPaging(t *testing.T) {
	var got map[string]string
	env, cmd, out := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		io.WriteString(w, `[{"id":1,"so_number":"SO-1","status":"DISPATCHED"}]`)
	})
	env.creds.Set(context.Background(), "tok")

	f := searchFlags{filter: searchFilter("X"), limit: 10, skip: 20}
	f.filter.PartNumber = "P1"
	f.filter.Status = "pending"
	require.NoError(t, runSearch(cmd, env, f))

	assert.Equal(t, map[string]string{
		"po_number":     "X",
		"serial_number": "X",
		"part_number":   "P1",
		"customer_name": "X",
		"status":        "PENDING",
		"limit":         "10",
		"skip":          "20",
	}, got)
	assert.Contains(t, out.String(), "SO-1")
	assert.Contains(t, out.String(), "1 order(s)")
}

func TestSearchUnauthorizedClearsToken(t *testing.T) {
	env, cmd, _ := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})
	env.creds.Set(context.Background(), "stale")

	err := runSearch(cmd, env, searchFlags{filter: searchFilter("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
	assert.False(t, credential.HasValid(context.Background(), env.creds))
}

func TestOpenSummaryAndExport(t *testing.T) {
	env, cmd, out := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("today_only"))
		io.WriteString(w, `[
			{"id":1,"so_number":"SO-1","customer_name":"A","os_order_qty":5},
			{"id":2,"so_number":"SO-2","customer_name":"A"},
			{"id":3,"so_number":"SO-3","customer_name":"","os_order_qty":3}
		]`)
	})
	env.creds.Set(context.Background(), "tok")

	path := filepath.Join(t.TempDir(), "open.xlsx")
	f := openFlags{xlsx: path}
	f.filter.TodayOnly = true
	require.NoError(t, runOpen(cmd, env, f))

	s := out.String()
	assert.Contains(t, s, "SO-3")
	assert.Contains(t, s, "Wrote "+path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnalyticsPartialFailure(t *testing.T) {
	env, cmd, out := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-2024", r.URL.Query().Get("financial_year"))
		switch r.URL.Path {
		case "/analytics/financial-year":
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"detail":"boom"}`)
		case "/analytics/product-wise":
			io.WriteString(w, `[{"part_number":"P1","total_amount":"1500.5"}]`)
		default:
			io.WriteString(w, `[{"customer_name":"ACME","total_amount":"1500.5"}]`)
		}
	})
	env.creds.Set(context.Background(), "tok")

	require.NoError(t, runAnalytics(cmd, env, "2023-2024"))
	s := out.String()
	assert.Contains(t, s, "Sales by product")
	assert.Contains(t, s, "ACME")
	assert.Contains(t, s, "1,500.50")
	assert.Contains(t, s, "could not be loaded")
	assert.NotContains(t, s, "Total sales")
}

func TestCLIStoreUsesFixedKey(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	creds := credential.NewStore(db, credential.DefaultKey, nil)
	creds.Set(ctx, "tok")

	v, err := db.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func searchFilter(global string) views.SearchFilter {
	return views.SearchFilter{Global: global}
}
