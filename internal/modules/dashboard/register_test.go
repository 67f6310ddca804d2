package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherboard/internal/config"
	"weatherboard/internal/migrate"
	"weatherboard/internal/modules/dashboard/types"
	"weatherboard/internal/observability"
)

func newSeededServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrate.Run(context.Background(), db))

	mux := http.NewServeMux()
	RegisterFeature(mux, db, observability.NewMetricsForTesting(), config.Config{QueryTimeout: time.Second})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestDashboardRoutes_SeededStore(t *testing.T) {
	srv := newSeededServer(t)

	var card types.CardData
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/cards", &card))
	assert.Equal(t, 10, card.NumberOfInvoices)
	assert.Equal(t, 6, card.NumberOfCustomers)

	var streak map[string]int64
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/revenue/best-streak", &streak))
	assert.Equal(t, int64(34300), streak["bestStreak"])

	var pages map[string]int
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/invoices/pages", &pages))
	assert.Equal(t, 2, pages["totalPages"])

	var page2 []types.InvoiceRow
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/invoices?page=2", &page2))
	assert.Len(t, page2, 4)

	var latest []types.LatestInvoice
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/invoices/latest", &latest))
	assert.Len(t, latest, types.LatestInvoicesLimit)

	var form types.InvoiceForm
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/invoices/inv-0004", &form))
	assert.InDelta(t, 448.0, form.Amount, 1e-9)
	assert.Equal(t, types.StatusPaid, form.Status)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv, "/api/v1/dashboard/invoices/inv-9999", nil))

	var customers []types.CustomerTableRow
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/api/v1/dashboard/customers/table?query=lee", &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "Lee Robinson", customers[0].Name)
	assert.Equal(t, int64(20348), customers[0].TotalPending)
}
