package cashflow

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cokul/pres-prom-inmob/pkg/config"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	mux := http.NewServeMux()
	NewHandler(st, config.Default()).Register(mux)
	return WithCORS("*", mux)
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const scenario = `{
	"name": "Residencial Norte",
	"construction_start": "2025-01",
	"plan": {"monthly": {"2025-01": 10, "2025-03": 10}}
}`

func TestHandleProject(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/cashflow/project", scenario)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Projection struct {
			Rows []json.RawMessage `json:"rows"`
		} `json:"projection"`
		Summary struct {
			UnitsSold int    `json:"units_sold"`
			Revenue   string `json:"revenue"`
		} `json:"summary"`
		Verification struct {
			OK bool `json:"ok"`
		} `json:"verification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Projection.Rows)
	require.Equal(t, 20, resp.Summary.UnitsSold)
	require.Equal(t, "4840000", resp.Summary.Revenue)
	require.True(t, resp.Verification.OK)
}

func TestHandleProjectAcceptsLenientBody(t *testing.T) {
	srv := newServer(t)
	body := `{
		// hand-written scenario
		"construction_start": "2025-01",
		"plan": {"monthly": {"2025-01": 4,},},
	}`
	rec := do(t, srv, http.MethodPost, "/api/cashflow/summary", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), `"rows"`)
}

func TestHandleProjectErrors(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/cashflow/project",
		`{"construction_start": "2025-01", "plan": {"monthly": {"2025-01": 21}}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "error")

	rec = do(t, srv, http.MethodPost, "/api/cashflow/project", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/cashflow/project", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleProjectRejectsTruncatedBody(t *testing.T) {
	srv := newServer(t)
	truncated := `{"construction_start":"2025-01","plan":{"monthly":{"2025-01":10,"2025-03":1`

	for _, target := range []string{"/api/cashflow/project", "/api/cashflow/summary", "/api/cashflow/export"} {
		rec := do(t, srv, http.MethodPost, target, truncated)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := do(t, srv, http.MethodPut, "/api/snapshots/torre-sur/base", truncated)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/snapshots/torre-sur/base", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodOptions, "/api/cashflow/project", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleExport(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/cashflow/export?format=csv", scenario)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Header().Get("Content-Disposition"), "Residencial_Norte.csv")
	require.True(t, strings.HasPrefix(rec.Body.String(), "Mes;"))

	rec = do(t, srv, http.MethodPost, "/api/cashflow/export?format=xlsx", scenario)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = do(t, srv, http.MethodPost, "/api/cashflow/export?format=html", scenario)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<h1>Residencial Norte</h1>")

	rec = do(t, srv, http.MethodPost, "/api/cashflow/export?format=pdf", scenario)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImportChapters(t *testing.T) {
	srv := newServer(t)
	table := "Capítulo;Importe\nCimentaciones;750.000\nEstructuras;750.000\nTotal;1.500.000\n"

	rec := do(t, srv, http.MethodPost, "/api/cashflow/import/chapters?format=csv", table)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChapterImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Chapters, 2)
	require.InDelta(t, 1500000, resp.Budget, 0.001)
	require.NotNil(t, resp.Audit)
	require.Equal(t, "MATCH", resp.Audit.Status)

	rec = do(t, srv, http.MethodPost, "/api/cashflow/import/chapters?format=csv", "Capítulo;Importe\nCimentaciones;mucho\n")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleImportSales(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodPost, "/api/cashflow/import/sales?format=csv", "Mes,Unidades\n2025-01,3\n2025-02,2\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"2025-01":3`)
}

func TestSnapshotEndpoints(t *testing.T) {
	srv := newServer(t)
	bundle := `{
		"parameters": {"units": 20, "built_area": 2000, "average_price": 220000, "land_cost": 300000,
			"execution_cost_per_area": 750, "technical_fee_rate": 0.06, "admin_rate": 0.03,
			"financing_cost_per_unit": 2000, "commission_rate": 0.04, "sales_tax_rate": 0.10,
			"execution_tax_rate": 0.10, "other_tax_rate": 0.21,
			"construction_start": "2025-01", "commercialization_start": "2025-01", "construction_months": 18,
			"payments": {"reservation_fee": 6000, "contract_rate": 0.10, "deferred_rate": 0.10}},
		"plan": {"monthly": {"2025-02": 5}},
	}`

	rec := do(t, srv, http.MethodPut, "/api/snapshots/torre-sur/base", bundle)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/snapshots/torre-sur/base", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var b store.Bundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	require.Equal(t, "base", b.Version)
	require.Equal(t, 5, b.Plan.UnitsSold())

	rec = do(t, srv, http.MethodPost, "/api/snapshots/torre-sur/base/duplicate", `{"to": "optimista"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPost, "/api/snapshots/torre-sur/base/duplicate", `{"to": "optimista"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/snapshots?project=torre-sur", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	rec = do(t, srv, http.MethodGet, "/api/snapshots/torre-sur/optimista/projection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"rows"`)

	rec = do(t, srv, http.MethodDelete, "/api/snapshots/torre-sur/optimista", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/snapshots/torre-sur/optimista", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveSnapshotRejectsInvalidBundle(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodPut, "/api/snapshots/torre-sur/base", `{"parameters": {"units": 0}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
