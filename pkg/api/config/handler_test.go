package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	appconfig "github.com/Cokul/pres-prom-inmob/pkg/config"
)

func TestHandleConfig(t *testing.T) {
	h := NewHandler(appconfig.Default())

	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config?start=2026-03", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "file", resp.StoreBackend)
	require.InDelta(t, 0.08, resp.AnnualDiscountRate, 1e-12)
	require.Equal(t, "2026-03", resp.Parameters.ConstructionStart.String())
	require.Len(t, resp.Chapters, 17)
}

func TestHandleConfigBadStart(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(appconfig.Default()).HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config?start=soon", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
