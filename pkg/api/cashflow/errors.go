package cashflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	coreCashflow "github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/ingest"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

// StatusFor maps an error onto an HTTP status: rejected inputs are 422, unknown or clashing
// snapshots 404 and 409, bad names 400, anything else 500.
func StatusFor(err error) int {
	var (
		configErr  *coreCashflow.ConfigurationError
		oversold   *coreCashflow.OversoldError
		chapterErr *coreCashflow.ChapterImportError
		rangeErr   *calendar.InvalidRangeError
		rowErr     *ingest.RowError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &oversold), errors.As(err, &chapterErr),
		errors.As(err, &rangeErr), errors.As(err, &rowErr), errors.Is(err, ingest.ErrNoTable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrExists):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		fmt.Printf("[ERROR] %v\n", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
