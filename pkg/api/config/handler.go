package config

import (
	"encoding/json"
	"net/http"
	"time"

	appconfig "github.com/Cokul/pres-prom-inmob/pkg/config"
	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// Response is what a client needs to pre-fill a new scenario.
type Response struct {
	StoreBackend       string                     `json:"store_backend"`
	AnnualDiscountRate float64                    `json:"annual_discount_rate"`
	Parameters         cashflow.ProjectParameters `json:"parameters"`
	Chapters           []cashflow.CostChapter     `json:"chapters"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config appconfig.Config
}

// NewHandler creates a new config handler
func NewHandler(cfg appconfig.Config) *Handler {
	return &Handler{Config: cfg}
}

// HandleConfig returns the reference project and default chapter table. The optional start query
// parameter (YYYY-MM) sets the construction start of the built-in project; it defaults to this month.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	start := calendar.MonthOf(time.Now())
	if raw := r.URL.Query().Get("start"); raw != "" {
		m, err := calendar.ParseMonth(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		start = m
	}

	resp := Response{
		StoreBackend:       h.Config.Store.Backend,
		AnnualDiscountRate: h.Config.Valuation.AnnualDiscountRate,
		Parameters:         h.Config.ProjectDefaults(start),
		Chapters:           cashflow.DefaultChapters(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
