package cashflow

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Cokul/pres-prom-inmob/pkg/config"
	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	coreCashflow "github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/ingest"
	"github.com/Cokul/pres-prom-inmob/pkg/core/report"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
	"github.com/Cokul/pres-prom-inmob/pkg/core/utils"
	"github.com/Cokul/pres-prom-inmob/pkg/core/validate"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

// maxBody caps uploaded tables and request documents.
const maxBody = 10 << 20

// Handler serves projections, exports, table imports and snapshots.
type Handler struct {
	Store  store.Store
	Config config.Config
}

// NewHandler creates a new cash-flow handler
func NewHandler(st store.Store, cfg config.Config) *Handler {
	return &Handler{Store: st, Config: cfg}
}

// ProjectRequest describes a scenario. Parameters may be omitted to use the configured reference
// project; ConstructionStart then moves it in time.
type ProjectRequest struct {
	Name               string                          `json:"name,omitempty"`
	Parameters         *coreCashflow.ProjectParameters `json:"parameters,omitempty"`
	ConstructionStart  *calendar.Month                 `json:"construction_start,omitempty"`
	Plan               coreCashflow.SalesPlan          `json:"plan"`
	Chapters           []coreCashflow.CostChapter      `json:"chapters,omitempty"`
	AnnualDiscountRate *float64                        `json:"annual_discount_rate,omitempty"`
}

type ProjectResponse struct {
	Projection   *coreCashflow.Projection    `json:"projection,omitempty"`
	Summary      valuation.Summary           `json:"summary"`
	Verification validate.VerificationResult `json:"verification"`
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/cashflow/project", h.HandleProject)
	mux.HandleFunc("POST /api/cashflow/summary", h.HandleSummary)
	mux.HandleFunc("POST /api/cashflow/export", h.HandleExport)
	mux.HandleFunc("POST /api/cashflow/import/chapters", h.HandleImportChapters)
	mux.HandleFunc("POST /api/cashflow/import/sales", h.HandleImportSales)

	mux.HandleFunc("GET /api/snapshots", h.HandleListSnapshots)
	mux.HandleFunc("GET /api/snapshots/{project}/{version}", h.HandleLoadSnapshot)
	mux.HandleFunc("PUT /api/snapshots/{project}/{version}", h.HandleSaveSnapshot)
	mux.HandleFunc("DELETE /api/snapshots/{project}/{version}", h.HandleDeleteSnapshot)
	mux.HandleFunc("POST /api/snapshots/{project}/{version}/duplicate", h.HandleDuplicateSnapshot)
	mux.HandleFunc("GET /api/snapshots/{project}/{version}/projection", h.HandleSnapshotProjection)
}

// Routes lists the endpoints mounted by Register, for the startup banner.
func Routes() []string {
	return []string{
		"POST   /api/cashflow/project",
		"POST   /api/cashflow/summary",
		"POST   /api/cashflow/export?format=csv|xlsx|md|html",
		"POST   /api/cashflow/import/chapters?format=csv|html|xlsx",
		"POST   /api/cashflow/import/sales?format=csv|html|xlsx",
		"GET    /api/snapshots?project=",
		"GET    /api/snapshots/{project}/{version}",
		"PUT    /api/snapshots/{project}/{version}",
		"DELETE /api/snapshots/{project}/{version}",
		"POST   /api/snapshots/{project}/{version}/duplicate",
		"GET    /api/snapshots/{project}/{version}/projection",
	}
}

// WithCORS answers preflight requests and adds the CORS headers to every response.
func WithCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Projection
// =============================================================================

func (h *Handler) decodeProject(w http.ResponseWriter, r *http.Request) (ProjectRequest, bool) {
	var req ProjectRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		http.Error(w, "Empty request body", http.StatusBadRequest)
		return req, false
	}
	if err := utils.ParseStrict(string(body), &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// parameters resolves the scenario parameters against the configured defaults.
func (h *Handler) parameters(req ProjectRequest) coreCashflow.ProjectParameters {
	if req.Parameters != nil {
		return *req.Parameters
	}
	start := calendar.MonthOf(time.Now())
	if req.ConstructionStart != nil {
		start = *req.ConstructionStart
	}
	params := h.Config.ProjectDefaults(start)
	if shift := int(start - params.ConstructionStart); shift != 0 {
		params.ConstructionStart = params.ConstructionStart.AddMonths(shift)
		params.CommercializationStart = params.CommercializationStart.AddMonths(shift)
	}
	return params
}

func (h *Handler) discountRate(req ProjectRequest) float64 {
	if req.AnnualDiscountRate != nil {
		return *req.AnnualDiscountRate
	}
	return h.Config.Valuation.AnnualDiscountRate
}

func (h *Handler) run(req ProjectRequest) (ProjectResponse, error) {
	var chapters []coreCashflow.CostChapter
	if len(req.Chapters) > 0 {
		chapters = req.Chapters
	}
	p, err := coreCashflow.Project(h.parameters(req), req.Plan, chapters)
	if err != nil {
		return ProjectResponse{}, err
	}
	return ProjectResponse{
		Projection:   p,
		Summary:      valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: h.discountRate(req)}),
		Verification: validate.CheckProjection(p),
	}, nil
}

func (h *Handler) HandleProject(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	resp, err := h.run(req)
	if err != nil {
		fmt.Printf("[CASHFLOW] Projection rejected: %v\n", err)
		writeError(w, err)
		return
	}
	fmt.Printf("[CASHFLOW] Projected %s: %d months, margin %s\n",
		nameOr(req.Name), len(resp.Projection.Rows), resp.Summary.Margin.StringFixed(2))
	writeJSON(w, http.StatusOK, resp)
}

// HandleSummary runs the projection but leaves the tables out of the response.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	resp, err := h.run(req)
	if err != nil {
		writeError(w, err)
		return
	}
	resp.Projection = nil
	writeJSON(w, http.StatusOK, resp)
}

// HandleExport renders the projection in the format named by the format query parameter.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	resp, err := h.run(req)
	if err != nil {
		writeError(w, err)
		return
	}
	p := resp.Projection
	name := nameOr(req.Name)

	var buf bytes.Buffer
	var contentType, ext string
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "csv":
		opts := report.DefaultCSVOptions()
		if r.URL.Query().Get("lang") == string(report.English) {
			opts = report.CSVOptions{Language: report.English}
		}
		err = report.WriteCSV(&buf, p.Rows, opts)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "xlsx":
		err = report.WriteXLSX(&buf, p)
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	case "md", "markdown":
		buf.WriteString(report.Markdown(p, resp.Summary, name))
		contentType, ext = "text/markdown; charset=utf-8", "md"
	case "html":
		var html string
		html, err = report.HTML(report.Markdown(p, resp.Summary, name))
		buf.WriteString(html)
		contentType, ext = "text/html; charset=utf-8", "html"
	default:
		http.Error(w, fmt.Sprintf("Unknown export format: %s", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName(name)+"."+ext))
	w.Write(buf.Bytes())
}

// =============================================================================
// Table import
// =============================================================================

type ChapterImportResponse struct {
	Chapters []coreCashflow.CostChapter `json:"chapters"`
	Budget   float64                    `json:"budget"`
	Skipped  []int                      `json:"skipped,omitempty"`
	Audit    *ingest.AuditCheckpoint    `json:"audit,omitempty"`
}

func readTable(r *http.Request, body io.Reader) (ingest.Table, error) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.Contains(ct, "html"):
			format = "html"
		case strings.Contains(ct, "spreadsheetml"):
			format = "xlsx"
		default:
			format = "csv"
		}
	}
	switch format {
	case "csv":
		return ingest.ReadCSV(body)
	case "html":
		return ingest.ReadHTMLTable(body)
	case "xlsx":
		return ingest.ReadXLSX(body, q.Get("sheet"))
	default:
		return ingest.Table{}, fmt.Errorf("%w: unknown table format %q", ingest.ErrNoTable, format)
	}
}

// HandleImportChapters reads a budget table. When the table carries amounts, they are audited
// against the expected execution cost (query parameter expected, or the reference project).
func (h *Handler) HandleImportChapters(w http.ResponseWriter, r *http.Request) {
	t, err := readTable(r, http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := ingest.ImportChapters(t)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ChapterImportResponse{Chapters: res.Chapters, Budget: res.Budget, Skipped: res.Skipped}
	if res.Budget > 0 {
		expected := coreCashflow.TotalExecutionCost(h.Config.ProjectDefaults(calendar.MonthOf(time.Now()))).InexactFloat64()
		if raw := r.URL.Query().Get("expected"); raw != "" {
			if expected, err = ingest.ParseAmount(raw); err != nil {
				http.Error(w, "Invalid expected amount: "+raw, http.StatusBadRequest)
				return
			}
		}
		audit := ingest.VerifyBudget(res.Budget, expected)
		if audit.Status == ingest.StatusMismatch {
			fmt.Printf("[WARNING] Imported budget %.2f differs from expected %.2f by %.1f%%\n",
				audit.Imported, audit.Expected, audit.VariancePct)
		}
		resp.Audit = &audit
	}
	fmt.Printf("[CASHFLOW] Imported %d chapters (%d rows skipped)\n", len(res.Chapters), len(res.Skipped))
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleImportSales(w http.ResponseWriter, r *http.Request) {
	t, err := readTable(r, http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := ingest.SalesPlanFromTable(t)
	if err != nil {
		writeError(w, err)
		return
	}
	fmt.Printf("[CASHFLOW] Imported %s sales plan: %d units\n", plan.Mode(), plan.UnitsSold())
	writeJSON(w, http.StatusOK, plan)
}

func nameOr(name string) string {
	if name == "" {
		return "proyecto"
	}
	return name
}

// fileName keeps letters, digits, dashes and underscores.
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
}
