package cashflow

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
	"github.com/Cokul/pres-prom-inmob/pkg/core/utils"
	"github.com/Cokul/pres-prom-inmob/pkg/core/validate"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

type DuplicateRequest struct {
	To string `json:"to"`
}

func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.List(r.Context(), r.URL.Query().Get("project"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) HandleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	b, err := h.Store.Load(r.Context(), r.PathValue("project"), r.PathValue("version"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleSaveSnapshot stores the bundle in the body under the project and version of the path.
// The bundle must produce a valid projection before it is saved.
func (h *Handler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var b store.Bundle
	if err := utils.ParseStrict(string(body), &b); err != nil {
		http.Error(w, "Invalid bundle: "+err.Error(), http.StatusBadRequest)
		return
	}
	b.Project, b.Version = r.PathValue("project"), r.PathValue("version")
	if _, err := b.Run(); err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.Store.Save(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	fmt.Printf("[STORE] Saved %s/%s (%s)\n", saved.Project, saved.Version, saved.ID)
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) HandleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	project, version := r.PathValue("project"), r.PathValue("version")
	if err := h.Store.Delete(r.Context(), project, version); err != nil {
		writeError(w, err)
		return
	}
	fmt.Printf("[STORE] Deleted %s/%s\n", project, version)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDuplicateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req DuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	b, err := h.Store.Duplicate(r.Context(), r.PathValue("project"), r.PathValue("version"), req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	fmt.Printf("[STORE] Copied %s/%s to %s\n", b.Project, r.PathValue("version"), b.Version)
	writeJSON(w, http.StatusCreated, b)
}

// HandleSnapshotProjection recomputes a saved scenario.
func (h *Handler) HandleSnapshotProjection(w http.ResponseWriter, r *http.Request) {
	b, err := h.Store.Load(r.Context(), r.PathValue("project"), r.PathValue("version"))
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := b.Run()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{
		Projection:   p,
		Summary:      valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: h.Config.Valuation.AnnualDiscountRate}),
		Verification: validate.CheckProjection(p),
	})
}
