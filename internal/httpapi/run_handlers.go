package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"scrapster-engine/internal/query"
	"scrapster-engine/internal/run"
	"scrapster-engine/internal/store"
)

type RunHandler struct {
	DB        *sql.DB
	StartRun  func(spec query.Spec) error
	RunActive func() bool
}

type runRequest struct {
	Keywords    []string `json:"keywords"`
	KeywordOp   string   `json:"keyword_op"`
	Locations   []string `json:"locations"`
	LocationOp  string   `json:"location_op"`
	ProfileType string   `json:"profile_type"`
	Source      string   `json:"source"`
}

func (req runRequest) spec() query.Spec {
	return query.Spec{
		Keywords:    req.Keywords,
		KeywordOp:   opFrom(req.KeywordOp),
		Locations:   req.Locations,
		LocationOp:  opFrom(req.LocationOp),
		ProfileType: req.ProfileType,
		Source:      req.Source,
	}
}

func opFrom(s string) query.Op {
	if s == string(query.OpOr) {
		return query.OpOr
	}
	return query.OpAnd
}

func (h RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	err := h.StartRun(req.spec())
	switch {
	case errors.Is(err, run.ErrAlreadyRunning):
		WriteError(w, r, http.StatusConflict, "already_running", err.Error())
	case errors.Is(err, query.ErrNoKeywords):
		WriteError(w, r, http.StatusBadRequest, "no_keywords", err.Error())
	case err != nil:
		WriteError(w, r, http.StatusBadRequest, "run_rejected", err.Error())
	default:
		writeJSON(w, map[string]any{"ok": true})
	}
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := store.GetRunState(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "status_failed", err.Error())
		return
	}
	if h.RunActive != nil && h.RunActive() {
		st.Status = "running"
	}
	writeJSON(w, st)
}

// Preview renders the query strings a run request would issue, without
// touching the network or the credential pool.
func (h RunHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	queries, err := query.Build(req.spec())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, map[string]any{"count": len(queries), "queries": queries})
}
