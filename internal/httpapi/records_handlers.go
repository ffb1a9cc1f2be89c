package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"scrapster-engine/internal/export"
	"scrapster-engine/internal/store"
)

type RecordsHandler struct {
	DB *sql.DB
}

func (h RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := store.ListRecordsOpts{Sort: r.URL.Query().Get("sort")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	records, err := store.ListRecords(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"count": len(records), "records": records})
}

func (h RecordsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	ct := export.ContentType(format)
	if ct == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_format", "format must be csv, json, or xlsx")
		return
	}

	records, err := store.ListRecords(r.Context(), h.DB, store.ListRecordsOpts{})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leads.%s", format))
	if err := export.Write(w, format, records); err != nil {
		// headers are already out; all we can do is log via the access log status
		return
	}
}
