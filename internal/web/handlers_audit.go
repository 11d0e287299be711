package web

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/store"
)

// auditPageSize caps one JSON page of audit entries.
const auditPageSize = 50

// AuditLogResponse is one page of audit entries.
type AuditLogResponse struct {
	Entries []core.AuditEntry `json:"entries"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// parseAuditFilter reads table, action, from, to, limit and offset query
// parameters. Dates are YYYY-MM-DD; "to" is inclusive.
func parseAuditFilter(r *http.Request) core.AuditLogFilter {
	q := r.URL.Query()
	filter := core.AuditLogFilter{
		TableKey: q.Get("table"),
		Action:   core.AuditAction(q.Get("action")),
	}

	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.StartTime = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.EndTime = t.Add(24 * time.Hour)
		}
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		filter.Limit = min(n, auditPageSize)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		filter.Offset = n
	}
	return filter
}

// handleAuditLogPage shows the audit trail through the audit_log table.
func (s *Server) handleAuditLogPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/table/audit_log", http.StatusSeeOther)
}

// handleAuditLogQuery returns a filtered page of audit entries, newest first.
func (s *Server) handleAuditLogQuery(w http.ResponseWriter, r *http.Request) {
	filter := parseAuditFilter(r)
	if filter.Limit == 0 {
		filter.Limit = auditPageSize
	}
	entries := s.service.AuditLog().Query(filter)
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, AuditLogResponse{Entries: entries, Limit: filter.Limit, Offset: filter.Offset})
}

// handleAuditLogEntry returns a single audit entry.
func (s *Server) handleAuditLogEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.service.AuditLog().Get(id)
	if !ok {
		err := fmt.Errorf("audit entry %s: %w", id, store.ErrNotFound)
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleAuditLogExport writes matching audit entries as CSV.
func (s *Server) handleAuditLogExport(w http.ResponseWriter, r *http.Request) {
	filter := parseAuditFilter(r)
	filter.Limit, filter.Offset = 0, 0

	timestamp := time.Now().Format("20060102_150405")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="audit_log_%s.csv"`, timestamp))

	csvWriter := csv.NewWriter(w)
	rows := [][]string{{
		"ID", "Timestamp", "Action", "Severity", "Table", "Session",
		"IP Address", "Row", "Column", "Old Value", "New Value", "Row Action", "Detail",
	}}
	for _, e := range s.service.AuditLog().Query(filter) {
		rows = append(rows, []string{
			e.ID,
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(e.Action),
			string(e.Severity),
			e.TableKey,
			e.SessionID,
			e.IPAddress,
			e.RowKey,
			e.ColumnName,
			e.OldValue,
			e.NewValue,
			e.ActionID,
			e.Reason,
		})
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		// Headers are already sent.
		slog.Error("audit export failed", "error", err)
	}
}
