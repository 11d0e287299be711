package web

import (
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// handleDashboard renders the overview of every table with its row count.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var groups []templates.TableGroup
	for _, groupName := range core.Groups() {
		tables := core.ByGroup(groupName)
		tableData := make([]templates.TableCardData, len(tables))
		for i, def := range tables {
			data := templates.TableCardData{Info: def.Info, ReadOnly: def.ReadOnly()}

			// A failing loader leaves the count at zero
			if rows, err := s.service.Rows(ctx, def.Info.Key); err == nil {
				data.RowCount = len(rows)
			} else {
				logger.Warn("dashboard count failed", "table", def.Info.Key, "error", err)
			}

			tableData[i] = data
		}
		groups = append(groups, templates.TableGroup{
			Name:   groupName,
			Tables: tableData,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Page(s.menu, "", templates.Dashboard(groups)).Render(ctx, w)
}

// handleListTables returns all tables organized by group.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListTablesByGroup())
}

// handleHealth reports liveness and, when configured, store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReset replaces all records with fresh mock data and ends every
// session, so no open table keeps stale rows.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.reset(r.Context()); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.sessions.Purge()
	logging.FromContext(r.Context()).Warn("data reset to mock dataset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
