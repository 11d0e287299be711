package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/session"
	"github.com/JonMunkholm/backoffice/internal/tableview"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// tableOp mutates an open table and returns a success message for the
// flash slot ("" for none).
type tableOp func(ctx context.Context, t *core.Table, form url.Values) (string, error)

// TableResponse is the JSON form of a table view.
type TableResponse struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	View  tableview.View `json:"view"`
	Info  string         `json:"message,omitempty"`
}

// withTable runs op on the session's table and renders the result.
func (s *Server) withTable(w http.ResponseWriter, r *http.Request, op tableOp) {
	key := chi.URLParam(r, "tableKey")

	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	form, err := formValues(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	var (
		data    templates.TableData
		opened  bool
		message string
	)
	err = sess.With(ctx, s.service, key, func(t *core.Table) error {
		opened = true
		var opErr error
		message, opErr = op(ctx, t, form)
		data = s.tableData(t)
		return opErr
	})

	if err != nil {
		status := statusFor(err)
		if !opened || status >= http.StatusInternalServerError || wantsJSON(r) || !isHTMX(r) {
			respondError(w, r, err, status)
			return
		}
		// Rejected input is shown next to the table it belongs to.
		msg := core.MapError(err)
		data.Flash = &templates.Flash{Message: msg.Message, Action: msg.Action, Code: msg.Code}
		message = ""
	}
	if message != "" {
		data.Flash = &templates.Flash{Message: message, OK: true}
	}
	s.renderTable(w, r, data, message)
}

// tableData snapshots the presentation of t. Callers hold the session lock.
func (s *Server) tableData(t *core.Table) templates.TableData {
	hints := make(map[string]string, len(t.Def.FieldSpecs))
	for _, spec := range t.Def.FieldSpecs {
		hints[spec.Name] = spec.Hint()
	}
	return templates.TableData{
		Key:         t.Def.Info.Key,
		Label:       t.Def.Info.Label,
		Description: t.Def.Info.Description,
		Searchable:  t.Def.Info.Searchable,
		BasePath:    "/table/" + t.Def.Info.Key,
		Hints:       hints,
		View:        t.Engine.View(),
	}
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, data templates.TableData, message string) {
	switch {
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, TableResponse{Key: data.Key, Label: data.Label, View: data.View, Info: message})
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.Table(data).Render(r.Context(), w)
	case r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.Page(s.menu, data.Key, templates.TablePage(data)).Render(r.Context(), w)
	default:
		// Plain form posts return to the page.
		http.Redirect(w, r, data.BasePath, http.StatusSeeOther)
	}
}

// formValues merges query, form and (for JSON requests) body fields.
func formValues(r *http.Request) (url.Values, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") && r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		values := r.URL.Query()
		for k, v := range body {
			values.Set(k, tableview.FormatValue(v))
		}
		return values, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	return r.Form, nil
}

func intParam(form url.Values, name string) (int, error) {
	raw := form.Get(name)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, core.ValidationError{Field: name, Value: raw, Message: "invalid number format"}
	}
	return n, nil
}

// handleTableView renders the table with the session's current state.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(context.Context, *core.Table, url.Values) (string, error) {
		return "", nil
	})
}

// handleSort toggles the sort column.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, form url.Values) (string, error) {
		return "", t.Engine.SetSort(form.Get("col"))
	})
}

// handlePage moves to a page index.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, form url.Values) (string, error) {
		page, err := intParam(form, "page")
		if err != nil {
			return "", err
		}
		t.Engine.SetPage(page)
		return "", nil
	})
}

// handlePageSize selects a page size from the enumerated set.
func (s *Server) handlePageSize(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, form url.Values) (string, error) {
		size, err := intParam(form, "size")
		if err != nil {
			return "", err
		}
		return "", t.Engine.SetPageSize(size)
	})
}

// handleSearch filters the rows.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, form url.Values) (string, error) {
		t.Engine.SetSearch(form.Get("q"))
		return "", nil
	})
}

// handleReload refetches rows, keeping the view state.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(ctx context.Context, t *core.Table, _ url.Values) (string, error) {
		return "", t.Reload(ctx)
	})
}

// handleBeginEdit puts a cell into edit. A draft from the open editor is
// staged first so the switch policy sees what the user typed.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(ctx context.Context, t *core.Table, form url.Values) (string, error) {
		if err := stageDraft(t, form); err != nil {
			return "", err
		}
		rowID, colID := form.Get("row"), form.Get("col")
		current, ok := form["value"]
		value := ""
		if ok {
			value = current[0]
		} else if row, found := t.Engine.Row(rowID); found {
			value = tableview.FormatValue(row[colID])
		}
		return "", t.Engine.BeginEdit(ctx, rowID, colID, value)
	})
}

// handleDraft replaces the draft of the open editor.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, form url.Values) (string, error) {
		return "", t.Engine.SetDraft(form.Get("draft"))
	})
}

// handleCommitEdit commits the open editor.
func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(ctx context.Context, t *core.Table, form url.Values) (string, error) {
		cell, _ := t.Engine.Editing()
		if err := stageDraft(t, form); err != nil {
			return "", err
		}
		if err := t.Engine.CommitEdit(ctx); err != nil {
			return "", err
		}
		col, _ := t.Engine.Column(cell.ColumnID)
		return col.Label + " saved", nil
	})
}

// handleCancelEdit discards the open editor.
func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.withTable(w, r, func(_ context.Context, t *core.Table, _ url.Values) (string, error) {
		t.Engine.CancelEdit()
		return "", nil
	})
}

// handleRowAction runs a row action.
func (s *Server) handleRowAction(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")
	actionID := chi.URLParam(r, "actionID")
	s.withTable(w, r, func(ctx context.Context, t *core.Table, _ url.Values) (string, error) {
		action, ok := t.Def.Action(actionID)
		if err := t.RunAction(ctx, rowID, actionID); err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		return action.Label + " completed", nil
	})
}

func stageDraft(t *core.Table, form url.Values) error {
	draft, ok := form["draft"]
	if !ok {
		return nil
	}
	if _, editing := t.Engine.Editing(); !editing {
		return nil
	}
	return t.Engine.SetDraft(draft[0])
}
