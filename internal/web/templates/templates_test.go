package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func bankEngine(t *testing.T, rows []tableview.Row) *tableview.Engine {
	t.Helper()
	cols := []tableview.Column{
		{ID: "name", Label: "Name", Editable: true},
		{ID: "limit", Label: "Limit", Numeric: true},
	}
	e, err := tableview.New(cols, rows, tableview.Options{
		DefaultSort: tableview.SortState{ColumnID: "name", Direction: tableview.Asc},
		RowActions: func(r tableview.Row) []tableview.Action {
			return []tableview.Action{{ID: "deactivate", Label: "Deactivate", Tone: tableview.ToneDanger}}
		},
	})
	require.NoError(t, err)
	return e
}

func bankRows() []tableview.Row {
	return []tableview.Row{
		{"id": 1, "name": "Nordic <Trust>", "limit": 100},
		{"id": 2, "name": "Albion", "limit": 50},
	}
}

func TestTableRendersGrid(t *testing.T) {
	e := bankEngine(t, bankRows())
	html := render(t, Table(TableData{Key: "banks", BasePath: "/table/banks", Searchable: true, View: e.View()}))

	assert.Contains(t, html, `<section id="table-banks"`)
	assert.Contains(t, html, `aria-sort="ascending"`)
	assert.Contains(t, html, "Name ▲")
	assert.Contains(t, html, "Nordic &lt;Trust&gt;", "cell text is escaped")
	assert.Contains(t, html, `class="numeric"`)
	assert.Contains(t, html, `hx-post="/table/banks/rows/1/actions/deactivate"`)
	assert.Contains(t, html, `class="tone-danger"`)
	assert.Contains(t, html, `<option value="10" selected>`)
	assert.Contains(t, html, "1–2 of 2")
	assert.Contains(t, html, "Page 1 of 1")
	assert.Contains(t, html, `name="q"`)
	assert.Equal(t, 2, strings.Count(html, " disabled>"), "both pager buttons disabled on a single page")
	assert.Less(t, strings.Index(html, "Albion"), strings.Index(html, "Nordic"))
}

func TestTableRendersEditor(t *testing.T) {
	e := bankEngine(t, bankRows())
	require.NoError(t, e.BeginEdit(context.Background(), "2", "name", "Albion"))
	require.NoError(t, e.SetDraft("Albion Bank"))

	html := render(t, Table(TableData{
		Key:      "banks",
		BasePath: "/table/banks",
		Hints:    map[string]string{"name": "text, max 40"},
		View:     e.View(),
		Flash:    &Flash{Message: "Name saved", OK: true},
	}))

	assert.Contains(t, html, `class="alert ok"`)
	assert.Contains(t, html, `role="status">Name saved</div>`)
	assert.Contains(t, html, `<input id="editor-banks" name="draft" value="Albion Bank" placeholder="text, max 40" autofocus>`)
	assert.Contains(t, html, `hx-post="/table/banks/edit/commit"`)
	assert.Equal(t, 1, strings.Count(html, `id="editor-banks"`))
}

func TestTableRendersEmptyState(t *testing.T) {
	e := bankEngine(t, nil)
	html := render(t, Table(TableData{Key: "banks", BasePath: "/table/banks", View: e.View()}))

	assert.Contains(t, html, `<td colspan="3" class="empty">No records found</td>`)
	assert.Contains(t, html, "0 of 0")
	assert.NotContains(t, html, `name="q"`, "search box only for searchable tables")
}

func TestPageShell(t *testing.T) {
	menu := navigation.Build("Back Office", []string{"Reference"}, func(string) []core.TableDefinition {
		return []core.TableDefinition{{Info: core.TableInfo{Key: "banks", Label: "Banks"}}}
	})
	html := render(t, Page(menu, "banks", templ.Raw("<p>body</p>")))

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Banks · Reference</title>")
	assert.Contains(t, html, `<a href="/table/banks" class="active">Banks</a>`)
	assert.Contains(t, html, "Back Office / Reference / Banks")
	assert.Contains(t, html, "<p>body</p>")
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Value rejected", "Check the format.", "VAL008"))
	assert.Equal(t, `<div class="alert" role="alert"><strong>Value rejected</strong> Check the format.<small> (VAL008)</small></div>`, html)

	assert.NotContains(t, render(t, ErrorAlert("Oops", "", "")), "<small>")
}

func TestDashboard(t *testing.T) {
	html := render(t, Dashboard([]TableGroup{{
		Name:   "Reference",
		Tables: []TableCardData{{Info: core.TableInfo{Key: "banks", Label: "Banks"}, RowCount: 6, ReadOnly: true}},
	}}))

	assert.Contains(t, html, `<h2 id="Reference">Reference</h2>`)
	assert.Contains(t, html, `<a href="/table/banks">Banks</a>`)
	assert.Contains(t, html, "6 records · read-only")
}
