// Package templates holds the console's HTML components.
//
// Components are written in .templ files; the generated *_templ.go files
// are checked in so the module builds without running templ generate.
package templates

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// htmxConfig lets error responses swap into the alert slot.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

const styles = `
body{font-family:system-ui,sans-serif;margin:0;display:flex;color:#1f2937}
nav{width:14rem;background:#111827;color:#e5e7eb;min-height:100vh;padding:1rem}
nav a{color:#e5e7eb;text-decoration:none;display:block;padding:.25rem 0}
nav a.active{font-weight:600;color:#fff}
nav h2{font-size:.75rem;text-transform:uppercase;color:#9ca3af;margin:1rem 0 .25rem}
main{flex:1;padding:1.5rem}
.crumbs{color:#6b7280;font-size:.85rem}
table{border-collapse:collapse;width:100%}
th,td{border-bottom:1px solid #e5e7eb;padding:.4rem .6rem;text-align:left}
th button{background:none;border:0;font-weight:600;cursor:pointer}
.numeric{text-align:right;font-variant-numeric:tabular-nums}
.tone-success{color:#047857}.tone-warning{color:#b45309}.tone-danger{color:#b91c1c}.tone-muted{color:#9ca3af}
.empty{text-align:center;color:#6b7280;padding:2rem}
.toolbar,.pager{display:flex;gap:1rem;align-items:center;margin:.75rem 0}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.5rem 1rem;margin:.5rem 0}
.alert.ok{border-color:#6ee7b7;background:#ecfdf5}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(16rem,1fr));gap:1rem}
.card{border:1px solid #e5e7eb;border-radius:.5rem;padding:1rem}
`

/* ----------------------------------------
	DASHBOARD
---------------------------------------- */

// TableCardData is one table on the dashboard.
type TableCardData struct {
	Info     core.TableInfo
	RowCount int
	ReadOnly bool
}

// TableGroup is a titled set of table cards.
type TableGroup struct {
	Name   string
	Tables []TableCardData
}

func cardLabel(t TableCardData) string {
	label := strconv.Itoa(t.RowCount) + " records"
	if t.ReadOnly {
		label += " · read-only"
	}
	return label
}

func navClass(item navigation.MenuItem, activeKey string) string {
	if activeKey != "" && item.TableKey == activeKey {
		return "active"
	}
	return ""
}

/* ----------------------------------------
	TABLE
---------------------------------------- */

// Flash is a one-off message shown above the table after a mutation.
type Flash struct {
	Message string
	Action  string
	Code    string
	OK      bool
}

// TableData is everything the table fragment needs.
type TableData struct {
	Key         string
	Label       string
	Description string
	Searchable  bool
	BasePath    string            // "/table/<key>"
	Hints       map[string]string // editor placeholder per editable column
	View        tableview.View
	Flash       *Flash
}

func (d TableData) id() string     { return "table-" + d.Key }
func (d TableData) editor() string { return "editor-" + d.Key }

func (d TableData) rowID(row tableview.ViewRow) string {
	return d.id() + "-row-" + row.ID
}

func (d TableData) actionPath(row tableview.ViewRow, a tableview.Action) string {
	return fmt.Sprintf("%s/rows/%s/actions/%s", d.BasePath, row.ID, a.ID)
}

func flashClass(f Flash) string {
	if f.OK {
		return "alert ok"
	}
	return "alert"
}

func toneClass(t tableview.Tone) string {
	if t == tableview.ToneDefault {
		return ""
	}
	return "tone-" + string(t)
}

func cellClass(c tableview.Cell) string {
	class := toneClass(c.Content.Tone)
	if c.Numeric {
		if class != "" {
			class += " "
		}
		class += "numeric"
	}
	return class
}

func headerClass(c tableview.HeaderCell) string {
	if c.Numeric {
		return "numeric"
	}
	return ""
}

// ariaSort is the aria-sort value of a header cell.
func ariaSort(c tableview.HeaderCell) string {
	switch {
	case !c.Sorted:
		return "none"
	case c.Direction == tableview.Desc:
		return "descending"
	default:
		return "ascending"
	}
}

func headerLabel(c tableview.HeaderCell) string {
	switch ariaSort(c) {
	case "descending":
		return c.Label + " ▼"
	case "ascending":
		return c.Label + " ▲"
	}
	return c.Label
}

func emptySpan(v tableview.View) string {
	span := len(v.Columns)
	if v.HasActions {
		span++
	}
	return strconv.Itoa(span)
}

func rangeText(p tableview.PageInfo) string {
	if p.TotalRows == 0 || p.First == 0 {
		return fmt.Sprintf("0 of %d", p.TotalRows)
	}
	return fmt.Sprintf("%d–%d of %d", p.First, p.Last, p.TotalRows)
}

func pageText(p tableview.PageInfo) string {
	return fmt.Sprintf("Page %d of %d", p.Index+1, max(p.TotalPages, 1))
}
