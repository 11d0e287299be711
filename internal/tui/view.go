package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// maxCellWidth truncates long cells (descriptions, notes) with an ellipsis.
const maxCellWidth = 28

const colGap = "  "

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	if m.mode == modeMenu {
		m.viewMenu(&b)
	} else {
		m.viewTable(&b)
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.styles.errorMsg.Render(errorText(m.err)))
	case m.loading != "":
		b.WriteString(m.styles.muted.Render("Loading " + m.loading + "…"))
	case m.status != "":
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewMenu(b *strings.Builder) {
	var path []string
	for cur := m.menu; cur != nil; cur = cur.Parent {
		path = append([]string{cur.Title}, path...)
	}
	b.WriteString(m.styles.title.Render(strings.Join(path, " › ")))
	b.WriteString("\n\n")

	for i, item := range m.menu.Items {
		label := item.Label
		if i == m.item {
			b.WriteString(m.styles.selected.Render("> " + label))
		} else {
			b.WriteString(m.styles.item.Render(label))
		}
		if item.Description != "" {
			b.WriteString(m.styles.muted.Render("  " + item.Description))
		}
		b.WriteString("\n")
	}
}

func (m Model) viewTable(b *strings.Builder) {
	t := m.current()
	v := t.Engine.View()

	crumbs := m.menu.Root().Breadcrumb(m.key)
	b.WriteString(m.styles.crumb.Render(strings.Join(crumbs[:len(crumbs)-1], " › ") + " › "))
	b.WriteString(m.styles.title.Render(t.Def.Info.Label))
	b.WriteString("\n")
	if t.Def.Info.Description != "" {
		b.WriteString(m.styles.muted.Render(t.Def.Info.Description))
		b.WriteString("\n")
	}
	if v.Search != "" && m.mode != modeSearch {
		b.WriteString(m.styles.muted.Render("search: " + v.Search))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderGrid(v, m.row, m.col, m.styles))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(pagerLine(v.Page)))
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString("\n" + m.input.View() + "\n")
	case modeEdit:
		b.WriteString("\n" + m.styles.editor.Render(m.input.View()+"\n"+
			m.styles.muted.Render("enter: save  esc: cancel")) + "\n")
	}
}

func pagerLine(p tableview.PageInfo) string {
	if p.TotalRows == 0 {
		return fmt.Sprintf("0 of 0 · %d per page", p.Size)
	}
	return fmt.Sprintf("%d–%d of %d · page %d of %d · %d per page",
		p.First, p.Last, p.TotalRows, p.Index+1, max(p.TotalPages, 1), p.Size)
}

// renderGrid lays out the visible window as aligned columns with the cursor
// row and cell highlighted.
func renderGrid(v tableview.View, cursorRow, cursorCol int, s styles) string {
	labels := make([]string, len(v.Columns))
	widths := make([]int, len(v.Columns))
	for i, c := range v.Columns {
		labels[i] = c.Label
		if c.Sorted {
			labels[i] += " " + sortArrow(c.Direction)
		}
		widths[i] = lipgloss.Width(labels[i])
	}
	for _, row := range v.Rows {
		for i, cell := range row.Cells {
			widths[i] = max(widths[i], min(lipgloss.Width(cellText(cell)), maxCellWidth))
		}
	}

	var b strings.Builder
	header := make([]string, len(labels))
	for i, l := range labels {
		header[i] = pad(l, widths[i], v.Columns[i].Numeric)
	}
	b.WriteString(s.header.Render(strings.Join(header, colGap)))
	b.WriteString("\n")

	if v.Empty {
		b.WriteString(s.muted.Render("No records found"))
		b.WriteString("\n")
		return b.String()
	}

	for r, row := range v.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			text := pad(truncate(cellText(cell), widths[i]), widths[i], cell.Numeric)
			switch {
			case r == cursorRow && i == cursorCol:
				cells[i] = s.cursorCel.Render(text)
			case r == cursorRow:
				cells[i] = s.cursorRow.Render(text)
			case cell.Editing:
				cells[i] = s.cursorCel.Render(text)
			default:
				cells[i] = s.tone(cell.Content.Tone, text)
			}
		}
		b.WriteString(strings.Join(cells, colGap))
		if len(row.Actions) > 0 {
			var acts []string
			for n, a := range row.Actions {
				acts = append(acts, s.tone(a.Tone, fmt.Sprintf("[%d] %s", n+1, a.Label)))
			}
			b.WriteString(colGap + strings.Join(acts, " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellText(c tableview.Cell) string {
	if c.Editing {
		return c.Draft + "✎"
	}
	return c.Content.Text
}

func sortArrow(d tableview.Direction) string {
	if d == tableview.Desc {
		return "▼"
	}
	return "▲"
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
