package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/core"
	_ "github.com/JonMunkholm/backoffice/internal/core/tables"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

func newTestModel(t *testing.T) (Model, *core.Service) {
	t.Helper()
	mem := store.NewMemory(store.MockDataset(42, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	svc := core.NewService(mem, nil, core.Options{
		PageSize:        10,
		PageSizes:       []int{5, 10, 25},
		ResetPageOnSort: true,
	})
	return New(context.Background(), svc, navigation.FromRegistry("Back Office")), svc
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// open selects a table from the menu and delivers the opened table.
func open(t *testing.T, m Model, path ...tea.Msg) Model {
	t.Helper()
	m = apply(t, m, path...)
	next, cmd := m.Update(enter)
	require.NotNil(t, cmd, "selecting a table should open it in the background")
	m = next.(Model)
	assert.NotEmpty(t, m.loading)
	return apply(t, m, cmd())
}

func openBanks(t *testing.T, m Model) Model {
	return open(t, m, keyMsg("j"), enter)
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Contains(t, m.View(), "Back Office")
	assert.Contains(t, m.View(), "Dashboard ->")

	m = apply(t, m, keyMsg("j"), enter)
	assert.Equal(t, "Reference", m.menu.Title)
	assert.Contains(t, m.View(), "Back Office › Reference")
	assert.Contains(t, m.View(), "Settlement banks")

	m = apply(t, m, esc)
	assert.Nil(t, m.menu.Parent)
	assert.Equal(t, 1, m.item, "cursor returns to the submenu left")

	// Back item in a submenu.
	m = apply(t, m, enter, keyMsg("j"), keyMsg("j"), keyMsg("j"), enter)
	assert.Nil(t, m.menu.Parent)

	m = apply(t, m, keyMsg("k"), keyMsg("k"), keyMsg("k"))
	assert.Equal(t, 0, m.item)
}

func TestOpenTable(t *testing.T) {
	m, _ := newTestModel(t)
	m = openBanks(t, m)

	require.Equal(t, modeTable, m.mode)
	assert.Equal(t, "banks", m.key)
	view := m.View()
	assert.Contains(t, view, "Reference › ")
	assert.Contains(t, view, "Name ▲")
	assert.Contains(t, view, "Nordic Trust Bank")
	assert.Contains(t, view, "1–6 of 6 · page 1 of 1 · 10 per page")

	// Leaving and reopening keeps the engine.
	eng := m.current().Engine
	require.NoError(t, eng.SetSort("country"))
	m = apply(t, m, esc)
	assert.Equal(t, modeMenu, m.mode)
	next, cmd := m.Update(enter)
	assert.Nil(t, cmd, "an open table is shown without reloading")
	m = next.(Model)
	assert.Equal(t, "country", m.current().Engine.Sort().ColumnID)
}

func TestOpenTableError(t *testing.T) {
	m, _ := newTestModel(t)
	m = apply(t, m, errMsg{err: core.ErrTableNotFound})
	assert.Equal(t, modeMenu, m.mode)
	assert.Contains(t, m.View(), "TBL001")
}

func TestSortAndPaging(t *testing.T) {
	m, _ := newTestModel(t)
	m = openBanks(t, m)

	m = apply(t, m, keyMsg("s"))
	assert.Equal(t, tableview.SortState{ColumnID: "name", Direction: tableview.Desc}, m.current().Engine.Sort())
	assert.Contains(t, m.View(), "Name ▼")

	m = apply(t, m, keyMsg("l"), keyMsg("l"), keyMsg("s"))
	assert.Equal(t, tableview.SortState{ColumnID: "country", Direction: tableview.Asc}, m.current().Engine.Sort())

	m = apply(t, m, keyMsg("z"))
	assert.Equal(t, 25, m.current().Engine.PageSize())
	m = apply(t, m, keyMsg("z"))
	assert.Equal(t, 5, m.current().Engine.PageSize())

	m = apply(t, m, keyMsg("j"), keyMsg("j"), keyMsg("n"))
	assert.Equal(t, 1, m.current().Engine.PageIndex())
	assert.Equal(t, 0, m.row)
	m = apply(t, m, keyMsg("n"))
	assert.Equal(t, 1, m.current().Engine.PageIndex(), "no page past the last")
	m = apply(t, m, keyMsg("p"))
	assert.Equal(t, 0, m.current().Engine.PageIndex())
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := newTestModel(t)
	m = openBanks(t, m)

	for range 10 {
		m = apply(t, m, keyMsg("j"), keyMsg("l"))
	}
	assert.Equal(t, 5, m.row)
	assert.Equal(t, len(m.current().Def.Columns)-1, m.col)

	for range 10 {
		m = apply(t, m, keyMsg("k"), keyMsg("h"))
	}
	assert.Equal(t, 0, m.row)
	assert.Equal(t, 0, m.col)
}

func TestEditCommit(t *testing.T) {
	m, svc := newTestModel(t)
	m = openBanks(t, m)

	// First row by name is Albion Savings.
	m = apply(t, m, keyMsg("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Albion Savings", m.input.Value())
	assert.Contains(t, m.View(), "enter: save")

	m.input.SetValue("Albion Bank")
	m = apply(t, m, enter)

	assert.Equal(t, modeTable, m.mode)
	require.NoError(t, m.err)
	assert.Equal(t, "Name saved", m.status)
	_, editing := m.current().Engine.Editing()
	assert.False(t, editing)
	assert.Contains(t, m.View(), "Albion Bank")

	entries := svc.AuditLog().Query(core.AuditLogFilter{Action: core.ActionCellEdit})
	require.Len(t, entries, 1)
	assert.Equal(t, "Albion Savings", entries[0].OldValue)
	assert.Equal(t, "Albion Bank", entries[0].NewValue)
}

func TestEditTypingUpdatesDraft(t *testing.T) {
	m, _ := newTestModel(t)
	m = openBanks(t, m)

	m = apply(t, m, keyMsg("e"), keyMsg("!"))
	draft, ok := m.current().Engine.Draft()
	require.True(t, ok)
	assert.Equal(t, "Albion Savings!", draft)

	m = apply(t, m, esc)
	assert.Equal(t, modeTable, m.mode)
	_, editing := m.current().Engine.Editing()
	assert.False(t, editing)
	assert.Contains(t, m.View(), "Albion Savings")
}

func TestEditRejected(t *testing.T) {
	m, svc := newTestModel(t)
	m = openBanks(t, m)

	m = apply(t, m, keyMsg("l"), keyMsg("e"))
	require.Equal(t, modeEdit, m.mode)
	m.input.SetValue("??")
	m = apply(t, m, enter)

	assert.Equal(t, modeTable, m.mode)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "swift")
	assert.Contains(t, m.View(), "VAL008")
	assert.Len(t, svc.AuditLog().Query(core.AuditLogFilter{Action: core.ActionEditRejected}), 1)

	// The next key clears the error.
	m = apply(t, m, keyMsg("j"))
	assert.NoError(t, m.err)
}

func TestEditReadOnlyColumn(t *testing.T) {
	m, _ := newTestModel(t)
	m = openBanks(t, m)

	m = apply(t, m, keyMsg("l"), keyMsg("l"), keyMsg("l"), keyMsg("e"))
	assert.Equal(t, modeTable, m.mode)
	assert.ErrorIs(t, m.err, tableview.ErrNotEditable)
	assert.Contains(t, m.View(), "EDT001")
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m = openBanks(t, m)
	m = apply(t, m, keyMsg("/"))
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, "Banks is not searchable", m.status)

	m = apply(t, m, esc)
	m = open(t, m, keyMsg("j"))
	require.Equal(t, "beneficiaries", m.key)

	m = apply(t, m, keyMsg("/"))
	require.Equal(t, modeSearch, m.mode)
	for _, r := range "zzzqqq" {
		m = apply(t, m, keyMsg(string(r)))
	}
	assert.Equal(t, "zzzqqq", m.current().Engine.Search())
	assert.Contains(t, m.View(), "No records found")

	m = apply(t, m, enter)
	assert.Equal(t, modeTable, m.mode)
	assert.Contains(t, m.View(), "search: zzzqqq")

	m = apply(t, m, keyMsg("/"), esc)
	assert.Equal(t, "", m.current().Engine.Search())
	assert.NotContains(t, m.View(), "No records found")
}

func TestRowAction(t *testing.T) {
	m, svc := newTestModel(t)
	m = open(t, m, keyMsg("j"), enter, keyMsg("j"))
	require.Equal(t, "beneficiaries", m.key)

	v := m.current().Engine.View()
	target := -1
	for i, r := range v.Rows {
		if len(r.Actions) > 0 {
			target = i
			break
		}
	}
	require.GreaterOrEqual(t, target, 0, "mock data should contain an active beneficiary")
	assert.Contains(t, m.View(), "[1] Deactivate")

	m.row = target
	m = apply(t, m, keyMsg("2"))
	assert.Empty(t, m.status, "only one action is offered")

	m = apply(t, m, keyMsg("1"))
	require.NoError(t, m.err)
	assert.Equal(t, "Deactivate completed", m.status)
	assert.Len(t, svc.AuditLog().Query(core.AuditLogFilter{Action: core.ActionRowAction}), 1)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	short := m.View()
	m = apply(t, m, keyMsg("?"))
	assert.True(t, m.help.ShowAll)
	assert.NotEqual(t, short, m.View())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// q is text while editing.
	m = openBanks(t, m)
	m = apply(t, m, keyMsg("e"), keyMsg("q"))
	assert.Equal(t, modeEdit, m.mode)
}

func TestNextPageSize(t *testing.T) {
	sizes := []int{5, 10, 25}
	assert.Equal(t, 25, nextPageSize(10, sizes))
	assert.Equal(t, 5, nextPageSize(25, sizes))
	assert.Equal(t, 5, nextPageSize(7, sizes))
	assert.Equal(t, 7, nextPageSize(7, nil))
}

func TestErrorText(t *testing.T) {
	ve := core.ValidationError{Field: "swift", Message: "invalid format: 8 or 11 characters"}
	assert.Equal(t, "swift: invalid format: 8 or 11 characters (VAL008)", errorText(ve))
	assert.Equal(t, "Unsupported page size. Pick one of the page sizes offered (TBL004)",
		errorText(tableview.ErrInvalidPageSize))
	assert.True(t, strings.HasSuffix(errorText(errors.New("boom")), "(ERR000)"))
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Ørsted H…", truncate("Ørsted Holding", 9))
	assert.Equal(t, "ab   ", pad("ab", 5, false))
	assert.Equal(t, "   ab", pad("ab", 5, true))
	assert.Equal(t, "abcdef", pad("abcdef", 3, false))
}
