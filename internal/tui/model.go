// Package tui is the terminal surface of the console: the navigation menu
// and the table views, driven from a Bubble Tea event loop.
//
// Each open table keeps its engine for the life of the program, so sort,
// page and search state survive moving between tables. Engines are owned by
// the update loop and never touched from commands; only opening a table
// runs in the background.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

// opTimeout bounds a single store round trip (commit, action, reload).
var opTimeout = 10 * time.Second

// Opener opens a table with fresh view state.
type Opener interface {
	OpenTable(ctx context.Context, key string) (*core.Table, error)
}

type mode int

const (
	modeMenu mode = iota
	modeTable
	modeSearch
	modeEdit
)

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

type tableOpenedMsg struct {
	key   string
	table *core.Table
}

type errMsg struct{ err error }

/* ----------------------------------------
	MODEL
---------------------------------------- */

// Model is the Bubble Tea model for the console.
type Model struct {
	ctx  context.Context
	svc  Opener
	menu *navigation.Menu // menu being shown
	item int              // menu cursor

	tables map[string]*core.Table
	key    string // open table
	row    int    // cursor within the visible rows
	col    int    // cursor within the columns

	mode    mode
	input   textinput.Model
	help    help.Model
	keys    keyMap
	styles  styles
	loading string
	status  string
	err     error
	width   int
}

// New returns a model showing the root of menu.
func New(ctx context.Context, svc Opener, menu *navigation.Menu) Model {
	in := textinput.New()
	in.CharLimit = 500
	return Model{
		ctx:    ctx,
		svc:    svc,
		menu:   menu.Root(),
		tables: make(map[string]*core.Table),
		input:  in,
		help:   help.New(),
		keys:   defaultKeys(),
		styles: defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tableOpenedMsg:
		m.loading = ""
		m.tables[msg.key] = msg.table
		m.showTable(msg.key)
		return m, nil

	case errMsg:
		m.loading = ""
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}

		m.err, m.status = nil, ""
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.mode == modeMenu {
			return m.updateMenu(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

/* ----------------------------------------
	MENU
---------------------------------------- */

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading != "" {
		return m, nil
	}
	items := m.menu.Items

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.item > 0 {
			m.item--
		}
	case key.Matches(msg, m.keys.Down):
		if m.item < len(items)-1 {
			m.item++
		}
	case key.Matches(msg, m.keys.Back):
		m.leaveMenu()
	case key.Matches(msg, m.keys.Select):
		if m.item >= len(items) {
			return m, nil
		}
		item := items[m.item]
		switch {
		case item.IsBack():
			m.leaveMenu()
		case item.Submenu != nil:
			m.menu, m.item = item.Submenu, 0
		case item.TableKey != "":
			if _, ok := m.tables[item.TableKey]; ok {
				m.showTable(item.TableKey)
				return m, nil
			}
			m.loading = item.Label
			return m, m.openTable(item.TableKey)
		}
	}
	return m, nil
}

// leaveMenu returns to the parent menu with the cursor on the submenu left.
func (m *Model) leaveMenu() {
	parent := m.menu.Parent
	if parent == nil {
		return
	}
	m.item = 0
	for i, it := range parent.Items {
		if it.Submenu == m.menu && !it.IsBack() {
			m.item = i
		}
	}
	m.menu = parent
}

func (m Model) openTable(key string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		t, err := svc.OpenTable(ctx, key)
		if err != nil {
			return errMsg{err: err}
		}
		return tableOpenedMsg{key: key, table: t}
	}
}

func (m *Model) showTable(key string) {
	m.key = key
	m.mode = modeTable
	m.row, m.col = 0, 0
	if menu, _, ok := m.menu.Root().Find(key); ok {
		m.menu = menu
	}
}

/* ----------------------------------------
	TABLE
---------------------------------------- */

func (m Model) current() *core.Table {
	return m.tables[m.key]
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()
	eng := t.Engine
	v := eng.View()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeMenu
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(v.Rows)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(v.Columns)-1 {
			m.col++
		}

	case key.Matches(msg, m.keys.Sort):
		m.err = eng.SetSort(v.Columns[m.col].ID)
	case key.Matches(msg, m.keys.NextPage):
		if v.Page.HasNext {
			eng.SetPage(v.Page.Index + 1)
			m.row = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if v.Page.HasPrev {
			eng.SetPage(v.Page.Index - 1)
			m.row = 0
		}
	case key.Matches(msg, m.keys.PageSize):
		m.err = eng.SetPageSize(nextPageSize(v.Page.Size, v.Page.Sizes))

	case key.Matches(msg, m.keys.Search):
		if !t.Def.Info.Searchable {
			m.status = t.Def.Info.Label + " is not searchable"
			return m, nil
		}
		m.mode = modeSearch
		m.input.Prompt = "/ "
		m.input.Placeholder = "search"
		m.input.SetValue(eng.Search())
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit(v)

	case key.Matches(msg, m.keys.Action):
		m.runAction(v, msg.String())

	case key.Matches(msg, m.keys.Reload):
		if m.err = m.run(t.Reload); m.err == nil {
			m.status = "Reloaded"
		}
	}

	m.clampCursor()
	return m, nil
}

func (m Model) beginEdit(v tableview.View) (tea.Model, tea.Cmd) {
	if len(v.Rows) == 0 {
		return m, nil
	}
	row := v.Rows[m.row]
	cell := row.Cells[m.col]
	header := v.Columns[m.col]

	err := m.run(func(ctx context.Context) error {
		return m.current().Engine.BeginEdit(ctx, row.ID, cell.ColumnID, cell.Value)
	})
	if err != nil {
		m.err = err
		return m, nil
	}

	m.mode = modeEdit
	m.input.Prompt = header.Label + ": "
	m.input.Placeholder = ""
	if spec, ok := m.current().Def.Spec(cell.ColumnID); ok {
		m.input.Placeholder = spec.Hint()
	}
	m.input.SetValue(cell.Value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

// runAction runs the nth action (1-based, from the key pressed) of the
// row under the cursor.
func (m *Model) runAction(v tableview.View, pressed string) {
	if len(v.Rows) == 0 {
		return
	}
	row := v.Rows[m.row]
	n := int(pressed[0] - '0')
	if n < 1 || n > len(row.Actions) {
		return
	}
	action := row.Actions[n-1]
	m.err = m.run(func(ctx context.Context) error {
		return m.current().RunAction(ctx, row.ID, action.ID)
	})
	if m.err == nil {
		m.status = action.Label + " completed"
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.current().Engine
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeTable
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		eng.SetSearch("")
		m.mode = modeTable
		m.input.Blur()
		m.row = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	eng.SetSearch(m.input.Value())
	m.clampCursor()
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()
	switch msg.Type {
	case tea.KeyEnter:
		col, _ := t.Engine.Column(m.editingColumn())
		m.mode = modeTable
		m.input.Blur()
		m.err = m.run(func(ctx context.Context) error {
			if err := t.Engine.SetDraft(m.input.Value()); err != nil {
				return err
			}
			return t.Engine.CommitEdit(ctx)
		})
		if m.err == nil {
			m.status = col.Label + " saved"
		}
		m.clampCursor()
		return m, nil
	case tea.KeyEsc:
		t.Engine.CancelEdit()
		m.mode = modeTable
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = t.Engine.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) editingColumn() string {
	if e, ok := m.current().Engine.Editing(); ok {
		return e.ColumnID
	}
	return ""
}

// run calls fn with a bounded context.
func (m Model) run(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(m.ctx, opTimeout)
	defer cancel()
	return fn(ctx)
}

func (m *Model) clampCursor() {
	t := m.current()
	if t == nil {
		return
	}
	n := len(t.Engine.Visible())
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func nextPageSize(current int, sizes []int) int {
	for i, s := range sizes {
		if s == current {
			return sizes[(i+1)%len(sizes)]
		}
	}
	if len(sizes) > 0 {
		return sizes[0]
	}
	return current
}

// errorText is the line shown for err: the validation message when the
// input was rejected, otherwise the mapped user message and its code.
func errorText(err error) string {
	var ve core.ValidationError
	msg := core.MapError(err)
	if errors.As(err, &ve) {
		return fmt.Sprintf("%s (%s)", ve.Error(), msg.Code)
	}
	if msg.Action != "" {
		return fmt.Sprintf("%s. %s (%s)", msg.Message, msg.Action, msg.Code)
	}
	return fmt.Sprintf("%s (%s)", msg.Message, msg.Code)
}
