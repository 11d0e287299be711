package tableview

import (
	"context"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"
)

// derivedCacheSize bounds the memoized filtered+sorted sequences per engine.
const derivedCacheSize = 8

// Options configures an Engine. The zero value is usable.
type Options struct {
	// DefaultSort is the initial sort state. Empty ColumnID keeps input order.
	DefaultSort SortState

	// PageSize is the initial page size. Zero selects DefaultPageSize.
	PageSize int

	// PageSizes is the enumerated set of page sizes. Nil selects DefaultPageSizes.
	PageSizes []int

	// ResetPageOnSort returns to the first page whenever the sort changes.
	ResetPageOnSort bool

	// EditSwitch controls dirty drafts when another cell enters edit.
	EditSwitch EditSwitch

	// Locale selects text collation. language.Und selects English.
	Locale language.Tag

	// OnEditCommit receives committed edits. May be nil.
	OnEditCommit CommitFunc

	// RowActions supplies the trailing per-row actions. May be nil.
	RowActions RowActions
}

// derivedKey identifies one memoized filtered+sorted sequence.
type derivedKey struct {
	version uint64
	sort    SortState
	search  string
}

// Engine holds the sort, pagination and edit state of one table instance.
type Engine struct {
	columns  []Column
	colIndex map[string]int
	opts     Options
	sorter   *Sorter

	rows    []Row
	rowIdx  map[string]Row
	version uint64

	sort      SortState
	search    string
	pageIndex int
	pageSize  int
	edit      *editSession

	derived *lru.Cache[derivedKey, []Row]
}

// New creates an engine over columns and rows.
func New(columns []Column, rows []Row, opts Options) (*Engine, error) {
	colIndex := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.ID == "" {
			return nil, fmt.Errorf("column %d: %w: empty id", i, ErrUnknownColumn)
		}
		if _, dup := colIndex[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.ID)
		}
		colIndex[c.ID] = i
	}

	if opts.PageSizes == nil {
		opts.PageSizes = DefaultPageSizes
	}
	if len(opts.PageSizes) == 0 {
		return nil, fmt.Errorf("%w: empty page size set", ErrInvalidPageSize)
	}
	opts.PageSizes = slices.Clone(opts.PageSizes)
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
		if !validPageSize(opts.PageSize, opts.PageSizes) {
			opts.PageSize = opts.PageSizes[0]
		}
	}
	if !validPageSize(opts.PageSize, opts.PageSizes) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, opts.PageSize)
	}

	if opts.DefaultSort.ColumnID != "" {
		if _, ok := colIndex[opts.DefaultSort.ColumnID]; !ok {
			return nil, fmt.Errorf("default sort: %w: %s", ErrUnknownColumn, opts.DefaultSort.ColumnID)
		}
		if opts.DefaultSort.Direction != Desc {
			opts.DefaultSort.Direction = Asc
		}
	}

	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	derived, err := lru.New[derivedKey, []Row](derivedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("derived cache: %w", err)
	}

	e := &Engine{
		columns:  slices.Clone(columns),
		colIndex: colIndex,
		opts:     opts,
		sorter:   NewSorter(locale),
		sort:     opts.DefaultSort,
		pageSize: opts.PageSize,
		derived:  derived,
	}
	e.setRows(rows)
	return e, nil
}

// Columns returns the column descriptors.
func (e *Engine) Columns() []Column {
	return slices.Clone(e.columns)
}

// Column returns the descriptor for id.
func (e *Engine) Column(id string) (Column, bool) {
	i, ok := e.colIndex[id]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

// Sort returns the active sort state.
func (e *Engine) Sort() SortState { return e.sort }

// Search returns the active search query.
func (e *Engine) Search() string { return e.search }

// PageIndex returns the zero-based page index.
func (e *Engine) PageIndex() int { return e.pageIndex }

// PageSize returns the current page size.
func (e *Engine) PageSize() int { return e.pageSize }

// PageSizes returns the selectable page sizes.
func (e *Engine) PageSizes() []int { return slices.Clone(e.opts.PageSizes) }

// SetRows replaces the backing row sequence. When the current page would
// now be empty the page index resets to 0, and an edit whose row vanished
// is dropped.
func (e *Engine) SetRows(rows []Row) {
	e.setRows(rows)

	if e.pageIndex > 0 && e.pageIndex >= PageCount(len(e.sorted()), e.pageSize) {
		e.pageIndex = 0
	}
	if e.edit != nil {
		if _, ok := e.rowIdx[e.edit.cell.RowID]; !ok {
			e.edit = nil
		}
	}
}

func (e *Engine) setRows(rows []Row) {
	e.rows = rows
	e.rowIdx = indexRows(rows)
	e.version++
}

// Row returns the row with the given id.
func (e *Engine) Row(id string) (Row, bool) {
	r, ok := e.rowIdx[id]
	return r, ok
}

// SetSort selects columnID as the sort key, flipping the direction when it
// is already the key.
func (e *Engine) SetSort(columnID string) error {
	if _, ok := e.colIndex[columnID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, columnID)
	}
	e.sort = e.sort.Toggle(columnID)
	if e.opts.ResetPageOnSort {
		e.pageIndex = 0
	}
	return nil
}

// SetPage moves to the zero-based page index. Negative indexes clamp to 0.
// An index past the last page is kept and yields an empty window.
func (e *Engine) SetPage(index int) {
	e.pageIndex = max(index, 0)
}

// SetPageSize changes the page size and returns to the first page.
func (e *Engine) SetPageSize(size int) error {
	if !validPageSize(size, e.opts.PageSizes) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	if size != e.pageSize {
		e.pageSize = size
		e.pageIndex = 0
	}
	return nil
}

// SetSearch filters rows by query and returns to the first page when the
// query changes.
func (e *Engine) SetSearch(query string) {
	query = strings.TrimSpace(query)
	if query == e.search {
		return
	}
	e.search = query
	e.pageIndex = 0
}

// Editing returns the cell in edit, if any.
func (e *Engine) Editing() (EditState, bool) {
	if e.edit == nil {
		return EditState{}, false
	}
	return e.edit.cell, true
}

// Draft returns the staged draft text of the cell in edit.
func (e *Engine) Draft() (string, bool) {
	if e.edit == nil {
		return "", false
	}
	return e.edit.draft, true
}

// BeginEdit puts one cell into edit with currentValue as the draft,
// replacing any previous edit. A modified draft on a different cell is
// committed first under SwitchCommit; if that commit fails the previous
// edit stays open and the error is returned. Beginning an edit on the cell
// already in edit keeps its draft.
func (e *Engine) BeginEdit(ctx context.Context, rowID, columnID, currentValue string) error {
	col, ok := e.Column(columnID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, columnID)
	}
	if !col.Editable {
		return fmt.Errorf("%w: %s", ErrNotEditable, columnID)
	}
	if _, ok := e.rowIdx[rowID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, rowID)
	}

	next := EditState{RowID: rowID, ColumnID: columnID}
	if e.edit != nil && e.edit.cell == next {
		return nil
	}
	if prev := e.edit; prev != nil && prev.dirty() && e.opts.EditSwitch == SwitchCommit {
		if err := e.deliver(ctx, prev.commit()); err != nil {
			return fmt.Errorf("commit %s/%s before switching: %w", prev.cell.RowID, prev.cell.ColumnID, err)
		}
	}

	e.edit = &editSession{cell: next, staged: currentValue, draft: currentValue}
	return nil
}

// SetDraft replaces the draft text of the cell in edit.
func (e *Engine) SetDraft(value string) error {
	if e.edit == nil {
		return ErrNoEdit
	}
	e.edit.draft = value
	return nil
}

// CommitEdit hands the draft to OnEditCommit exactly once and clears the
// edit state. The edit is cleared even when the callback fails; its error
// is returned unchanged.
func (e *Engine) CommitEdit(ctx context.Context) error {
	if e.edit == nil {
		return ErrNoEdit
	}
	c := e.edit.commit()
	e.edit = nil
	return e.deliver(ctx, c)
}

// CancelEdit discards the draft without invoking OnEditCommit.
func (e *Engine) CancelEdit() {
	e.edit = nil
}

func (e *Engine) deliver(ctx context.Context, c EditCommit) error {
	if e.opts.OnEditCommit == nil {
		return nil
	}
	return e.opts.OnEditCommit(ctx, c)
}

// Sorted returns the filtered and sorted row sequence.
func (e *Engine) Sorted() []Row {
	return slices.Clone(e.sorted())
}

// Visible returns the rows of the current page.
func (e *Engine) Visible() []Row {
	return Paginate(e.sorted(), e.pageIndex, e.pageSize)
}

// sorted returns the memoized sequence. Callers must not modify it.
func (e *Engine) sorted() []Row {
	key := derivedKey{version: e.version, sort: e.sort, search: e.search}
	if rows, ok := e.derived.Get(key); ok {
		return rows
	}
	rows := e.sorter.Sort(filterRows(e.rows, e.columns, e.search), e.sort)
	e.derived.Add(key, rows)
	return rows
}
