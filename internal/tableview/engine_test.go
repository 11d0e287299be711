package tableview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commitRecorder struct {
	commits []EditCommit
	err     error
}

func (r *commitRecorder) commit(_ context.Context, c EditCommit) error {
	r.commits = append(r.commits, c)
	return r.err
}

func depositColumns() []Column {
	return []Column{
		{ID: "reference", Label: "Reference", Editable: true},
		{ID: "grossAmount", Label: "Gross", Numeric: true, Editable: true},
		{ID: "status", Label: "Status"},
	}
}

func depositRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"id": i + 1, "reference": "DEP", "grossAmount": (i + 1) * 10, "status": "open"}
	}
	return rows
}

func newEngine(t *testing.T, rows []Row, opts Options) *Engine {
	t.Helper()
	e, err := New(depositColumns(), rows, opts)
	require.NoError(t, err)
	return e
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Column{{ID: "a"}, {ID: "a"}}, nil, Options{})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New([]Column{{ID: "a"}}, nil, Options{DefaultSort: SortState{ColumnID: "b"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = New([]Column{{ID: "a"}}, nil, Options{PageSize: 7})
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	e, err := New([]Column{{ID: "a"}}, nil, Options{PageSizes: []int{20, 40}})
	require.NoError(t, err)
	assert.Equal(t, 20, e.PageSize())
}

func TestEngine_SetSortTogglesTwoCycle(t *testing.T) {
	e := newEngine(t, depositRows(3), Options{})

	require.NoError(t, e.SetSort("grossAmount"))
	assert.Equal(t, SortState{ColumnID: "grossAmount", Direction: Asc}, e.Sort())

	require.NoError(t, e.SetSort("grossAmount"))
	assert.Equal(t, Desc, e.Sort().Direction)

	require.NoError(t, e.SetSort("grossAmount"))
	assert.Equal(t, Asc, e.Sort().Direction)

	require.NoError(t, e.SetSort("status"))
	assert.Equal(t, SortState{ColumnID: "status", Direction: Asc}, e.Sort())

	assert.ErrorIs(t, e.SetSort("nope"), ErrUnknownColumn)
}

func TestEngine_SetSortPagePolicy(t *testing.T) {
	keep := newEngine(t, depositRows(30), Options{})
	keep.SetPage(2)
	require.NoError(t, keep.SetSort("grossAmount"))
	assert.Equal(t, 2, keep.PageIndex())

	reset := newEngine(t, depositRows(30), Options{ResetPageOnSort: true})
	reset.SetPage(2)
	require.NoError(t, reset.SetSort("grossAmount"))
	assert.Equal(t, 0, reset.PageIndex())
}

func TestEngine_PageSizeChangeResetsPage(t *testing.T) {
	e := newEngine(t, depositRows(100), Options{PageSize: 10})
	e.SetPage(3)

	require.NoError(t, e.SetPageSize(25))
	assert.Equal(t, 0, e.PageIndex())
	assert.Equal(t, 25, e.View().Page.Size)

	e.SetPage(2)
	require.NoError(t, e.SetPageSize(25))
	assert.Equal(t, 2, e.PageIndex(), "same size keeps the page")

	assert.ErrorIs(t, e.SetPageSize(13), ErrInvalidPageSize)
}

func TestEngine_SetRowsResetsEmptyPage(t *testing.T) {
	e := newEngine(t, depositRows(23), Options{PageSize: 10})
	e.SetPage(2)
	assert.Len(t, e.Visible(), 3)

	e.SetRows(depositRows(21))
	assert.Equal(t, 2, e.PageIndex(), "page 3 still has a row")

	e.SetRows(depositRows(20))
	assert.Equal(t, 0, e.PageIndex())
	assert.Len(t, e.Visible(), 10)
}

func TestEngine_SetPageClampsNegative(t *testing.T) {
	e := newEngine(t, depositRows(5), Options{})
	e.SetPage(-4)
	assert.Equal(t, 0, e.PageIndex())

	e.SetPage(9)
	v := e.View()
	assert.True(t, v.Empty)
	assert.Zero(t, v.Page.First)
	assert.False(t, v.Page.HasNext)
}

func TestEngine_SearchFiltersAndResetsPage(t *testing.T) {
	rows := depositRows(30)
	rows[27]["reference"] = "WIRE-ACME"
	e := newEngine(t, rows, Options{})
	e.SetPage(2)

	e.SetSearch("  acme ")
	assert.Equal(t, "acme", e.Search())
	assert.Equal(t, 0, e.PageIndex())
	assert.Equal(t, []string{"28"}, ids(e.Visible()))

	e.SetSearch("")
	assert.Len(t, e.Sorted(), 30)
}

func TestEngine_EditExclusivity(t *testing.T) {
	rec := &commitRecorder{}
	e := newEngine(t, depositRows(5), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	require.NoError(t, e.BeginEdit(ctx, "2", "grossAmount", "20"))

	cell, ok := e.Editing()
	require.True(t, ok)
	assert.Equal(t, EditState{RowID: "2", ColumnID: "grossAmount"}, cell)
	assert.Empty(t, rec.commits, "clean draft is not committed")

	editing := 0
	for _, row := range e.View().Rows {
		for _, c := range row.Cells {
			if c.Editing {
				editing++
			}
		}
	}
	assert.Equal(t, 1, editing)
}

func TestEngine_SwitchCommitsDirtyDraft(t *testing.T) {
	rec := &commitRecorder{}
	e := newEngine(t, depositRows(5), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	require.NoError(t, e.SetDraft("DEP-77"))
	require.NoError(t, e.BeginEdit(ctx, "3", "reference", "DEP"))

	require.Len(t, rec.commits, 1)
	assert.Equal(t, EditCommit{RowID: "1", ColumnID: "reference", Value: "DEP-77"}, rec.commits[0])
	cell, _ := e.Editing()
	assert.Equal(t, "3", cell.RowID)
}

func TestEngine_SwitchCommitFailureKeepsEdit(t *testing.T) {
	rec := &commitRecorder{err: errors.New("invalid number format")}
	e := newEngine(t, depositRows(5), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "grossAmount", "10"))
	require.NoError(t, e.SetDraft("ten"))
	err := e.BeginEdit(ctx, "2", "grossAmount", "20")
	require.Error(t, err)

	cell, _ := e.Editing()
	assert.Equal(t, "1", cell.RowID)
	draft, _ := e.Draft()
	assert.Equal(t, "ten", draft)
}

func TestEngine_BeginEditSameCellKeepsDraft(t *testing.T) {
	rec := &commitRecorder{}
	e := newEngine(t, depositRows(5), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	require.NoError(t, e.SetDraft("DEP-9"))
	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))

	assert.Empty(t, rec.commits)
	draft, ok := e.Draft()
	require.True(t, ok)
	assert.Equal(t, "DEP-9", draft)

	require.NoError(t, e.CommitEdit(ctx))
	require.Len(t, rec.commits, 1)
	assert.Equal(t, "DEP-9", rec.commits[0].Value)
}

func TestEngine_SwitchDiscard(t *testing.T) {
	rec := &commitRecorder{}
	e := newEngine(t, depositRows(5), Options{OnEditCommit: rec.commit, EditSwitch: SwitchDiscard})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	require.NoError(t, e.SetDraft("lost"))
	require.NoError(t, e.BeginEdit(ctx, "2", "reference", "DEP"))

	assert.Empty(t, rec.commits)
	draft, _ := e.Draft()
	assert.Equal(t, "DEP", draft)
}

func TestEngine_CommitEditPassesRawDraft(t *testing.T) {
	rows := depositRows(6)
	rows[4]["grossAmount"] = 100
	rec := &commitRecorder{}
	e := newEngine(t, rows, Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "5", "grossAmount", "100"))
	require.NoError(t, e.SetDraft("150"))
	require.NoError(t, e.CommitEdit(ctx))

	require.Len(t, rec.commits, 1)
	assert.Equal(t, EditCommit{RowID: "5", ColumnID: "grossAmount", Value: "150"}, rec.commits[0])
	_, editing := e.Editing()
	assert.False(t, editing)

	// The engine never writes the draft into the source rows.
	assert.Equal(t, 100, rows[4]["grossAmount"])
	assert.Len(t, rows, 6)

	assert.ErrorIs(t, e.CommitEdit(ctx), ErrNoEdit)
	assert.Len(t, rec.commits, 1)
}

func TestEngine_CommitEditClearsStateOnCallbackError(t *testing.T) {
	boom := errors.New("boom")
	rec := &commitRecorder{err: boom}
	e := newEngine(t, depositRows(2), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	assert.ErrorIs(t, e.CommitEdit(ctx), boom)
	_, editing := e.Editing()
	assert.False(t, editing)
}

func TestEngine_CancelEdit(t *testing.T) {
	rec := &commitRecorder{}
	e := newEngine(t, depositRows(2), Options{OnEditCommit: rec.commit})
	ctx := context.Background()

	require.NoError(t, e.BeginEdit(ctx, "1", "reference", "DEP"))
	require.NoError(t, e.SetDraft("changed"))
	e.CancelEdit()

	assert.Empty(t, rec.commits)
	_, editing := e.Editing()
	assert.False(t, editing)
	assert.ErrorIs(t, e.SetDraft("x"), ErrNoEdit)
}

func TestEngine_BeginEditPreconditions(t *testing.T) {
	e := newEngine(t, depositRows(2), Options{})
	ctx := context.Background()

	assert.ErrorIs(t, e.BeginEdit(ctx, "1", "status", "open"), ErrNotEditable)
	assert.ErrorIs(t, e.BeginEdit(ctx, "1", "missing", ""), ErrUnknownColumn)
	assert.ErrorIs(t, e.BeginEdit(ctx, "99", "reference", ""), ErrUnknownRow)
}

func TestEngine_SetRowsDropsEditOfVanishedRow(t *testing.T) {
	e := newEngine(t, depositRows(3), Options{})
	require.NoError(t, e.BeginEdit(context.Background(), "3", "reference", "DEP"))

	e.SetRows(depositRows(2))
	_, editing := e.Editing()
	assert.False(t, editing)
}

func TestEngine_ViewRendering(t *testing.T) {
	cols := []Column{
		{ID: "name", Label: "Name", Editable: true},
		{
			ID: "status", Label: "Status",
			Formatter: func(v any, _ Row) Content {
				if v == "pending" {
					return Content{Text: "Pending", Tone: ToneWarning}
				}
				return Content{Text: "Done", Tone: ToneSuccess}
			},
		},
	}
	rows := []Row{
		{"id": "a", "name": "Acme", "status": "pending"},
		{"id": "b", "name": "Globex", "status": "done"},
	}
	e, err := New(cols, rows, Options{
		DefaultSort: SortState{ColumnID: "name"},
		RowActions: func(r Row) []Action {
			if r["status"] == "pending" {
				return []Action{{ID: "match", Label: "Match"}}
			}
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, e.BeginEdit(context.Background(), "b", "name", "Globex"))
	require.NoError(t, e.SetDraft("Globex Corp"))

	v := e.View()
	require.Len(t, v.Rows, 2)
	assert.True(t, v.HasActions)
	assert.True(t, v.Columns[0].Sorted)
	assert.Equal(t, Asc, v.Columns[0].Direction)
	assert.False(t, v.Columns[1].Sorted)
	require.NotNil(t, v.Edit)
	assert.Equal(t, "b", v.Edit.RowID)

	acme := v.Rows[0]
	assert.Equal(t, "a", acme.ID)
	assert.True(t, acme.Cells[0].CanEdit)
	assert.Equal(t, Content{Text: "Pending", Tone: ToneWarning}, acme.Cells[1].Content)
	assert.False(t, acme.Cells[1].CanEdit)
	assert.Equal(t, []Action{{ID: "match", Label: "Match"}}, acme.Actions)

	globex := v.Rows[1]
	assert.True(t, globex.Cells[0].Editing)
	assert.Equal(t, "Globex Corp", globex.Cells[0].Draft)
	assert.False(t, globex.Cells[0].CanEdit)
	assert.Empty(t, globex.Actions)

	assert.Equal(t, PageInfo{
		Index: 0, Size: 10, Sizes: DefaultPageSizes, TotalRows: 2, TotalPages: 1,
		First: 1, Last: 2,
	}, v.Page)
}

func TestEngine_ViewPagerBounds(t *testing.T) {
	e := newEngine(t, depositRows(23), Options{PageSize: 10})
	e.SetPage(2)

	p := e.View().Page
	assert.Equal(t, 21, p.First)
	assert.Equal(t, 23, p.Last)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)
}

func TestEngine_SortedIsMemoizedPerVersion(t *testing.T) {
	rows := depositRows(4)
	e := newEngine(t, rows, Options{DefaultSort: SortState{ColumnID: "grossAmount", Direction: Desc}})

	first := e.sorted()
	second := e.sorted()
	assert.Same(t, &first[0], &second[0])

	e.SetRows(depositRows(4))
	third := e.sorted()
	assert.NotSame(t, &first[0], &third[0])
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(third))
}
