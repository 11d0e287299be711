package tableview

// HeaderCell describes one column header.
type HeaderCell struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Numeric   bool      `json:"numeric"`
	Editable  bool      `json:"editable"`
	Sorted    bool      `json:"sorted"`
	Direction Direction `json:"direction,omitempty"`
}

// Cell is one rendered cell.
//
// A cell in edit carries the draft and is rendered as an input with commit
// and cancel affordances. Other cells carry formatted Content; CanEdit marks
// the start-edit affordance on editable columns.
type Cell struct {
	ColumnID string  `json:"column"`
	Value    string  `json:"value"`
	Content  Content `json:"content"`
	Numeric  bool    `json:"numeric,omitempty"`
	CanEdit  bool    `json:"canEdit,omitempty"`
	Editing  bool    `json:"editing,omitempty"`
	Draft    string  `json:"draft,omitempty"`
}

// ViewRow is one rendered row of the visible window.
type ViewRow struct {
	ID      string   `json:"id"`
	Cells   []Cell   `json:"cells"`
	Actions []Action `json:"actions,omitempty"`
}

// PageInfo summarizes the pagination state for pager controls.
type PageInfo struct {
	Index      int   `json:"index"`
	Size       int   `json:"size"`
	Sizes      []int `json:"sizes"`
	TotalRows  int   `json:"totalRows"`
	TotalPages int   `json:"totalPages"`
	// First and Last are 1-based positions of the visible rows; both are 0
	// when the window is empty.
	First   int  `json:"first"`
	Last    int  `json:"last"`
	HasPrev bool `json:"hasPrev"`
	HasNext bool `json:"hasNext"`
}

// View is the fully derived presentation of the engine state.
type View struct {
	Columns    []HeaderCell `json:"columns"`
	Rows       []ViewRow    `json:"rows"`
	Page       PageInfo     `json:"page"`
	Sort       SortState    `json:"sort"`
	Search     string       `json:"search,omitempty"`
	Edit       *EditState   `json:"edit,omitempty"`
	HasActions bool         `json:"hasActions"`
	// Empty is set when the window has no rows; surfaces show a
	// "no records found" state.
	Empty bool `json:"empty"`
}

// View derives the visible window and renders every cell.
func (e *Engine) View() View {
	sorted := e.sorted()
	window := Paginate(sorted, e.pageIndex, e.pageSize)

	v := View{
		Columns:    make([]HeaderCell, len(e.columns)),
		Rows:       make([]ViewRow, 0, len(window)),
		Sort:       e.sort,
		Search:     e.search,
		HasActions: e.opts.RowActions != nil,
		Empty:      len(window) == 0,
	}

	for i, c := range e.columns {
		h := HeaderCell{ID: c.ID, Label: c.Label, Numeric: c.Numeric, Editable: c.Editable}
		if c.ID == e.sort.ColumnID {
			h.Sorted = true
			h.Direction = e.sort.Direction
		}
		v.Columns[i] = h
	}

	if e.edit != nil {
		cell := e.edit.cell
		v.Edit = &cell
	}

	for _, row := range window {
		v.Rows = append(v.Rows, e.renderRow(row))
	}

	total := len(sorted)
	v.Page = PageInfo{
		Index:      e.pageIndex,
		Size:       e.pageSize,
		Sizes:      e.PageSizes(),
		TotalRows:  total,
		TotalPages: PageCount(total, e.pageSize),
		HasPrev:    e.pageIndex > 0,
		HasNext:    (e.pageIndex+1)*e.pageSize < total,
	}
	if len(window) > 0 {
		v.Page.First = e.pageIndex*e.pageSize + 1
		v.Page.Last = v.Page.First + len(window) - 1
	}
	return v
}

func (e *Engine) renderRow(row Row) ViewRow {
	id := row.ID()
	vr := ViewRow{ID: id, Cells: make([]Cell, len(e.columns))}

	for i, c := range e.columns {
		cell := Cell{
			ColumnID: c.ID,
			Value:    FormatValue(row[c.ID]),
			Numeric:  c.Numeric,
		}
		if e.edit != nil && e.edit.cell.RowID == id && e.edit.cell.ColumnID == c.ID {
			cell.Editing = true
			cell.Draft = e.edit.draft
		} else {
			cell.Content = c.Render(row)
			cell.CanEdit = c.Editable
		}
		vr.Cells[i] = cell
	}

	if e.opts.RowActions != nil {
		vr.Actions = e.opts.RowActions(row)
	}
	return vr
}
