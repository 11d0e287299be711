package tableview

// Tone is a presentation hint for formatted content (badges, amounts).
// Surfaces map it to a CSS class or a terminal color.
type Tone string

const (
	ToneDefault Tone = ""
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

// Content is the renderable output of a Formatter.
type Content struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone,omitempty"`
}

// Formatter turns a raw cell value into display content. The full row is
// passed so formatters can depend on sibling fields (currency, status).
type Formatter func(value any, row Row) Content

// Column describes how one field is labeled, compared and rendered.
// A column list is fixed for the lifetime of an Engine.
type Column struct {
	ID        string
	Label     string
	Numeric   bool
	Editable  bool
	Formatter Formatter
}

// Render returns the display content of this column for row.
func (c Column) Render(row Row) Content {
	v := row[c.ID]
	if c.Formatter != nil {
		return c.Formatter(v, row)
	}
	return Content{Text: FormatValue(v)}
}

// Action is a per-row affordance rendered in the trailing column
// (for example "Match" on an unallocated deposit).
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Tone  Tone   `json:"tone,omitempty"`
}

// RowActions returns the actions available for a row. It may return nil.
type RowActions func(row Row) []Action
