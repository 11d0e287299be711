package tableview

import (
	"fmt"
	"strconv"
)

// IDColumn is the row field holding the stable row identity.
const IDColumn = "id"

// Row is a single record keyed by column id. It must carry a unique value
// under IDColumn. The engine treats rows as read-only.
type Row map[string]any

// ID returns the row identity as text.
func (r Row) ID() string {
	return FormatValue(r[IDColumn])
}

// FormatValue renders a raw cell value as plain text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(v)
	}
}

// indexRows maps row ids to rows.
func indexRows(rows []Row) map[string]Row {
	idx := make(map[string]Row, len(rows))
	for _, r := range rows {
		idx[r.ID()] = r
	}
	return idx
}
