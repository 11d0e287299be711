package tableview

import (
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the order of the active sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps "desc" (any case) to Desc and everything else to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// SortState is the single active sort key.
type SortState struct {
	ColumnID  string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after a header click on columnID: the same column
// flips direction, a different column starts ascending.
func (s SortState) Toggle(columnID string) SortState {
	if s.ColumnID == columnID {
		return SortState{ColumnID: columnID, Direction: s.Direction.Flip()}
	}
	return SortState{ColumnID: columnID, Direction: Asc}
}

// Sorter orders rows by one column. It holds a collator, which is not safe
// for concurrent use, so each Engine owns its own Sorter.
type Sorter struct {
	coll *collate.Collator
}

// NewSorter returns a Sorter that collates text for the given locale.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{coll: collate.New(tag)}
}

// Compare orders two cell values. Two numbers compare numerically and two
// strings compare by collation. Any other pairing compares equal.
func (s *Sorter) Compare(a, b any) int {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			return x.Cmp(y)
		}
		return 0
	}
	x, ok := a.(string)
	if !ok {
		return 0
	}
	y, ok := b.(string)
	if !ok {
		return 0
	}
	return s.coll.CompareString(x, y)
}

// Sort returns a new slice ordered by state. The sort is stable, so rows
// whose keys compare equal keep their input order. rows is not modified.
func (s *Sorter) Sort(rows []Row, state SortState) []Row {
	out := slices.Clone(rows)
	if out == nil {
		out = []Row{}
	}
	if state.ColumnID == "" {
		return out
	}

	col := state.ColumnID
	desc := state.Direction == Desc
	slices.SortStableFunc(out, func(a, b Row) int {
		c := s.Compare(a[col], b[col])
		if desc {
			return -c
		}
		return c
	})
	return out
}

// SortRows orders rows by state using English collation.
func SortRows(rows []Row, state SortState) []Row {
	return NewSorter(language.English).Sort(rows, state)
}

// numeric reports whether v is a number and returns it as a decimal.
func numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		return floatDecimal(float64(n))
	case float64:
		return floatDecimal(n)
	default:
		return decimal.Decimal{}, false
	}
}

func floatDecimal(f float64) (decimal.Decimal, bool) {
	// NaN and infinities have no decimal form.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}
