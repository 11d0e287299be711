package tableview

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// fuzzyMinRunes is the shortest search term that tolerates a typo.
const fuzzyMinRunes = 4

// MatchRow reports whether every whitespace-separated term of query is found
// in one of the row's cells. Terms match case-insensitively as substrings of
// the formatted cell text; terms of four or more runes also match a word
// within edit distance one. An empty query matches every row.
func MatchRow(row Row, columns []Column, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}

	cells := make([]string, 0, len(columns))
	for _, col := range columns {
		text := strings.ToLower(col.Render(row).Text)
		if text != "" {
			cells = append(cells, text)
		}
	}

	for _, term := range terms {
		if !matchTerm(term, cells) {
			return false
		}
	}
	return true
}

func matchTerm(term string, cells []string) bool {
	for _, cell := range cells {
		if strings.Contains(cell, term) {
			return true
		}
	}
	if utf8.RuneCountInString(term) < fuzzyMinRunes {
		return false
	}
	for _, cell := range cells {
		for _, word := range strings.Fields(cell) {
			if levenshtein.ComputeDistance(term, word) <= 1 {
				return true
			}
		}
	}
	return false
}

// filterRows returns the rows matching query, preserving order.
func filterRows(rows []Row, columns []Column, query string) []Row {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if MatchRow(r, columns, query) {
			out = append(out, r)
		}
	}
	return out
}
