package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseAmount Tests
// ----------------------------------------------------------------------------

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		// Valid: Basic numbers
		{name: "positive integer", input: "123", wantValid: true, wantValue: "123"},
		{name: "zero", input: "0", wantValid: true, wantValue: "0"},
		{name: "negative integer", input: "-456", wantValid: true, wantValue: "-456"},
		{name: "decimal number", input: "123.45", wantValid: true, wantValue: "123.45"},
		{name: "leading decimal point", input: ".99", wantValid: true, wantValue: "0.99"},
		{name: "explicit positive sign", input: "+123", wantValid: true, wantValue: "123"},
		{name: "scientific notation", input: "1.5e3", wantValid: true, wantValue: "1500"},

		// Valid: Currency symbols and separators
		{name: "dollar sign", input: "$1,234.56", wantValid: true, wantValue: "1234.56"},
		{name: "euro sign", input: "€1234.56", wantValid: true, wantValue: "1234.56"},
		{name: "pound sign", input: "£1234.56", wantValid: true, wantValue: "1234.56"},
		{name: "thousands separator", input: "1,234,567.89", wantValid: true, wantValue: "1234567.89"},
		{name: "space grouping", input: "1 000 000", wantValid: true, wantValue: "1000000"},
		{name: "trailing percent", input: "2.5%", wantValid: true, wantValue: "2.5"},

		// Valid: Accounting format (parentheses for negative)
		{name: "accounting negative parentheses", input: "(123.45)", wantValid: true, wantValue: "-123.45"},
		{name: "accounting negative with currency", input: "($1,234.56)", wantValid: true, wantValue: "-1234.56"},
		{name: "accounting negative with spaces", input: "( 999.99 )", wantValid: true, wantValue: "-999.99"},

		// Valid: Paste artifacts
		{name: "surrounded by whitespace", input: "  123.45  ", wantValid: true, wantValue: "123.45"},
		{name: "spreadsheet formula prefix", input: `="42.10"`, wantValid: true, wantValue: "42.1"},
		{name: "quoted", input: `"7"`, wantValid: true, wantValue: "7"},

		// Invalid
		{name: "empty string", input: "", wantValid: false},
		{name: "only whitespace", input: "   ", wantValid: false},
		{name: "alphabetic string", input: "abc", wantValid: false},
		{name: "mixed alphanumeric", input: "12abc34", wantValid: false},
		{name: "only currency symbol", input: "$", wantValid: false},
		{name: "multiple decimal points", input: "1.2.3", wantValid: false},
		{name: "double sign", input: "--5", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseAmount(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got.String() != tt.wantValue {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.String(), tt.wantValue)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      string
	}{
		{"2024-01-15", true, "2024-01-15"},
		{"2024/01/15", true, "2024-01-15"},
		{"1/15/2024", true, "2024-01-15"},
		{"01/15/2024", true, "2024-01-15"},
		{"Jan 15, 2024", true, "2024-01-15"},
		{"15 Jan 2024", true, "2024-01-15"},
		{"20240115", true, "2024-01-15"},
		{"1/15/24", true, "2024-01-15"},
		{"", false, ""},
		{"yesterday", false, ""},
		{"2024-13-01", false, ""},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.input)
		if ok != tt.wantValid {
			t.Errorf("ParseDate(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			continue
		}
		if ok && got.Format(time.DateOnly) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format(time.DateOnly), tt.want)
		}
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	// A year far enough ahead falls into the previous century.
	future := time.Now().Year() + TwoDigitYearPivot + 1
	input := "1/1/" + time.Date(future, 1, 1, 0, 0, 0, 0, time.UTC).Format("06")

	got, ok := ParseDate(input)
	if !ok {
		t.Fatalf("ParseDate(%q) invalid", input)
	}
	if got.Year() != future-100 {
		t.Errorf("ParseDate(%q) year = %d, want %d", input, got.Year(), future-100)
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  plain  ", "plain"},
		{`="0012"`, "0012"},
		{"=SUM", "SUM"},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
