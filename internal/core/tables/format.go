package tables

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/tableview"
)

const placeholder = "—"

func toDecimal(v any) (decimal.Decimal, bool) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Decimal{}, false
		}
		return *d, true
	}
	return decimal.Decimal{}, false
}

// groupThousands inserts commas into the integer part of a fixed-point
// string: "-1234567.50" -> "-1,234,567.50".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// money renders an amount with two decimals followed by the row's currency.
// Negative amounts are tinted; a nil amount renders as a muted dash.
func money(currencyField string) tableview.Formatter {
	return func(v any, row tableview.Row) tableview.Content {
		d, ok := toDecimal(v)
		if !ok {
			return tableview.Content{Text: placeholder, Tone: tableview.ToneMuted}
		}
		text := groupThousands(d.StringFixed(2))
		if cur, _ := row[currencyField].(string); cur != "" {
			text += " " + cur
		}
		tone := tableview.ToneDefault
		if d.IsNegative() {
			tone = tableview.ToneDanger
		}
		return tableview.Content{Text: text, Tone: tone}
	}
}

// percent renders a rate such as 1.5 as "1.50%".
func percent(v any, _ tableview.Row) tableview.Content {
	d, ok := toDecimal(v)
	if !ok {
		return tableview.Content{Text: placeholder, Tone: tableview.ToneMuted}
	}
	return tableview.Content{Text: d.StringFixed(2) + "%"}
}

// badge renders a status with a tone per value. Unknown values use the
// default tone.
func badge(tones map[string]tableview.Tone) tableview.Formatter {
	return func(v any, _ tableview.Row) tableview.Content {
		s := tableview.FormatValue(v)
		return tableview.Content{Text: s, Tone: tones[s]}
	}
}

// optional renders empty values as a muted dash.
func optional(v any, _ tableview.Row) tableview.Content {
	s := tableview.FormatValue(v)
	if s == "" {
		return tableview.Content{Text: placeholder, Tone: tableview.ToneMuted}
	}
	return tableview.Content{Text: s}
}

// yesNo renders booleans.
func yesNo(v any, _ tableview.Row) tableview.Content {
	if b, _ := v.(bool); b {
		return tableview.Content{Text: "Yes", Tone: tableview.ToneSuccess}
	}
	return tableview.Content{Text: "No", Tone: tableview.ToneMuted}
}
