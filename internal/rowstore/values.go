package rowstore

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// The accessors below never fail: the sheets are hand-edited, so anything
// that does not parse reads as zero / empty. Each accepts candidate column
// names and uses the first non-blank one.

// String returns the trimmed value of the first non-blank column.
func (r Row) String(cols ...string) string {
	_, v := r.first(cols)
	return v
}

func (r Row) first(cols []string) (string, string) {
	for _, col := range cols {
		if v := strings.TrimSpace(r.Values[col]); v != "" {
			return col, v
		}
	}
	return "", ""
}

// Int reads an integer, accepting float strings like "1.0" and "1,200".
func (r Row) Int(cols ...string) int {
	v, _ := r.OptionalInt(cols...)
	return v
}

// OptionalInt is Int plus whether a parseable value was present at all.
// Fractions are truncated toward zero and logged.
func (r Row) OptionalInt(cols ...string) (int, bool) {
	col, value := r.first(cols)
	raw := normalizeNumber(value)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if f != math.Trunc(f) {
		log.Warn().
			Int("row", r.Index).
			Str("column", col).
			Str("value", value).
			Msg("rowstore: fractional count truncated")
	}
	return int(f), true
}

// Decimal reads a money amount.
func (r Row) Decimal(cols ...string) decimal.Decimal {
	raw := normalizeNumber(r.String(cols...))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bool reads a checkbox-ish flag.
func (r Row) Bool(cols ...string) bool {
	switch strings.ToLower(r.String(cols...)) {
	case "1", "true", "yes", "y", "✓", "ใช่":
		return true
	}
	return false
}

func normalizeNumber(raw string) string {
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.TrimPrefix(raw, "฿")
	return raw
}

// FormatInt renders an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatDecimal renders a money cell without trailing zeros.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
