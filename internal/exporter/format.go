package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceNumber converts an arbitrary value to a float64, defaulting to 0 for
// anything non-numeric, NaN or infinite. Numeric strings are parsed. This is
// the single place where loose input is normalized to a number.
func CoerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// formatNumber renders a number the German way: exactly two fraction digits
// and a comma as the decimal separator, no thousands grouping.
func formatNumber(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', 2, 64), ".", ",", 1)
}

// formatDate renders a calendar date as dd.MM.yyyy.
func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// escapeValue applies the CSV escaping rule for the semicolon dialect: values
// containing the delimiter, a double quote or a line break are wrapped in
// double quotes with inner quotes doubled.
func escapeValue(value string) string {
	if strings.ContainsAny(value, ";\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// isNumeric reports whether the value is a genuine numeric type. Numeric
// strings do not count; they are a storage concern handled by CoerceNumber.
func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// FormatCell converts one typed field value into its cell representation.
// It is total: unexpected types degrade to the empty or zero rendering
// instead of failing.
func FormatCell(value any, columnType ColumnType) string {
	if value == nil {
		if columnType == TypeCurrency || columnType == TypeNumber {
			return "0,00"
		}
		return ""
	}

	switch columnType {
	case TypeDate:
		if t, ok := value.(time.Time); ok && !t.IsZero() {
			return formatDate(t)
		}
		return ""
	case TypeCurrency, TypeNumber:
		if !isNumeric(value) {
			return "0,00"
		}
		return formatNumber(CoerceNumber(value))
	default:
		return escapeValue(stringify(value))
	}
}

// stringify renders a value as text without panicking on odd types.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
