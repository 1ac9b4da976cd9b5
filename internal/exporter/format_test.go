package exporter

import (
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCell_Currency(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "two fraction digits with comma separator",
			input:    1234.5,
			expected: "1234,50",
		},
		{
			name:     "nil renders zero",
			input:    nil,
			expected: "0,00",
		},
		{
			name:     "negative keeps sign",
			input:    -3.0,
			expected: "-3,00",
		},
		{
			name:     "integer input",
			input:    7,
			expected: "7,00",
		},
		{
			name:     "non-numeric string degrades to zero",
			input:    "kaputt",
			expected: "0,00",
		},
		{
			name:     "numeric string still degrades to zero",
			input:    "12.5",
			expected: "0,00",
		},
		{
			name:     "no thousands grouping",
			input:    1234567.89,
			expected: "1234567,89",
		},
		{
			name:     "rounding to two digits",
			input:    0.005,
			expected: "0,01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.input, TypeCurrency))
		})
	}
}

func TestFormatCell_Date(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "german day-month-year ordering",
			input:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			expected: "05.01.2024",
		},
		{
			name:     "time of day is not displayed",
			input:    time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			expected: "31.12.2023",
		},
		{
			name:     "nil renders empty",
			input:    nil,
			expected: "",
		},
		{
			name:     "zero time renders empty",
			input:    time.Time{},
			expected: "",
		},
		{
			name:     "non-date value renders empty",
			input:    "2024-01-05",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.input, TypeDate))
		})
	}
}

func TestFormatCell_TextEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "Kaffeemaschine",
			expected: "Kaffeemaschine",
		},
		{
			name:     "semicolon triggers quoting",
			input:    "a;b",
			expected: `"a;b"`,
		},
		{
			name:     "inner quotes are doubled",
			input:    `Marke "Premium"`,
			expected: `"Marke ""Premium"""`,
		},
		{
			name:     "newline triggers quoting",
			input:    "Zeile1\nZeile2",
			expected: "\"Zeile1\nZeile2\"",
		},
		{
			name:     "carriage return triggers quoting",
			input:    "a\rb",
			expected: "\"a\rb\"",
		},
		{
			name:     "nil renders empty",
			input:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.input, TypeText))
		})
	}
}

// Escaped values must survive a round trip through a standard CSV parser
// configured for the semicolon dialect.
func TestFormatCell_EscapingRoundTrip(t *testing.T) {
	values := []string{
		"a;b",
		`er sagte "hallo"`,
		"mehr;\"zeug\"\nneue Zeile",
		"plain",
		`;";"`,
	}

	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			line := FormatCell(value, TypeText)

			reader := csv.NewReader(strings.NewReader(line))
			reader.Comma = ';'
			fields, err := reader.Read()
			require.NoError(t, err)
			require.Len(t, fields, 1)
			assert.Equal(t, value, fields[0])
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "float passes through", input: 12.5, expected: 12.5},
		{name: "int converts", input: 42, expected: 42},
		{name: "int64 converts", input: int64(-7), expected: -7},
		{name: "uint converts", input: uint(3), expected: 3},
		{name: "numeric string parses", input: "19.99", expected: 19.99},
		{name: "padded numeric string parses", input: " 5 ", expected: 5},
		{name: "garbage string is zero", input: "abc", expected: 0},
		{name: "nil is zero", input: nil, expected: 0},
		{name: "bool is zero", input: true, expected: 0},
		{name: "NaN is zero", input: math.NaN(), expected: 0},
		{name: "positive infinity is zero", input: math.Inf(1), expected: 0},
		{name: "negative infinity is zero", input: math.Inf(-1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceNumber(tt.input))
		})
	}
}
