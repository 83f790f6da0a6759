package http

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"paisa/internal/core"
)

var thousand = decimal.NewFromInt(1000)

// formatRupees formats cents with Indian digit grouping, e.g. "₹1,23,456.50".
// Whole amounts drop the paise: "₹500".
func formatRupees(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "₹" + groupIndian(strconv.FormatInt(cents/100, 10))
	if rem := cents % 100; rem != 0 {
		s += "." + strconv.FormatInt(rem/10, 10) + strconv.FormatInt(rem%10, 10)
	}
	if neg {
		return "-" + s
	}
	return s
}

// groupIndian inserts separators after the last three digits and then
// every two digits: 1234567 becomes 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// formatCompact renders whole thousands of rupees, e.g. "₹12k".
func formatCompact(cents int64) string {
	k := decimal.New(cents, -2).Div(thousand).Round(0)
	if k.IsNegative() {
		return "-₹" + k.Neg().String() + "k"
	}
	return "₹" + k.String() + "k"
}

// formatDecimalRupees formats a currency-unit decimal rounded to paise.
func formatDecimalRupees(d decimal.Decimal) string {
	return formatRupees(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// templateFuncs are available to every embedded template.
var templateFuncs = template.FuncMap{
	"rupees":        func(m core.Money) string { return formatRupees(m.Cents) },
	"compact":       func(m core.Money) string { return formatCompact(m.Cents) },
	"decimalRupees": formatDecimalRupees,
	"percent":       formatPercent,
	"negative":      func(m core.Money) bool { return m.Cents < 0 },
	"barWidth": func(p float64) int {
		w := int(p + 0.5)
		if p > 0 && w < 2 {
			w = 2
		}
		if w > 100 {
			w = 100
		}
		return w
	},
}
