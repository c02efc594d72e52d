// Package money formats revenue figures for display. Values are rounded to
// cents here and nowhere else.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders v as dollars with thousands separators, e.g. $1,234.56 and $-6.25.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("$%v", v)
	}

	d := cents(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return "$" + sign + groupThousands(whole) + "." + frac
}

// Percent renders a discount percentage with two decimals, e.g. 12.50 %.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v %%", v)
	}
	return cents(v).StringFixed(2) + " %"
}

// cents rounds the exact binary value of v, so 2.675 (stored as
// 2.67499...) becomes 2.67 and an exact tie such as 0.125 goes to even.
func cents(v float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', 2, 64))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
