package fieldservice

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/06, 15:04")
}

// formatEuro writes amounts the pt-PT way: "1234,50 €", "12 345,00 €".
// Grouping starts at five integer digits.
func formatEuro(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}

	fixed := d.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	whole, cents, _ := strings.Cut(fixed, ".")

	if len(whole) > 4 {
		var b strings.Builder
		for i, r := range whole {
			if i > 0 && (len(whole)-i)%3 == 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
		}
		whole = b.String()
	}

	out := whole + "," + cents + " €"
	if negative {
		out = "-" + out
	}
	return out
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
