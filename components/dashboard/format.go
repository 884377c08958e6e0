package dashboard

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// formatNumber groups thousands and keeps up to two decimals ("24,560", "1,466.25").
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return numberPrinter.Sprintf("%d", int64(v))
	}
	out := numberPrinter.Sprintf("%.2f", v)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
	}
	return out
}

// formatRupees prefixes a grouped amount with the rupee sign.
func formatRupees(v float64) string {
	return "₹" + formatNumber(v)
}
