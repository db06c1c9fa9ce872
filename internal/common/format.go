package common

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatMoney renders a BRL amount, e.g. "R$ 1.234,56".
func FormatMoney(v float64) string {
	return "R$ " + ptBR.Sprintf("%.2f", v)
}

// FormatNumber renders an integer-rounded quantity with thousands separators, e.g. "1.234".
func FormatNumber(v float64) string {
	return ptBR.Sprintf("%.0f", v)
}

// FormatFloat renders v with a fixed number of decimals and a dot separator.
func FormatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatDate renders a day as dd/mm/yyyy; nil renders empty.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
