package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fleetops/dashboard/internal/models"

	"github.com/xuri/excelize/v2"
)

// Excel serials outside this range are not dates (max is 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01-02-06",
}

// parseNumber accepts plain floats and pt-BR formatted amounts such as "R$ 1.234,50".
// When both separators appear the last one is the decimal point. A separator
// repeated on its own ("1.234.567") groups thousands. A single lone separator is
// read as a decimal point, so "1.234" is 1.234 and "1,5" is 1.5: raw numeric
// cells arrive with a dot decimal and must not be rescaled.
func parseNumber(raw string) models.Number {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" || s == "-" {
		return models.Number{}
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Number{}
	}
	return models.Num(f)
}

// parseAmount is parseNumber restricted to non-negative values.
func parseAmount(raw string) models.Number {
	n := parseNumber(raw)
	if n.Valid && n.Value < 0 {
		return models.Number{}
	}
	return n
}

// parseID accepts integral numbers only ("12" or "12.0").
func parseID(raw string) (int, bool) {
	n := parseNumber(raw)
	if !n.Valid || n.Value != math.Trunc(n.Value) {
		return 0, false
	}
	return int(n.Value), true
}

// parseDate coerces an Excel serial or a textual date. Unparsable values yield nil.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < minExcelSerial || f > maxExcelSerial {
			return nil
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return nil
		}
		t = t.Round(time.Second)
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func cleanText(raw string) string {
	return strings.TrimSpace(raw)
}
