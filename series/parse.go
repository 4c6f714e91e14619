package series

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-sales-forecaster/ledger"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
}

// excel serial days for 1900-01-01 and 9999-12-31
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate parses an order date cell into a UTC calendar date. Excel serial day numbers
// are accepted for workbooks that store raw date values.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q, %w", s, ledger.ErrMalformedInput)
}

// ParseSales parses a sales amount tolerating a currency sign and thousands separators
func ParseSales(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable sales amount %q, %w", s, ledger.ErrMalformedInput)
	}
	return val, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
