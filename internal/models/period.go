package models

import "strings"

// Months are the billing month names in calendar order
var Months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

const (
	MinBillingYear = 2000
	MaxBillingYear = 2100
)

// NormalizeMonth lower-cases and trims a month name
func NormalizeMonth(month string) string {
	return strings.ToLower(strings.TrimSpace(month))
}

// MonthIndex returns 1..12 for a valid month name, 0 otherwise
func MonthIndex(month string) int {
	m := NormalizeMonth(month)
	for i, name := range Months {
		if name == m {
			return i + 1
		}
	}
	return 0
}

// ValidPeriod reports whether (month, year) is a billable period
func ValidPeriod(month string, year int) bool {
	return MonthIndex(month) > 0 && year >= MinBillingYear && year <= MaxBillingYear
}
