package domain

import (
	"regexp"
	"time"
)

const isoDate = "2006-01-02"

var clientDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// ParseClientDate accepts a calendar date written MM-DD-YYYY and returns it
// as YYYY-MM-DD. Impossible dates such as 02-30-2025 are rejected.
func ParseClientDate(s string) (string, bool) {
	if !clientDatePattern.MatchString(s) {
		return "", false
	}
	t, err := time.Parse("01-02-2006", s)
	if err != nil {
		return "", false
	}
	return t.Format(isoDate), true
}

// previousDay returns the YYYY-MM-DD date before isoDay.
func previousDay(isoDay string) string {
	t, err := time.Parse(isoDate, isoDay)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(isoDate)
}
