package pkg

import (
	"strings"
	"time"
)

// DateOnly strips any time or timezone suffix from a date string,
// leaving the YYYY-MM-DD part. Avoids timezone-shift bugs where a date
// stored with an offset resolves to the wrong calendar day.
func DateOnly(s string) string {
	s, _, _ = strings.Cut(s, "T")
	s, _, _ = strings.Cut(s, " ")
	return s
}

// FormatDate returns t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
