package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FilingDateLayout is the date format the case-law backend expects for
// filing date filters.
const FilingDateLayout = "01/02/2006"

const isoDateLayout = "2006-01-02"

// ParseFilingDate parses a filing date in either the backend's
// MM/DD/YYYY form or ISO YYYY-MM-DD. Interpreters sometimes emit either.
func ParseFilingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", ErrInvalidInput)
	}
	if t, err := time.Parse(FilingDateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(isoDateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", value, ErrInvalidInput)
}

// FormatFilingDate renders a date in the backend's filter format. The
// zero value renders as empty, meaning no bound.
func FormatFilingDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(FilingDateLayout)
}

var (
	lastYearsPattern    = regexp.MustCompile(`(?:last|past)\s+(\d+)\s+years?`)
	lastYearsAltPattern = regexp.MustCompile(`(\d+)\s+(?:last|past)\s+years?`)
	yearRangePattern    = regexp.MustCompile(`(\d{4})\s*(?:to|-)\s*(\d{4})`)
	sinceYearPattern    = regexp.MustCompile(`(?:since|after|from)\s+(\d{4})`)
	beforeYearPattern   = regexp.MustCompile(`(?:before|until)\s+(\d{4})$`)
	bareYearPattern     = regexp.MustCompile(`^\d{4}$`)
)

// ParseDateExpression interprets a free-form date constraint such as
// "last 5 years", "2018 to 2022", "since 2020", "before 2015", a bare
// year, or an explicit date. Returns the filed-after and filed-before
// bounds; either may be zero when the expression leaves that side open.
func ParseDateExpression(expr string, now time.Time) (after, before time.Time, err error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return time.Time{}, time.Time{}, nil
	}

	m := lastYearsPattern.FindStringSubmatch(expr)
	if m == nil {
		m = lastYearsAltPattern.FindStringSubmatch(expr)
	}
	if m != nil {
		years, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, -years*365), now, nil
	}

	if m := yearRangePattern.FindStringSubmatch(expr); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		return yearStart(start), yearEnd(end), nil
	}

	if m := sinceYearPattern.FindStringSubmatch(expr); m != nil {
		year, _ := strconv.Atoi(m[1])
		return yearStart(year), now, nil
	}

	if m := beforeYearPattern.FindStringSubmatch(expr); m != nil {
		year, _ := strconv.Atoi(m[1])
		return time.Time{}, yearEnd(year), nil
	}

	if bareYearPattern.MatchString(expr) {
		year, _ := strconv.Atoi(expr)
		return yearStart(year), yearEnd(year), nil
	}

	if t, perr := ParseFilingDate(expr); perr == nil {
		return t, time.Time{}, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("unrecognized date expression %q: %w", expr, ErrInvalidInput)
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
