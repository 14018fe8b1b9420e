// Package timeutil provides the pure time-of-day and date arithmetic the
// scheduling engine is built on. All functions are deterministic and
// side-effect free.
package timeutil

import (
	"strconv"
	"time"

	"github.com/bookline/bookline/pkg/apperr"
)

const (
	// DateLayout is the canonical wire format for dates.
	DateLayout = "2006-01-02"
	// MinutesPerDay bounds a same-day time-of-day value.
	MinutesPerDay = 24 * 60
)

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Round-trips exactly with FormatClock for valid inputs.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, apperr.New(apperr.KindInvalidFormat, "invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, apperr.New(apperr.KindInvalidFormat, "invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, apperr.New(apperr.KindInvalidFormat, "invalid minute in %q", s)
	}
	if hour < 0 || hour > 23 {
		return 0, apperr.New(apperr.KindInvalidFormat, "hour out of range in %q", s)
	}
	if minute < 0 || minute > 59 {
		return 0, apperr.New(apperr.KindInvalidFormat, "minute out of range in %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock converts minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ParseDate parses a "YYYY-MM-DD" string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, apperr.New(apperr.KindInvalidFormat, "invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// NormalizeDate renders t as a canonical "YYYY-MM-DD" string in loc.
// The conversion goes through the business timezone so an instant near
// midnight never shifts to the wrong calendar day.
func NormalizeDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Overlaps reports whether the half-open minute intervals [s1,e1) and
// [s2,e2) intersect. Adjacent intervals do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// AtMinutes returns the instant minutes past midnight on the calendar day
// of date, interpreted in loc.
func AtMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minutes, 0, 0, loc)
}
