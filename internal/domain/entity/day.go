package entity

import (
	"strings"
	"time"
)

// DayLayout is the wire format of a calendar day
const DayLayout = "2006-01-02"

// StartOfDay truncates t to the server's local midnight.
// The result is the partition key of an attendance record.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// NextDay returns the local midnight following day
func NextDay(day time.Time) time.Time {
	y, m, d := StartOfDay(day).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.Local)
}

// ParseDay accepts YYYY-MM-DD (local) or an RFC 3339 timestamp and
// normalizes it to local midnight. field names the input in the error.
func ParseDay(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewValidationError(field, "is required")
	}
	if t, err := time.ParseInLocation(DayLayout, value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return StartOfDay(t), nil
	}
	return time.Time{}, NewValidationError(field, "must be a date in YYYY-MM-DD format")
}

// FormatDay renders a day key as YYYY-MM-DD in local time
func FormatDay(day time.Time) string {
	return day.In(time.Local).Format(DayLayout)
}
