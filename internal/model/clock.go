package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date form used everywhere in the database.
	DateLayout = "2006-01-02"
	// TimeLayout is the zero-padded 24-hour wall-clock form.
	TimeLayout = "15:04"
)

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(value string) error {
	if _, err := time.ParseInLocation(DateLayout, value, time.Local); err != nil {
		return invalidField("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", value))
	}
	return nil
}

// ParseMinutes converts a zero-padded "HH:MM" wall-clock string to minutes
// since midnight. Malformed input is a validation error, not a guess.
func ParseMinutes(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, invalidField("time", fmt.Sprintf("%q is not an HH:MM time", value))
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, invalidField("time", fmt.Sprintf("%q is not an HH:MM time", value))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, invalidField("time", fmt.Sprintf("%q is not an HH:MM time", value))
	}
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight back to "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDate renders a time as a calendar date in local wall-clock terms.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
