package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a date or time string that could not be interpreted.
// Callers must treat it as "duration unavailable", never as zero elapsed time.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q", e.Field, e.Value)
}

// ParseDateTime combines the date and time strings the dashboard and the
// customer app send into one instant. Dates arrive as DD-MM-YYYY or
// YYYY-MM-DD, times as 12-hour "H:MM AM/PM" or 24-hour "HH:MM[:SS]".
// Strings are interpreted in the server's local zone; the vendor's dashboard
// and the lot are co-located.
func ParseDateTime(dateStr, timeStr string) (time.Time, error) {
	return ParseDateTimeIn(dateStr, timeStr, time.Local)
}

// ParseDateTimeIn is ParseDateTime with an explicit location.
func ParseDateTimeIn(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	year, month, day, err := parseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	hour, min, sec, err := parseClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, loc), nil
}

func parseDate(s string) (year, month, day int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, &ParseError{Field: "date", Value: s}
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, &ParseError{Field: "date", Value: s}
	}
	first, errFirst := strconv.Atoi(parts[0])
	mid, errMid := strconv.Atoi(parts[1])
	last, errLast := strconv.Atoi(parts[2])
	if errFirst != nil || errMid != nil || errLast != nil {
		return 0, 0, 0, &ParseError{Field: "date", Value: s}
	}
	// A 4-digit leading segment means YYYY-MM-DD, anything else DD-MM-YYYY.
	if len(parts[0]) == 4 {
		return first, mid, last, nil
	}
	return last, mid, first, nil
}

func parseClock(s string) (hour, min, sec int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		// Bookings recorded without a time count from midnight.
		return 0, 0, 0, nil
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	for _, m := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, m) {
			meridiem = m
			upper = strings.TrimSpace(strings.TrimSuffix(upper, m))
			break
		}
	}

	parts := strings.Split(upper, ":")
	hour, convErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	if convErr != nil {
		return 0, 0, 0, &ParseError{Field: "time", Value: s}
	}
	// Partial inputs like "1 PM" carry no minute component; count from the
	// top of the hour instead of failing.
	if len(parts) > 1 {
		if v, convErr := strconv.Atoi(strings.TrimSpace(parts[1])); convErr == nil {
			min = v
		}
	}
	if len(parts) > 2 && meridiem == "" {
		if v, convErr := strconv.Atoi(strings.TrimSpace(parts[2])); convErr == nil {
			sec = v
		}
	}

	switch meridiem {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, min, sec, nil
}
