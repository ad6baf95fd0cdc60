package appointment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrMalformedTime = errors.New("time must match \"hh:mm AM|PM\"")
	ErrMalformedDate = errors.New("date must match \"YYYY-MM-DD\"")
)

var (
	time12Re = regexp.MustCompile(`^(0[1-9]|1[0-2]):([0-5][0-9]) (AM|PM)$`)
	time24Re = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
)

const dateLayout = "2006-01-02"

// To24Hour converts a zero-padded 12-hour clock string ("02:30 PM") to
// 24-hour form ("14:30"). Hour 12 maps to 00 for AM and stays 12 for PM.
func To24Hour(t12 string) (string, error) {
	m := time12Re.FindStringSubmatch(t12)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTime, t12)
	}

	hour, _ := strconv.Atoi(m[1])
	if m[3] == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%s", hour, m[2]), nil
}

// To12Hour is the inverse of To24Hour. For every valid 12-hour string t,
// To12Hour(To24Hour(t)) == t.
func To12Hour(t24 string) (string, error) {
	m := time24Re.FindStringSubmatch(t24)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTime, t24)
	}

	hour, _ := strconv.Atoi(m[1])
	marker := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		marker = "PM"
	case hour > 12:
		hour -= 12
		marker = "PM"
	}

	return fmt.Sprintf("%02d:%s %s", hour, m[2], marker), nil
}

// ComputeScheduledAt derives the scheduling instant from the stored date and
// 12-hour time strings, interpreted in local time.
func ComputeScheduledAt(date, t12 string) (time.Time, error) {
	t24, err := To24Hour(t12)
	if err != nil {
		return time.Time{}, err
	}

	at, err := time.ParseInLocation(dateLayout+"T15:04", date+"T"+t24, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, date)
	}
	return at, nil
}

// sameCalendarDay compares two stored date strings as calendar days. When
// either fails to parse the raw strings are compared instead, which matches
// the exact-slot semantics used for conflict detection.
func sameCalendarDay(a, b string) bool {
	da, errA := time.Parse(dateLayout, a)
	db, errB := time.Parse(dateLayout, b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}
