package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the civil date format used by the roster API
	DateLayout = "2006-01-02"
	mskOffset  = 3 * 60 * 60
)

// MSK is the fixed UTC+3 zone all wall-clock shift times are read in.
// Moscow has no daylight saving, so a fixed offset is enough.
var MSK = time.FixedZone("MSK", mskOffset)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current instant
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }

// CurrentInstant returns the clock's reading, falling back to the wall clock
func CurrentInstant(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}

// CivilDate returns the YYYY-MM-DD date of the instant in Moscow time
func CivilDate(instant time.Time) string {
	return instant.UTC().Add(mskOffset * time.Second).Format(DateLayout)
}

// ParseDate parses a civil date as midnight Moscow time
func ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), MSK)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

// ParseClock parses "HH:MM" (also "H:MM" and "HH:MM:SS") into hour and minute
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q", ErrInvalidTime, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q", ErrInvalidTime, s)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, 0, fmt.Errorf("%w: second in %q", ErrInvalidTime, s)
		}
	}
	return hour, minute, nil
}

// FormatClock renders hour and minute as HH:MM
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Combine returns the instant of the civil date and wall-clock time in Moscow time
func Combine(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, MSK), nil
}

// AddDays shifts a civil date by n calendar days
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}
