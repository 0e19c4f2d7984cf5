package scheduler

import (
	"sort"
	"time"

	"github.com/tserv/shift-control/pkg/models"
)

// DayBounds returns the first and last second of a civil date in Moscow time
func DayBounds(date string) (time.Time, time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, d.Add(24*time.Hour - time.Second), nil
}

// Intersects checks if two closed time ranges share at least one instant
func Intersects(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !aStart.After(bEnd)
}

// OnDay returns the shifts that cover any part of the given day, including
// night shifts that started the previous evening. Roster order is kept.
func OnDay(date string, roster []models.Shift) ([]models.Shift, error) {
	windowStart, windowEnd, err := DayBounds(date)
	if err != nil {
		return nil, err
	}
	out := []models.Shift{}
	for _, sh := range roster {
		start, end, err := Span(sh)
		if err != nil {
			return nil, err
		}
		if Intersects(start, end, windowStart, windowEnd) {
			out = append(out, sh)
		}
	}
	return out, nil
}

// ScheduledOn returns the shifts whose nominal date is the given date
func ScheduledOn(date string, roster []models.Shift) []models.Shift {
	out := []models.Shift{}
	for _, sh := range roster {
		if sh.Date == date {
			out = append(out, sh)
		}
	}
	return out
}

// SortDayFirst orders day shifts before night shifts, otherwise keeping order
func SortDayFirst(shifts []models.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].ShiftType == models.ShiftTypeDay && shifts[j].ShiftType == models.ShiftTypeNight
	})
}
