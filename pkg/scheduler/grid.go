package scheduler

import (
	"encoding/json"
	"fmt"
	"time"
)

// GridCells is the number of cells in a six-week month view
const GridCells = 42

// Grid is a Monday-first month layout. Zero marks a blank cell.
type Grid [GridCells]int

// MarshalJSON encodes blank cells as null
func (g Grid) MarshalJSON() ([]byte, error) {
	cells := make([]*int, GridCells)
	for i := range g {
		if g[i] != 0 {
			day := g[i]
			cells[i] = &day
		}
	}
	return json.Marshal(cells)
}

// Weeks splits the grid into six rows of seven days
func (g Grid) Weeks() [6][7]int {
	var weeks [6][7]int
	for i, day := range g {
		weeks[i/7][i%7] = day
	}
	return weeks
}

// BuildMonthGrid lays out the month with leading blanks up to its first weekday
// and trailing blanks up to 42 cells
func BuildMonthGrid(year int, month time.Month) Grid {
	var g Grid
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7
	days := DaysInMonth(year, month)
	for day := 1; day <= days; day++ {
		g[lead+day-1] = day
	}
	return g
}

// DaysInMonth returns the number of days in the month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}

// ShiftMonth moves a month by delta months
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

// MonthKey formats a month as "YYYY-MM"
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// DateOf formats a day of the month as a civil date
func DateOf(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}
