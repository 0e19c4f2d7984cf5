package scheduler

import (
	"fmt"
	"time"

	"github.com/tserv/shift-control/pkg/models"
)

// Span returns the absolute start and end of a shift. A shift whose end is not
// after its start runs into the next calendar day.
func Span(shift models.Shift) (start, end time.Time, err error) {
	start, err = Combine(shift.Date, shift.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift %d start: %w", shift.ID, err)
	}
	end, err = Combine(shift.Date, shift.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift %d end: %w", shift.ID, err)
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// StatusAt classifies the shift relative to now
func StatusAt(shift models.Shift, now time.Time) (models.ShiftStatus, error) {
	start, end, err := Span(shift)
	if err != nil {
		return "", err
	}
	switch {
	case now.Before(start):
		return models.ShiftPending, nil
	case now.After(end):
		return models.ShiftEnded, nil
	default:
		return models.ShiftActive, nil
	}
}

// View decorates a shift with its status at now
func View(shift models.Shift, now time.Time) (models.ShiftView, error) {
	status, err := StatusAt(shift, now)
	if err != nil {
		return models.ShiftView{}, err
	}
	return models.ShiftView{Shift: shift, Computed: status, StatusLabel: status.Label()}, nil
}

// Views decorates every shift of the roster, keeping order
func Views(roster []models.Shift, now time.Time) ([]models.ShiftView, error) {
	out := make([]models.ShiftView, 0, len(roster))
	for _, sh := range roster {
		v, err := View(sh, now)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
