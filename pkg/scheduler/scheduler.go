package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tserv/shift-control/pkg/models"
)

// ErrUnknownShiftType is returned for shift types other than day and night
var ErrUnknownShiftType = errors.New("unknown shift type")

// Scheduler answers roster questions against one snapshot and one clock reading
type Scheduler struct {
	Shifts []models.Shift
	// Malformed maps the ids of shifts left out of Shifts to their parse errors
	Malformed map[int]error
	now       time.Time
}

// NewScheduler creates a new scheduler over a roster snapshot. Shifts whose
// date or times do not parse are set aside in Malformed.
func NewScheduler(shifts []models.Shift, clock Clock) *Scheduler {
	valid, malformed := Screen(shifts)
	return &Scheduler{
		Shifts:    valid,
		Malformed: malformed,
		now:       CurrentInstant(clock),
	}
}

// Screen splits a roster into the shifts with a computable span, in roster
// order, and the parse errors of the rest keyed by shift id
func Screen(roster []models.Shift) ([]models.Shift, map[int]error) {
	valid := make([]models.Shift, 0, len(roster))
	malformed := map[int]error{}
	for _, sh := range roster {
		if _, _, err := Span(sh); err != nil {
			malformed[sh.ID] = err
			continue
		}
		valid = append(valid, sh)
	}
	return valid, malformed
}

// Now returns the instant the scheduler evaluates against
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Today returns the current civil date in Moscow time
func (s *Scheduler) Today() string {
	return CivilDate(s.now)
}

// Views returns the roster decorated with statuses
func (s *Scheduler) Views() ([]models.ShiftView, error) {
	return Views(s.Shifts, s.now)
}

// ActiveShift returns the first shift in roster order that is active now
func (s *Scheduler) ActiveShift() (models.Shift, bool, error) {
	for _, sh := range s.Shifts {
		status, err := StatusAt(sh, s.now)
		if err != nil {
			return models.Shift{}, false, err
		}
		if status == models.ShiftActive {
			return sh, true, nil
		}
	}
	return models.Shift{}, false, nil
}

// ActiveShifts returns every shift active now
func (s *Scheduler) ActiveShifts() ([]models.Shift, error) {
	out := []models.Shift{}
	for _, sh := range s.Shifts {
		status, err := StatusAt(sh, s.now)
		if err != nil {
			return nil, err
		}
		if status == models.ShiftActive {
			out = append(out, sh)
		}
	}
	return out, nil
}

// Upcoming returns shifts dated today or tomorrow that have not started yet,
// earliest first, at most limit of them
func (s *Scheduler) Upcoming(limit int) ([]models.Shift, error) {
	today := s.Today()
	tomorrow, err := AddDays(today, 1)
	if err != nil {
		return nil, err
	}

	type startedShift struct {
		shift models.Shift
		start time.Time
	}
	var future []startedShift
	for _, sh := range s.Shifts {
		if sh.Date != today && sh.Date != tomorrow {
			continue
		}
		start, err := Combine(sh.Date, sh.StartTime)
		if err != nil {
			return nil, fmt.Errorf("shift %d start: %w", sh.ID, err)
		}
		if start.After(s.now) {
			future = append(future, startedShift{sh, start})
		}
	}
	sort.SliceStable(future, func(i, j int) bool {
		return future[i].start.Before(future[j].start)
	})

	if limit > 0 && len(future) > limit {
		future = future[:limit]
	}
	out := make([]models.Shift, 0, len(future))
	for _, f := range future {
		out = append(out, f.shift)
	}
	return out, nil
}

// OnToday returns the shifts covering any part of today
func (s *Scheduler) OnToday() ([]models.Shift, error) {
	return OnDay(s.Today(), s.Shifts)
}

// Successor finds the shift taking over from the given one in this roster
func (s *Scheduler) Successor(from models.Shift) (models.Shift, bool, error) {
	return Successor(from, s.Shifts)
}

// CanonicalTimes returns the standard start and end of a shift type
func CanonicalTimes(t models.ShiftType) (start, end string, err error) {
	switch t {
	case models.ShiftTypeDay:
		return "09:00", "21:00", nil
	case models.ShiftTypeNight:
		return "21:00", "09:00", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownShiftType, t)
}

// ShiftLabel renders a shift as "<name> (<date> <start>-<end>)"
func ShiftLabel(shift models.Shift) string {
	return fmt.Sprintf("%s (%s %s-%s)", shift.UserName, shift.Date, shift.StartTime, shift.EndTime)
}
