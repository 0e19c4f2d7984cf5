package scheduler

import (
	"fmt"

	"github.com/tserv/shift-control/pkg/models"
)

// Successor finds the shift that takes over from the given one: the night shift
// of the same date after a day shift, the day shift of the next date after a
// night shift. The first match in roster order wins.
func Successor(from models.Shift, roster []models.Shift) (models.Shift, bool, error) {
	targetDate, targetType, err := successorSlot(from)
	if err != nil {
		return models.Shift{}, false, err
	}
	for _, sh := range roster {
		if sh.Date == targetDate && sh.ShiftType == targetType {
			return sh, true, nil
		}
	}
	return models.Shift{}, false, nil
}

func successorSlot(from models.Shift) (string, models.ShiftType, error) {
	switch from.ShiftType {
	case models.ShiftTypeDay:
		if _, err := ParseDate(from.Date); err != nil {
			return "", "", fmt.Errorf("shift %d: %w", from.ID, err)
		}
		return from.Date, models.ShiftTypeNight, nil
	case models.ShiftTypeNight:
		next, err := AddDays(from.Date, 1)
		if err != nil {
			return "", "", fmt.Errorf("shift %d: %w", from.ID, err)
		}
		return next, models.ShiftTypeDay, nil
	}
	return "", "", fmt.Errorf("shift %d: unknown shift type %q", from.ID, from.ShiftType)
}

// FindByID returns the roster shift with the given id
func FindByID(roster []models.Shift, id int) (models.Shift, bool) {
	for _, sh := range roster {
		if sh.ID == id {
			return sh, true
		}
	}
	return models.Shift{}, false
}
