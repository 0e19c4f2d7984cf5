package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
)

var errNoAssignee = errors.New("user_id or user_ids is required")

// shiftRequest is the operator's shift form; UserIDs creates one shift per user
type shiftRequest struct {
	Date      string           `json:"date" binding:"required"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	ShiftType models.ShiftType `json:"shift_type" binding:"required"`
	UserID    int              `json:"user_id"`
	UserIDs   []int            `json:"user_ids"`
	Notes     string           `json:"notes"`
}

// normalize validates the form and expands it into upstream payloads.
// Missing times fall back to the canonical hours of the shift type.
func (r shiftRequest) normalize() ([]models.CreateShift, error) {
	if _, err := scheduler.ParseDate(r.Date); err != nil {
		return nil, err
	}
	if !r.ShiftType.IsValid() {
		return nil, fmt.Errorf("%w: %q", scheduler.ErrUnknownShiftType, r.ShiftType)
	}

	defStart, defEnd, err := scheduler.CanonicalTimes(r.ShiftType)
	if err != nil {
		return nil, err
	}
	start, err := clockOr(r.StartTime, defStart)
	if err != nil {
		return nil, err
	}
	end, err := clockOr(r.EndTime, defEnd)
	if err != nil {
		return nil, err
	}

	users := r.UserIDs
	if len(users) == 0 && r.UserID > 0 {
		users = []int{r.UserID}
	}
	if len(users) == 0 {
		return nil, errNoAssignee
	}

	out := make([]models.CreateShift, 0, len(users))
	seen := make(map[int]bool, len(users))
	for _, id := range users {
		if id <= 0 {
			return nil, fmt.Errorf("invalid user id %d", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, models.CreateShift{
			Date:      r.Date,
			StartTime: start,
			EndTime:   end,
			ShiftType: r.ShiftType,
			UserID:    id,
			Notes:     r.Notes,
		})
	}
	return out, nil
}

func clockOr(value, fallback string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	h, m, err := scheduler.ParseClock(value)
	if err != nil {
		return "", err
	}
	return scheduler.FormatClock(h, m), nil
}

// ValidateShift checks a shift form without sending it upstream
func (h *Handler) ValidateShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	shifts, err := req.normalize()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"shifts": shifts,
	})
}
