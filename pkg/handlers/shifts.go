package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
	"go.uber.org/zap"
)

const (
	defaultUpcoming = 5
	maxUpcoming     = 50
)

// snapshot loads the caller's roster and pins the clock for one request.
// Malformed shifts are logged and left out of every view.
func (h *Handler) snapshot(c *gin.Context) (*scheduler.Scheduler, bool) {
	shifts, err := h.Roster.Shifts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	s := scheduler.NewScheduler(shifts, h.Clock)
	for id, err := range s.Malformed {
		h.Logger.Warn("skipping malformed shift",
			zap.Int("shift_id", id),
			zap.String("request_id", c.GetString("requestID")),
			zap.Error(err))
	}
	return s, true
}

func (h *Handler) views(c *gin.Context, shifts []models.Shift, s *scheduler.Scheduler) ([]models.ShiftView, bool) {
	views, err := scheduler.Views(shifts, s.Now())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return views, true
}

// ListShifts returns the roster with computed statuses
func (h *Handler) ListShifts(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	views, ok := h.views(c, s.Shifts, s)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": views, "count": len(views)})
}

// ActiveShifts returns the shifts in progress now
func (h *Handler) ActiveShifts(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	active, err := s.ActiveShifts()
	if err != nil {
		h.fail(c, err)
		return
	}
	views, ok := h.views(c, active, s)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": views})
}

// UpcomingShifts returns the next shifts of today and tomorrow
func (h *Handler) UpcomingShifts(c *gin.Context) {
	limit := defaultUpcoming
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxUpcoming {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	upcoming, err := s.Upcoming(limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	views, ok := h.views(c, upcoming, s)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": views})
}

// DayShifts returns the shifts covering any part of a day, day shifts first
func (h *Handler) DayShifts(c *gin.Context) {
	date := c.Param("date")
	if _, err := scheduler.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	shifts, err := scheduler.OnDay(date, s.Shifts)
	if err != nil {
		h.fail(c, err)
		return
	}
	scheduler.SortDayFirst(shifts)
	views, ok := h.views(c, shifts, s)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "shifts": views})
}

func (h *Handler) findShift(c *gin.Context, s *scheduler.Scheduler) (models.Shift, bool) {
	id, ok := paramID(c)
	if !ok {
		return models.Shift{}, false
	}
	if err, bad := s.Malformed[id]; bad {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Shift %d has a malformed date or time: %v", id, err)})
		return models.Shift{}, false
	}
	shift, found := scheduler.FindByID(s.Shifts, id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return models.Shift{}, false
	}
	return shift, true
}

// ShiftStatus returns the computed status of one shift
func (h *Handler) ShiftStatus(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	shift, ok := h.findShift(c, s)
	if !ok {
		return
	}
	view, err := scheduler.View(shift, s.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     shift.ID,
		"status": view.Computed,
		"label":  view.StatusLabel,
		"now":    s.Now(),
	})
}

// ShiftSuccessor returns the shift that takes over from the given one
func (h *Handler) ShiftSuccessor(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	shift, ok := h.findShift(c, s)
	if !ok {
		return
	}
	next, found, err := s.Successor(shift)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No successor shift"})
		return
	}
	view, err := scheduler.View(next, s.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": view})
}

// CreateShift creates one shift, or one per user when user_ids is given
func (h *Handler) CreateShift(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payloads, err := req.normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	if len(req.UserIDs) > 0 {
		created, err := h.API.CreateShifts(ctx, payloads)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"shifts": created, "count": len(created)})
		return
	}

	created, err := h.API.CreateShift(ctx, payloads[0])
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shift": created})
}

// UpdateShift replaces a shift upstream
func (h *Handler) UpdateShift(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.UserIDs) > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a shift has a single user"})
		return
	}
	payloads, err := req.normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	updated, err := h.API.UpdateShift(ctx, id, payloads[0])
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": updated})
}

// DeleteShift removes a shift upstream
func (h *Handler) DeleteShift(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	if err := h.API.DeleteShift(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}
