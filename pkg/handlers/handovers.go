package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/handover"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
)

// HandoverView is a handover with readable labels of both shifts
type HandoverView struct {
	models.Handover
	FromShiftLabel string `json:"from_shift_label"`
	ToShiftLabel   string `json:"to_shift_label"`
}

func labelHandovers(handovers []models.Handover, roster []models.Shift) []HandoverView {
	label := func(id *int) string {
		if id == nil {
			return ""
		}
		if sh, ok := scheduler.FindByID(roster, *id); ok {
			return scheduler.ShiftLabel(sh)
		}
		return ""
	}
	out := make([]HandoverView, 0, len(handovers))
	for _, ho := range handovers {
		out = append(out, HandoverView{
			Handover:       ho,
			FromShiftLabel: label(ho.FromShiftID),
			ToShiftLabel:   label(ho.ToShiftID),
		})
	}
	return out
}

// ListHandovers returns all handovers with shift labels
func (h *Handler) ListHandovers(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	handovers, err := h.API.ListHandovers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"handovers": labelHandovers(handovers, s.Shifts)})
}

// HandoverDraft prefills a handover from the given or the active shift
func (h *Handler) HandoverDraft(c *gin.Context) {
	var fromID *int
	if raw := c.Query("from_shift_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from_shift_id"})
			return
		}
		fromID = &id
	}

	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	assets, err := h.API.ListAssets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	draft, err := handover.NewDraft(s.Shifts, assets, fromID, s.Now())
	if errors.Is(err, handover.ErrUnknownShift) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreateHandover submits a new handover
func (h *Handler) CreateHandover(c *gin.Context) {
	h.submitHandover(c, nil)
}

// UpdateHandover resubmits an existing handover
func (h *Handler) UpdateHandover(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.submitHandover(c, &id)
}

func (h *Handler) submitHandover(c *gin.Context, id *int) {
	var sub handover.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	assets, err := h.API.ListAssets(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := handover.NewSubmitter(h.API).Submit(ctx, id, sub, s.Shifts, assets, s.Now())
	switch {
	case errors.Is(err, handover.ErrUnknownShift),
		errors.Is(err, handover.ErrUnknownAsset),
		errors.Is(err, handover.ErrInvalidDraft):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if id != nil {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// DeleteHandover removes a handover upstream
func (h *Handler) DeleteHandover(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.API.DeleteHandover(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Handover deleted"})
}
