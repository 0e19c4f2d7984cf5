package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/models"
)

// ListUsers returns the full employee list to admins and the public one to
// everyone else
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	me, err := h.API.Me(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	var users []models.User
	if me.IsAdmin {
		users, err = h.API.ListAllUsers(ctx)
	} else {
		users, err = h.API.ListUsers(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// CurrentUser returns the operator owning the bearer token
func (h *Handler) CurrentUser(c *gin.Context) {
	me, err := h.API.Me(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// UpdateProfile changes the operator's own contact details
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	user, err := h.API.UpdateProfile(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser registers an employee
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	user, err := h.API.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser replaces an employee record, keeping the password when it is empty
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req models.CreateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	user, err := h.API.UpdateUser(ctx, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an employee upstream
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	defer h.Roster.Invalidate(ctx)

	if err := h.API.DeleteUser(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
