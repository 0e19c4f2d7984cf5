package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/auth"
	"github.com/tserv/shift-control/pkg/database"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/rostercache"
	"github.com/tserv/shift-control/pkg/scheduler"
	"github.com/tserv/shift-control/pkg/upstream"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterAPI is the part of the upstream roster API the handlers call directly
type RosterAPI interface {
	Me(ctx context.Context) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.CreateUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int, in models.CreateUser) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
	UpdateProfile(ctx context.Context, in models.UpdateProfile) (*models.User, error)
	CreateShift(ctx context.Context, in models.CreateShift) (*models.Shift, error)
	CreateShifts(ctx context.Context, in []models.CreateShift) ([]models.Shift, error)
	UpdateShift(ctx context.Context, id int, in models.CreateShift) (*models.Shift, error)
	DeleteShift(ctx context.Context, id int) error
	ListAssets(ctx context.Context) ([]models.Asset, error)
	CreateAsset(ctx context.Context, in models.CreateAsset) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id int) error
	UpdateAsset(ctx context.Context, id int, in models.UpdateAsset) (*models.Asset, error)
	ListHandovers(ctx context.Context) ([]models.Handover, error)
	CreateHandover(ctx context.Context, in models.CreateHandover) (*models.Handover, error)
	UpdateHandover(ctx context.Context, id int, in models.CreateHandover) (*models.Handover, error)
	DeleteHandover(ctx context.Context, id int) error
}

// Handler contains dependencies for the route handlers
type Handler struct {
	DB           *gorm.DB
	Auth         *auth.Service
	API          RosterAPI
	Roster       *rostercache.Roster
	Clock        scheduler.Clock
	Logger       *zap.Logger
	ServiceToken string
	Version      string
}

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}

// BearerMiddleware requires an operator token and attaches it to the request
// context so upstream calls act on the operator's behalf
func (h *Handler) BearerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(upstream.WithToken(c.Request.Context(), token))
		c.Next()
	}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies an integration key issued by an admin and
// enforces its daily rate limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearerToken(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if _, err := h.Auth.VerifyHMACKey(key); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		var apiKey database.APIKey
		if err := h.DB.Where("key = ?", key).First(&apiKey).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked or unknown"})
			c.Abort()
			return
		}

		allowed, err := h.reserveRequest(c, &apiKey)
		if err != nil {
			h.Logger.Error("failed to count request", zap.Uint("key_id", apiKey.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check rate limit"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
			c.Abort()
			return
		}

		now := scheduler.CurrentInstant(h.Clock)
		if err := h.DB.Model(&apiKey).Update("last_used", now).Error; err != nil {
			h.Logger.Warn("failed to update last_used", zap.Uint("key_id", apiKey.ID), zap.Error(err))
		}
		apiKey.LastUsed = &now

		c.Set("apiKey", &apiKey)
		c.Next()
	}
}

func (h *Handler) today() string {
	return scheduler.CivilDate(scheduler.CurrentInstant(h.Clock))
}

// reserveRequest counts one request against today's allowance of the key.
// The count only moves through a conditional UPDATE, so concurrent requests
// cannot push it past the limit.
func (h *Handler) reserveRequest(c *gin.Context, apiKey *database.APIKey) (bool, error) {
	day := h.today()
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&database.APIUsage{KeyID: apiKey.ID, Date: day}).Error
	if err != nil {
		return false, err
	}

	q := h.DB.Model(&database.APIUsage{}).Where("key_id = ? AND date = ?", apiKey.ID, day)
	if apiKey.RateLimit > 0 {
		q = q.Where("request_count < ?", apiKey.RateLimit)
	}
	res := q.UpdateColumn("request_count", gorm.Expr("request_count + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	c.Set("usageDate", day)
	return res.RowsAffected == 1, nil
}

// RecordUsage adds the shifts served to the usage row the request was counted on
func (h *Handler) RecordUsage(c *gin.Context, shiftCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	err := h.DB.Model(&database.APIUsage{}).
		Where("key_id = ? AND date = ?", apiKey.ID, c.GetString("usageDate")).
		UpdateColumn("total_shifts", gorm.Expr("total_shifts + ?", shiftCount)).Error
	if err != nil {
		h.Logger.Warn("failed to record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

// fail answers with the upstream status when the roster API refused the call,
// and with 502 when it could not be reached or sent unusable data
func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Detail})
		return
	}
	h.Logger.Error("roster API call failed",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("requestID")),
		zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "Roster API unavailable"})
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new integration key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		RateLimit int    `json:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = database.DefaultRateLimit
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not create key record"})
		return
	}

	h.Logger.Info("api key issued", zap.String("name", req.Name), zap.String("by", c.GetString("username")))
	c.JSON(http.StatusCreated, gin.H{
		"id":   apiKey.ID,
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key and its usage history
func (h *Handler) RevokeKey(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&database.APIKey{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("key_id = ?", id).Delete(&database.APIUsage{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// JSON body first, then query string
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}

	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate limit"})
		return
	}

	res := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns the last 30 days of usage for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// Health reports whether the service can reach its own database
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
