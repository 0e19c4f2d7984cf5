package models

import "time"

// ShiftType is the day/night label of a shift
type ShiftType string

const (
	ShiftTypeDay   ShiftType = "day"
	ShiftTypeNight ShiftType = "night"
)

// IsValid checks if the ShiftType is one of the known types
func (t ShiftType) IsValid() bool {
	switch t {
	case ShiftTypeDay, ShiftTypeNight:
		return true
	}
	return false
}

// Label returns the short UI label, or the raw value for an unknown type
func (t ShiftType) Label() string {
	switch t {
	case ShiftTypeDay:
		return "День"
	case ShiftTypeNight:
		return "Ночь"
	}
	return string(t)
}

// ShiftStatus is the temporal state of a shift relative to an instant
type ShiftStatus string

const (
	ShiftPending ShiftStatus = "pending"
	ShiftActive  ShiftStatus = "active"
	ShiftEnded   ShiftStatus = "ended"
)

// Label returns the Russian UI label for the status
func (s ShiftStatus) Label() string {
	switch s {
	case ShiftPending:
		return "ожидание"
	case ShiftActive:
		return "активна"
	case ShiftEnded:
		return "завершена"
	}
	return string(s)
}

// User is an employee as exposed by the roster API
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Phone      string    `json:"phone,omitempty"`
	TelegramID string    `json:"telegram_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateUser is the payload for creating or replacing an employee upstream
type CreateUser struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password"`
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position" binding:"required"`
	Phone      string `json:"phone,omitempty"`
	TelegramID string `json:"telegram_id,omitempty"`
	Email      string `json:"email,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
}

// UpdateProfile is the self-service part of a user record
type UpdateProfile struct {
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position" binding:"required"`
	Phone      string `json:"phone,omitempty"`
	TelegramID string `json:"telegram_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Shift is a scheduled work period. Date is a civil date (YYYY-MM-DD),
// StartTime and EndTime are wall-clock HH:MM in Moscow time.
type Shift struct {
	ID        int       `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	ShiftType ShiftType `json:"shift_type"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Position  string    `json:"position"`
	Status    string    `json:"status,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateShift is the payload for creating or updating a shift upstream
type CreateShift struct {
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	ShiftType ShiftType `json:"shift_type"`
	UserID    int       `json:"user_id"`
	Notes     string    `json:"notes,omitempty"`
}

// ShiftView is a shift decorated with its computed status
type ShiftView struct {
	Shift
	Computed    ShiftStatus `json:"computed_status"`
	StatusLabel string      `json:"status_label"`
}
