package models

import "time"

// AssetType is the kind of tracked work item
type AssetType string

const (
	AssetCase             AssetType = "CASE"
	AssetChangeManagement AssetType = "CHANGE_MANAGEMENT"
	AssetOrangeCase       AssetType = "ORANGE_CASE"
	AssetClientRequests   AssetType = "CLIENT_REQUESTS"
)

// AssetTypes lists the types in display order
var AssetTypes = []AssetType{AssetCase, AssetOrangeCase, AssetChangeManagement, AssetClientRequests}

// IsValid checks if the AssetType is known
func (t AssetType) IsValid() bool {
	switch t {
	case AssetCase, AssetChangeManagement, AssetOrangeCase, AssetClientRequests:
		return true
	}
	return false
}

// Label returns the display name of the asset type, or the raw value for an
// unknown type
func (t AssetType) Label() string {
	switch t {
	case AssetCase:
		return "CASE"
	case AssetChangeManagement:
		return "Change Management"
	case AssetOrangeCase:
		return "Orange CASE"
	case AssetClientRequests:
		return "Обращения клиентов"
	}
	return string(t)
}

// AssetStatus is the lifecycle state of an asset
type AssetStatus string

const (
	AssetActive    AssetStatus = "Active"
	AssetCompleted AssetStatus = "Completed"
	AssetOnHold    AssetStatus = "On Hold"
	AssetClosed    AssetStatus = "Closed"
)

// IsValid checks if the AssetStatus is known
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetActive, AssetCompleted, AssetOnHold, AssetClosed:
		return true
	}
	return false
}

// Label returns the Russian display label of the status, or the raw value for
// an unknown status
func (s AssetStatus) Label() string {
	switch s {
	case AssetActive:
		return "Активен"
	case AssetCompleted:
		return "Завершён"
	case AssetOnHold:
		return "На удержании"
	case AssetClosed:
		return "Закрыт"
	}
	return string(s)
}

// Asset is a tracked work item (case, incident, change or client request)
type Asset struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	AssetType   AssetType   `json:"asset_type"`
	Status      AssetStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// View decorates the asset with its display labels
func (a Asset) View() AssetView {
	return AssetView{Asset: a, TypeLabel: a.AssetType.Label(), StatusLabel: a.Status.Label()}
}

// AssetView is an asset as shown to operators
type AssetView struct {
	Asset
	TypeLabel   string `json:"type_label"`
	StatusLabel string `json:"status_label"`
}

// AssetViews decorates assets keeping their order
func AssetViews(assets []Asset) []AssetView {
	out := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.View())
	}
	return out
}

// CreateAsset is the payload for tracking a new asset upstream
type CreateAsset struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	AssetType   AssetType   `json:"asset_type" binding:"required"`
	Status      AssetStatus `json:"status"`
}

// UpdateAsset is a partial asset update sent upstream
type UpdateAsset struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	AssetType   *AssetType   `json:"asset_type,omitempty"`
	Status      *AssetStatus `json:"status,omitempty"`
}

// Handover links the shift handing over with the shift taking over
type Handover struct {
	ID            int       `json:"id"`
	FromShiftID   *int      `json:"from_shift_id,omitempty"`
	ToShiftID     *int      `json:"to_shift_id,omitempty"`
	HandoverNotes string    `json:"handover_notes"`
	Assets        []Asset   `json:"assets"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateHandover is the payload for creating or updating a handover upstream
type CreateHandover struct {
	FromShiftID   *int   `json:"from_shift_id,omitempty"`
	ToShiftID     *int   `json:"to_shift_id,omitempty"`
	HandoverNotes string `json:"handover_notes"`
	AssetIDs      []int  `json:"asset_ids"`
}

// AssetDraft is the operator's edit of an asset made while writing a handover
type AssetDraft struct {
	Status      AssetStatus `json:"status"`
	Description string      `json:"description"`
}
