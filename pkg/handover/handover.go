// Package handover prepares and submits shift handovers: it picks the shift
// handing over, suggests the receiving shift, preselects open cases and stamps
// edited assets with the shift they were updated on.
package handover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
)

// NotesTemplate is the initial text of a new handover
const NotesTemplate = "Наблюдения"

// Upstream is the part of the roster API a handover touches
type Upstream interface {
	UpdateAsset(ctx context.Context, id int, in models.UpdateAsset) (*models.Asset, error)
	CreateHandover(ctx context.Context, in models.CreateHandover) (*models.Handover, error)
	UpdateHandover(ctx context.Context, id int, in models.CreateHandover) (*models.Handover, error)
}

// Draft is a prefilled handover form
type Draft struct {
	FromShift     *models.Shift             `json:"from_shift"`
	ToShift       *models.Shift             `json:"to_shift"`
	FromShiftID   *int                      `json:"from_shift_id"`
	ToShiftID     *int                      `json:"to_shift_id"`
	HandoverNotes string                    `json:"handover_notes"`
	AssetIDs      []int                     `json:"asset_ids"`
	AssetDrafts   map[int]models.AssetDraft `json:"asset_drafts"`
	Assets        []models.AssetView        `json:"assets"`
}

// NewDraft prefills a handover. fromShiftID selects the shift handing over;
// when nil the shift active now is used.
func NewDraft(roster []models.Shift, assets []models.Asset, fromShiftID *int, now time.Time) (*Draft, error) {
	d := &Draft{
		HandoverNotes: NotesTemplate,
		AssetIDs:      []int{},
		AssetDrafts:   map[int]models.AssetDraft{},
		Assets:        []models.AssetView{},
	}

	var from models.Shift
	var found bool
	if fromShiftID != nil {
		from, found = scheduler.FindByID(roster, *fromShiftID)
		if !found {
			return nil, fmt.Errorf("%w: shift %d", ErrUnknownShift, *fromShiftID)
		}
	} else {
		var err error
		from, found, err = scheduler.NewScheduler(roster, scheduler.FixedClock(now)).ActiveShift()
		if err != nil {
			return nil, err
		}
	}

	if found {
		d.FromShift = &from
		d.FromShiftID = &from.ID
		next, ok, err := scheduler.Successor(from, roster)
		if err != nil {
			return nil, err
		}
		if ok {
			d.ToShift = &next
			d.ToShiftID = &next.ID
		}
	}

	for _, a := range OpenCases(assets) {
		d.AssetIDs = append(d.AssetIDs, a.ID)
		d.AssetDrafts[a.ID] = models.AssetDraft{Status: a.Status, Description: a.Description}
		d.Assets = append(d.Assets, a.View())
	}
	return d, nil
}

// OpenCases returns the active CASE assets, which every handover carries by default
func OpenCases(assets []models.Asset) []models.Asset {
	out := []models.Asset{}
	for _, a := range assets {
		if a.AssetType == models.AssetCase && a.Status == models.AssetActive {
			out = append(out, a)
		}
	}
	return out
}

// Stamp appends an "updated at / by shift" line to an asset description
func Stamp(description string, from *models.Shift, now time.Time) string {
	label := "Смена не указана"
	if from != nil {
		label = scheduler.ShiftLabel(*from)
	}
	ts := now.In(scheduler.MSK).Format("02.01.2006, 15:04:05")
	return fmt.Sprintf("%s\n\nОбновлено %s — смена: %s", strings.TrimRight(description, " \t\r\n"), ts, label)
}
