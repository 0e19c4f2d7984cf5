package handover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
)

var (
	ErrUnknownShift = errors.New("unknown shift")
	ErrUnknownAsset = errors.New("unknown asset")
	ErrInvalidDraft = errors.New("invalid asset draft")
)

// Submission is a filled handover form
type Submission struct {
	models.CreateHandover
	AssetDrafts map[int]models.AssetDraft `json:"asset_drafts"`
}

// Result reports what a submission changed upstream
type Result struct {
	Handover      *models.Handover `json:"handover"`
	UpdatedAssets []int            `json:"updated_assets"`
}

// Submitter sends handovers and asset edits to the roster API
type Submitter struct {
	api Upstream
}

// NewSubmitter creates a new submitter
func NewSubmitter(api Upstream) *Submitter {
	return &Submitter{api: api}
}

// Validate checks the submission against the roster and the asset list
func (s *Submission) Validate(roster []models.Shift, assets []models.Asset) error {
	for _, id := range []*int{s.FromShiftID, s.ToShiftID} {
		if id == nil {
			continue
		}
		if _, ok := scheduler.FindByID(roster, *id); !ok {
			return fmt.Errorf("%w: shift %d", ErrUnknownShift, *id)
		}
	}
	known := make(map[int]bool, len(assets))
	for _, a := range assets {
		known[a.ID] = true
	}
	for _, id := range s.AssetIDs {
		if !known[id] {
			return fmt.Errorf("%w: asset %d", ErrUnknownAsset, id)
		}
	}
	for id, d := range s.AssetDrafts {
		if !d.Status.IsValid() {
			return fmt.Errorf("%w: asset %d status %q", ErrInvalidDraft, id, d.Status)
		}
	}
	return nil
}

// Submit applies changed asset drafts, stamped with the handing-over shift,
// then creates the handover, or updates it when handoverID is set.
func (s *Submitter) Submit(ctx context.Context, handoverID *int, sub Submission, roster []models.Shift, assets []models.Asset, now time.Time) (*Result, error) {
	if err := sub.Validate(roster, assets); err != nil {
		return nil, err
	}

	from, err := handingOver(sub, roster, now)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	res := &Result{UpdatedAssets: []int{}}
	for _, id := range sub.AssetIDs {
		asset := byID[id]
		draft, ok := sub.AssetDrafts[id]
		if !ok || (draft.Status == asset.Status && draft.Description == asset.Description) {
			continue
		}
		status := draft.Status
		description := Stamp(draft.Description, from, now)
		if _, err := s.api.UpdateAsset(ctx, id, models.UpdateAsset{Status: &status, Description: &description}); err != nil {
			return nil, err
		}
		res.UpdatedAssets = append(res.UpdatedAssets, id)
	}

	payload := sub.CreateHandover
	if payload.AssetIDs == nil {
		payload.AssetIDs = []int{}
	}
	if handoverID != nil {
		res.Handover, err = s.api.UpdateHandover(ctx, *handoverID, payload)
	} else {
		res.Handover, err = s.api.CreateHandover(ctx, payload)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// handingOver resolves the shift an edit is attributed to: the submitted
// from-shift, or the shift active now
func handingOver(sub Submission, roster []models.Shift, now time.Time) (*models.Shift, error) {
	if sub.FromShiftID != nil {
		sh, _ := scheduler.FindByID(roster, *sub.FromShiftID)
		return &sh, nil
	}
	sh, ok, err := scheduler.NewScheduler(roster, scheduler.FixedClock(now)).ActiveShift()
	if err != nil || !ok {
		return nil, err
	}
	return &sh, nil
}
