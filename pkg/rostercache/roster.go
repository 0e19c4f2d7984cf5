package rostercache

import (
	"context"
	"errors"

	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/upstream"
	"go.uber.org/zap"
)

// Fetcher loads the roster from the source of truth
type Fetcher interface {
	ListShifts(ctx context.Context) ([]models.Shift, error)
}

// Roster serves shift snapshots from the cache, falling back to the fetcher
type Roster struct {
	cache   Cache
	fetcher Fetcher
	logger  *zap.Logger
}

// NewRoster creates a cached roster
func NewRoster(cache Cache, fetcher Fetcher, logger *zap.Logger) *Roster {
	return &Roster{cache: cache, fetcher: fetcher, logger: logger}
}

// Shifts returns the roster visible to the token in ctx
func (r *Roster) Shifts(ctx context.Context) ([]models.Shift, error) {
	token := upstream.TokenFrom(ctx)

	shifts, err := r.cache.Get(ctx, token)
	if err == nil {
		return shifts, nil
	}
	if !errors.Is(err, ErrMiss) {
		r.logger.Warn("roster cache read failed", zap.Error(err))
	}

	shifts, err = r.fetcher.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, token, shifts); err != nil {
		r.logger.Warn("roster cache write failed", zap.Error(err))
	}
	return shifts, nil
}

// Invalidate drops every cached roster after a write
func (r *Roster) Invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		r.logger.Warn("roster cache invalidate failed", zap.Error(err))
	}
}
