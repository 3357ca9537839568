package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/repository"
)

// SegmentReaper closes open study segments whose heartbeat has gone silent.
// Clients that disconnect without stopping their timer would otherwise
// accumulate elapsed time forever; the reaper caps the loss at the stale
// window. Closing is idempotent, so overlapping sweeps are harmless.
type SegmentReaper struct {
	segmentRepo *repository.SegmentRepository
	interval    time.Duration
	staleAfter  time.Duration
	log         zerolog.Logger
}

// NewSegmentReaper creates a new SegmentReaper.
func NewSegmentReaper(segmentRepo *repository.SegmentRepository, interval, staleAfter time.Duration, log zerolog.Logger) *SegmentReaper {
	return &SegmentReaper{
		segmentRepo: segmentRepo,
		interval:    interval,
		staleAfter:  staleAfter,
		log:         log.With().Str("component", "segment_reaper").Logger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (r *SegmentReaper) Start(ctx context.Context) {
	r.log.Info().
		Dur("interval", r.interval).
		Dur("stale_after", r.staleAfter).
		Msg("segment reaper started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("segment reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *SegmentReaper) sweep(ctx context.Context) {
	now := time.Now().UTC()
	closed, err := r.segmentRepo.CloseStale(ctx, now, now.Add(-r.staleAfter))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.log.Error().Err(err).Msg("stale segment sweep failed")
		return
	}
	if closed > 0 {
		r.log.Info().Int64("closed", closed).Msg("closed stale segments")
	}
}
