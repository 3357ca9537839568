package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/repository"
)

// SegmentService tracks active study time. A session has at most one open
// segment; elapsed time is the sum over all its segments, computed from the
// rows on every read.
type SegmentService struct {
	sessionRepo *repository.SessionRepository
	segmentRepo *repository.SegmentRepository
	log         zerolog.Logger
}

// NewSegmentService creates a new SegmentService.
func NewSegmentService(
	sessionRepo *repository.SessionRepository,
	segmentRepo *repository.SegmentRepository,
	log zerolog.Logger,
) *SegmentService {
	return &SegmentService{
		sessionRepo: sessionRepo,
		segmentRepo: segmentRepo,
		log:         log.With().Str("component", "segment_service").Logger(),
	}
}

// Start closes any running segment and opens a fresh one, so Start is safe
// to call on resume without checking state first. A concurrent Start can
// still race the insert; one retry absorbs that.
func (s *SegmentService) Start(ctx context.Context, userID, sessionID int64) (*model.SessionSegment, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.segmentRepo.CloseOpen(ctx, sessionID, now); err != nil {
		return nil, err
	}

	seg, err := s.segmentRepo.Open(ctx, sessionID, userID, now)
	if errors.Is(err, repository.ErrSegmentAlreadyOpen) {
		if _, err := s.segmentRepo.CloseOpen(ctx, sessionID, now); err != nil {
			return nil, err
		}
		seg, err = s.segmentRepo.Open(ctx, sessionID, userID, now)
		if err != nil {
			return nil, err
		}
		return seg, nil
	}
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// Stop ends the running segment. Returns ErrNoOpenSegment when the session
// has no timer running.
func (s *SegmentService) Stop(ctx context.Context, userID, sessionID int64) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}

	closed, err := s.segmentRepo.CloseOpen(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !closed {
		return ErrNoOpenSegment
	}
	return nil
}

// Heartbeat marks the running segment alive, opening a new one if none is
// running. Clients call this on a short interval; a silent client's segment
// is closed by the reaper instead.
func (s *SegmentService) Heartbeat(ctx context.Context, userID, sessionID int64) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}

	now := time.Now().UTC()
	pinged, err := s.segmentRepo.Ping(ctx, sessionID, now)
	if err != nil {
		return err
	}
	if pinged {
		return nil
	}

	_, err = s.segmentRepo.Open(ctx, sessionID, userID, now)
	if errors.Is(err, repository.ErrSegmentAlreadyOpen) {
		// Lost a race against another heartbeat that just opened one.
		_, err = s.segmentRepo.Ping(ctx, sessionID, now)
	}
	return err
}

// ElapsedMs returns the session's accumulated study time in milliseconds,
// counting a running segment up to now.
func (s *SegmentService) ElapsedMs(ctx context.Context, userID, sessionID int64) (int64, error) {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return 0, err
	}
	return s.segmentRepo.ElapsedMs(ctx, sessionID)
}

func (s *SegmentService) owned(ctx context.Context, userID, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
