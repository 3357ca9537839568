package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

// ErrSegmentAlreadyOpen is returned by Open when the session already has a
// running segment. The partial unique index on open segments enforces this
// at the database level, so concurrent opens lose cleanly.
var ErrSegmentAlreadyOpen = errors.New("segment already open for session")

// SegmentRepository handles time-segment data access. A segment is one
// contiguous stretch of active study; elapsed time is always computed from
// the rows, never stored.
type SegmentRepository struct {
	pool *pgxpool.Pool
}

// NewSegmentRepository creates a new SegmentRepository.
func NewSegmentRepository(pool *pgxpool.Pool) *SegmentRepository {
	return &SegmentRepository{pool: pool}
}

// Open inserts a new open segment for a session. Returns
// ErrSegmentAlreadyOpen if one is already running.
func (r *SegmentRepository) Open(ctx context.Context, sessionID, userID int64, now time.Time) (*model.SessionSegment, error) {
	s := &model.SessionSegment{SessionID: sessionID, UserID: userID, StartedAt: now, LastPingAt: now}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO question_session_segments (session_id, user_id, started_at, last_ping_at)
		 VALUES ($1, $2, $3, $3)
		 RETURNING id`, sessionID, userID, now,
	).Scan(&s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSegmentAlreadyOpen
		}
		return nil, err
	}
	return s, nil
}

// GetOpen retrieves the session's running segment, if any.
func (r *SegmentRepository) GetOpen(ctx context.Context, sessionID int64) (*model.SessionSegment, error) {
	s := &model.SessionSegment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, session_id, user_id, started_at, ended_at, last_ping_at
		 FROM question_session_segments
		 WHERE session_id = $1 AND ended_at IS NULL`, sessionID,
	).Scan(&s.ID, &s.SessionID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.LastPingAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CloseOpen ends the session's running segment. Returns true when a segment
// was actually closed.
func (r *SegmentRepository) CloseOpen(ctx context.Context, sessionID int64, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE question_session_segments
		 SET ended_at = $2
		 WHERE session_id = $1 AND ended_at IS NULL`, sessionID, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Ping refreshes the liveness timestamp of the running segment. Returns true
// when an open segment existed.
func (r *SegmentRepository) Ping(ctx context.Context, sessionID int64, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE question_session_segments
		 SET last_ping_at = $2
		 WHERE session_id = $1 AND ended_at IS NULL`, sessionID, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ElapsedMs sums the durations of all segments of a session in
// milliseconds. An open segment counts up to now.
func (r *SegmentRepository) ElapsedMs(ctx context.Context, sessionID int64) (int64, error) {
	var ms int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (COALESCE(ended_at, now()) - started_at)) * 1000)::bigint, 0)
		 FROM question_session_segments
		 WHERE session_id = $1`, sessionID,
	).Scan(&ms)
	if err != nil {
		return 0, err
	}
	return ms, nil
}

// CloseStale ends every open segment whose last ping is older than the
// cutoff, stamped at detection time so elapsed totals never move backwards.
// Returns the number of segments closed.
func (r *SegmentRepository) CloseStale(ctx context.Context, now, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE question_session_segments
		 SET ended_at = $1
		 WHERE ended_at IS NULL AND last_ping_at < $2`, now, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
