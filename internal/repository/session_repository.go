package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

// SessionRepository handles question-session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a session row inside the given transaction and returns the
// populated model.
func (r *SessionRepository) Create(ctx context.Context, tx pgx.Tx, userID int64, sessionType model.SessionType, referenceID *int64, referenceIDs []int64) (*model.Session, error) {
	s := &model.Session{
		UserID:       userID,
		Type:         sessionType,
		ReferenceID:  referenceID,
		ReferenceIDs: referenceIDs,
	}
	err := tx.QueryRow(ctx,
		`INSERT INTO question_sessions (user_id, type, reference_id, reference_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		userID, sessionType, referenceID, referenceIDs,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a session scoped to its owner. A session belonging to a
// different user is indistinguishable from a missing one.
func (r *SessionRepository) GetByID(ctx context.Context, id, userID int64) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, type, reference_id, reference_ids, created_at
		 FROM question_sessions
		 WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&s.ID, &s.UserID, &s.Type, &s.ReferenceID, &s.ReferenceIDs, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetLatestByUser retrieves the most recently created session of a user.
func (r *SessionRepository) GetLatestByUser(ctx context.Context, userID int64) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, type, reference_id, reference_ids, created_at
		 FROM question_sessions
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT 1`, userID,
	).Scan(&s.ID, &s.UserID, &s.Type, &s.ReferenceID, &s.ReferenceIDs, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
