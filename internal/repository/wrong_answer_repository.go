package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

const wrongColumns = `id, user_id, question_id, wrong_count, last_wrong_at, is_reviewed, created_at`

// WrongAnswerRepository handles the per-user wrong-answer ledger. One row
// per (user, question); misses bump the counter, a correct review retires
// the row from the outstanding list without erasing history.
type WrongAnswerRepository struct {
	pool *pgxpool.Pool
}

// NewWrongAnswerRepository creates a new WrongAnswerRepository.
func NewWrongAnswerRepository(pool *pgxpool.Pool) *WrongAnswerRepository {
	return &WrongAnswerRepository{pool: pool}
}

// RecordMiss upserts a miss: a new row starts at count 1, an existing row is
// bumped and re-flagged as not reviewed. Atomic, so concurrent misses on the
// same question both land.
func (r *WrongAnswerRepository) RecordMiss(ctx context.Context, userID, questionID int64, now time.Time) (*model.WrongAnswer, error) {
	w := &model.WrongAnswer{UserID: userID, QuestionID: questionID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO question_wrongs (user_id, question_id, wrong_count, last_wrong_at, is_reviewed)
		 VALUES ($1, $2, 1, $3, false)
		 ON CONFLICT (user_id, question_id) DO UPDATE
		 SET wrong_count = question_wrongs.wrong_count + 1,
		     last_wrong_at = EXCLUDED.last_wrong_at,
		     is_reviewed = false
		 RETURNING id, wrong_count, last_wrong_at, is_reviewed, created_at`,
		userID, questionID, now,
	).Scan(&w.ID, &w.WrongCount, &w.LastWrongAt, &w.IsReviewed, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetByUserAndQuestion retrieves one ledger row.
func (r *WrongAnswerRepository) GetByUserAndQuestion(ctx context.Context, userID, questionID int64) (*model.WrongAnswer, error) {
	w := &model.WrongAnswer{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+wrongColumns+`
		 FROM question_wrongs
		 WHERE user_id = $1 AND question_id = $2`, userID, questionID,
	).Scan(&w.ID, &w.UserID, &w.QuestionID, &w.WrongCount, &w.LastWrongAt, &w.IsReviewed, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// MarkReviewed flags a ledger row as reviewed. The wrong count is history
// and stays untouched.
func (r *WrongAnswerRepository) MarkReviewed(ctx context.Context, userID, questionID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE question_wrongs
		 SET is_reviewed = true
		 WHERE user_id = $1 AND question_id = $2`, userID, questionID)
	return err
}

// ListOutstanding pages through a user's not-yet-reviewed wrong answers in
// the requested sort order.
func (r *WrongAnswerRepository) ListOutstanding(ctx context.Context, userID int64, sort model.WrongAnswerSort, limit, offset int) ([]model.WrongAnswer, error) {
	var orderBy string
	switch sort {
	case model.WrongSortMostWrong:
		orderBy = "wrong_count DESC, last_wrong_at DESC"
	case model.WrongSortLeastRecent:
		orderBy = "last_wrong_at ASC"
	default:
		orderBy = "last_wrong_at DESC"
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+wrongColumns+`
		 FROM question_wrongs
		 WHERE user_id = $1 AND is_reviewed = false
		 ORDER BY `+orderBy+`
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.WrongAnswer
	for rows.Next() {
		var w model.WrongAnswer
		if err := rows.Scan(&w.ID, &w.UserID, &w.QuestionID, &w.WrongCount, &w.LastWrongAt, &w.IsReviewed, &w.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// CountOutstanding counts a user's not-yet-reviewed wrong answers, for
// pagination metadata.
func (r *WrongAnswerRepository) CountOutstanding(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM question_wrongs WHERE user_id = $1 AND is_reviewed = false`, userID,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
