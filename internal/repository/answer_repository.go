package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

// AnswerRepository handles answer-option data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// ListByQuestion retrieves all answer options of a question ordered by
// order_index then id, the order the admin surface authored them in.
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID int64) ([]model.AnswerOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, content, is_correct, order_index, pairing_answer_id
		 FROM answers
		 WHERE question_id = $1
		 ORDER BY order_index, id`, questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []model.AnswerOption
	for rows.Next() {
		var a model.AnswerOption
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Content, &a.IsCorrect, &a.OrderIndex, &a.PairingAnswerID); err != nil {
			return nil, err
		}
		options = append(options, a)
	}
	return options, rows.Err()
}
