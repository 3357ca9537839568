package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

const questionColumns = `q.id, q.unit_id, u.name, q.type, q.title, q.explanation, q.additional_text, q.created_at`

// QuestionRepository handles question data access. Questions and their
// options are written by the (external) admin surface; this backend only
// reads them.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByID retrieves a single question with its unit name.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN units u ON u.id = q.unit_id
		 WHERE q.id = $1`, id,
	).Scan(&q.ID, &q.UnitID, &q.UnitName, &q.Type, &q.Title, &q.Explanation, &q.AdditionalText, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByUnit retrieves all questions of one unit.
func (r *QuestionRepository) ListByUnit(ctx context.Context, unitID int64) ([]model.Question, error) {
	return r.list(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN units u ON u.id = q.unit_id
		 WHERE q.unit_id = $1
		 ORDER BY q.id`, unitID)
}

// ListByUnits retrieves the union of questions across the given units.
func (r *QuestionRepository) ListByUnits(ctx context.Context, unitIDs []int64) ([]model.Question, error) {
	return r.list(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN units u ON u.id = q.unit_id
		 WHERE q.unit_id = ANY($1)
		 ORDER BY q.id`, unitIDs)
}

// ListByIDs retrieves the questions with the given ids.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Question, error) {
	return r.list(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN units u ON u.id = q.unit_id
		 WHERE q.id = ANY($1)
		 ORDER BY q.id`, ids)
}

// RandomByUnitsExcluding draws one random question in the unit scope that is
// not in the exclude set. Returns pgx.ErrNoRows when the pool is exhausted,
// which callers treat as a normal terminal state.
func (r *QuestionRepository) RandomByUnitsExcluding(ctx context.Context, unitIDs, excludeIDs []int64) (*model.Question, error) {
	if excludeIDs == nil {
		// A nil slice encodes as SQL NULL, and ANY(NULL) would match nothing.
		excludeIDs = []int64{}
	}
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN units u ON u.id = q.unit_id
		 WHERE q.unit_id = ANY($1) AND NOT (q.id = ANY($2))
		 ORDER BY random()
		 LIMIT 1`, unitIDs, excludeIDs,
	).Scan(&q.ID, &q.UnitID, &q.UnitName, &q.Type, &q.Title, &q.Explanation, &q.AdditionalText, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepository) list(ctx context.Context, query string, args ...any) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.UnitID, &q.UnitName, &q.Type, &q.Title, &q.Explanation, &q.AdditionalText, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
