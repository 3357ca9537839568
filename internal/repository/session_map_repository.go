package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

const mapColumns = `id, session_id, question_id, user_id, is_opened, is_correct, user_answer, answered_at, created_at`

// NavigationCounts summarizes a cursor position inside a session. Remaining
// counts the rows at or after the cursor that have not been served yet.
type NavigationCounts struct {
	Total     int64
	Remaining int64
}

// SessionMapRepository handles the per-session question order. Map rows are
// the session's spine: navigation, grading state and resume position all
// hang off them.
type SessionMapRepository struct {
	pool *pgxpool.Pool
}

// NewSessionMapRepository creates a new SessionMapRepository.
func NewSessionMapRepository(pool *pgxpool.Pool) *SessionMapRepository {
	return &SessionMapRepository{pool: pool}
}

// CreateMany inserts the full question order of a session inside the given
// transaction. The slice order becomes the serving order.
func (r *SessionMapRepository) CreateMany(ctx context.Context, tx pgx.Tx, sessionID, userID int64, questionIDs []int64) error {
	for _, qid := range questionIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO question_session_maps (session_id, question_id, user_id)
			 VALUES ($1, $2, $3)`, sessionID, qid, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateDraw inserts a single already-opened map row for a lazily drawn
// question. Marking the row opened keeps the resume query working for
// random-draw sessions.
func (r *SessionMapRepository) CreateDraw(ctx context.Context, sessionID, userID, questionID int64) (*model.SessionMap, error) {
	m := &model.SessionMap{SessionID: sessionID, QuestionID: questionID, UserID: userID, IsOpened: true}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO question_session_maps (session_id, question_id, user_id, is_opened)
		 VALUES ($1, $2, $3, true)
		 RETURNING id, created_at`, sessionID, questionID, userID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a map row scoped to a session and owner.
func (r *SessionMapRepository) GetByID(ctx context.Context, id, sessionID, userID int64) (*model.SessionMap, error) {
	return r.one(ctx,
		`SELECT `+mapColumns+`
		 FROM question_session_maps
		 WHERE id = $1 AND session_id = $2 AND user_id = $3`, id, sessionID, userID)
}

// NextAfter retrieves the first map row past the cursor in serving order and
// marks it opened. A nil cursor starts from the beginning.
func (r *SessionMapRepository) NextAfter(ctx context.Context, sessionID int64, cursor *int64) (*model.SessionMap, error) {
	var from int64
	if cursor != nil {
		from = *cursor
	}
	m, err := r.one(ctx,
		`SELECT `+mapColumns+`
		 FROM question_session_maps
		 WHERE session_id = $1 AND id > $2
		 ORDER BY id
		 LIMIT 1`, sessionID, from)
	if err != nil {
		return nil, err
	}
	if !m.IsOpened {
		if _, err := r.pool.Exec(ctx,
			`UPDATE question_session_maps SET is_opened = true WHERE id = $1`, m.ID); err != nil {
			return nil, err
		}
		m.IsOpened = true
	}
	return m, nil
}

// PrevBefore retrieves the last map row before the cursor in serving order.
// Going backwards never flips the opened flag.
func (r *SessionMapRepository) PrevBefore(ctx context.Context, sessionID, cursor int64) (*model.SessionMap, error) {
	return r.one(ctx,
		`SELECT `+mapColumns+`
		 FROM question_session_maps
		 WHERE session_id = $1 AND id < $2
		 ORDER BY id DESC
		 LIMIT 1`, sessionID, cursor)
}

// LastOpened retrieves the most recently opened map row, the session's
// resume position.
func (r *SessionMapRepository) LastOpened(ctx context.Context, sessionID int64) (*model.SessionMap, error) {
	return r.one(ctx,
		`SELECT `+mapColumns+`
		 FROM question_session_maps
		 WHERE session_id = $1 AND is_opened = true
		 ORDER BY id DESC
		 LIMIT 1`, sessionID)
}

// Counts returns the session's total map rows and how many lie past the
// cursor. A nil cursor counts everything as remaining.
func (r *SessionMapRepository) Counts(ctx context.Context, sessionID int64, cursor *int64) (*NavigationCounts, error) {
	var from int64
	if cursor != nil {
		from = *cursor
	}
	c := &NavigationCounts{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE id > $2)
		 FROM question_session_maps
		 WHERE session_id = $1`, sessionID, from,
	).Scan(&c.Total, &c.Remaining)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// QuestionIDs returns the question ids already present in a session, used to
// exclude drawn questions from the next random draw.
func (r *SessionMapRepository) QuestionIDs(ctx context.Context, sessionID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM question_session_maps WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveVerdict records a grading outcome on a map row, overwriting any
// earlier attempt.
func (r *SessionMapRepository) SaveVerdict(ctx context.Context, id int64, isCorrect bool, userAnswer *model.Submission, answeredAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE question_session_maps
		 SET is_correct = $2, user_answer = $3, answered_at = $4
		 WHERE id = $1`, id, isCorrect, userAnswer, answeredAt)
	return err
}

func (r *SessionMapRepository) one(ctx context.Context, query string, args ...any) (*model.SessionMap, error) {
	m := &model.SessionMap{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.SessionID, &m.QuestionID, &m.UserID,
		&m.IsOpened, &m.IsCorrect, &m.UserAnswer, &m.AnsweredAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
