package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/repository"
)

// SessionSummary is the client-facing state of a session: enough to resume
// it without replaying navigation.
type SessionSummary struct {
	ID           int64             `json:"id"`
	Type         model.SessionType `json:"type"`
	ReferenceID  *int64            `json:"reference_id,omitempty"`
	ReferenceIDs []int64           `json:"reference_ids,omitempty"`
	// Units resolves the session's unit scope to displayable metadata.
	Units []model.Unit `json:"units"`
	// TotalQuestions is -1 for random-draw sessions, whose size is unknown
	// until the pool runs dry.
	TotalQuestions int64 `json:"total_questions"`
	// LastQuestionMapID is the resume cursor, nil before the first question
	// is served.
	LastQuestionMapID *int64    `json:"last_question_map_id,omitempty"`
	ElapsedMs         int64     `json:"elapsed_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// QuestionStep is one navigation result: a question instance plus the
// session's position around it. Progress counters are nil for random-draw
// sessions where the remaining pool size is not exposed.
type QuestionStep struct {
	QuestionMapID int64         `json:"question_map_id"`
	Question      *QuestionView `json:"question"`
	HasMore       *bool         `json:"has_more,omitempty"`
	NextCount     *int64        `json:"next_question_count,omitempty"`
	PreviousCount *int64        `json:"previous_question_count,omitempty"`
	// IsCorrect is set once the instance has been answered, so revisits can
	// show the earlier outcome.
	IsCorrect  *bool      `json:"is_correct,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// SessionService owns session lifecycle and navigation. Bounded sessions
// (unit and mock) fix their question order at creation; random-draw sessions
// grow one map row per draw.
type SessionService struct {
	pool        *pgxpool.Pool
	sessionRepo *repository.SessionRepository
	mapRepo     *repository.SessionMapRepository
	questionSvc *QuestionService
	unitRepo    *repository.UnitRepository
	segmentRepo *repository.SegmentRepository
	log         zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	pool *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	mapRepo *repository.SessionMapRepository,
	questionSvc *QuestionService,
	unitRepo *repository.UnitRepository,
	segmentRepo *repository.SegmentRepository,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		pool:        pool,
		sessionRepo: sessionRepo,
		mapRepo:     mapRepo,
		questionSvc: questionSvc,
		unitRepo:    unitRepo,
		segmentRepo: segmentRepo,
		log:         log.With().Str("component", "session_service").Logger(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUnitSession starts a session over every question of one unit in a
// shuffled order fixed at creation.
func (s *SessionService) CreateUnitSession(ctx context.Context, userID, unitID int64) (*SessionSummary, error) {
	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	questions, err := s.questionSvc.questionRepo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	order := s.shuffled(questionIDsOf(questions))
	return s.createBounded(ctx, userID, model.SessionTypeUnit, &unitID, nil, order)
}

// CreateMockSession starts a fixed-size session drawn across a set of
// units. The draw and its order are fixed at creation.
func (s *SessionService) CreateMockSession(ctx context.Context, userID int64, unitIDs []int64, count int) (*SessionSummary, error) {
	if err := s.checkUnits(ctx, unitIDs); err != nil {
		return nil, err
	}

	questions, err := s.questionSvc.questionRepo.ListByUnits(ctx, unitIDs)
	if err != nil {
		return nil, err
	}

	order := s.shuffled(questionIDsOf(questions))
	if count > 0 && count < len(order) {
		order = order[:count]
	}
	return s.createBounded(ctx, userID, model.SessionTypeMock, nil, unitIDs, order)
}

// CreateAllSession starts a random-draw session over a set of units. No map
// rows exist yet; each Next draws one.
func (s *SessionService) CreateAllSession(ctx context.Context, userID int64, unitIDs []int64) (*SessionSummary, error) {
	if err := s.checkUnits(ctx, unitIDs); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	session, err := s.sessionRepo.Create(ctx, tx, userID, model.SessionTypeAll, nil, unitIDs)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info().Int64("session_id", session.ID).Int64("user_id", userID).
		Str("type", string(session.Type)).Msg("session created")
	return s.summarize(ctx, session)
}

// Get returns the summary of one session owned by the user.
func (s *SessionService) Get(ctx context.Context, userID, sessionID int64) (*SessionSummary, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, session)
}

// GetLatest returns the summary of the user's most recent session, so a
// client can offer to resume it.
func (s *SessionService) GetLatest(ctx context.Context, userID int64) (*SessionSummary, error) {
	session, err := s.sessionRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.summarize(ctx, session)
}

// Next serves the question after the cursor and marks it opened. A nil
// cursor starts the session. Random-draw sessions draw a fresh question
// instead of walking a fixed order; both shapes end with ErrNoMoreQuestions.
func (s *SessionService) Next(ctx context.Context, userID, sessionID int64, cursor *int64) (*QuestionStep, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Type == model.SessionTypeAll {
		return s.nextDraw(ctx, session)
	}

	m, err := s.mapRepo.NextAfter(ctx, sessionID, cursor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMoreQuestions
		}
		return nil, err
	}
	return s.step(ctx, session, m, true)
}

// Previous serves the question before the cursor without touching opened
// flags, so going back never moves the resume position.
func (s *SessionService) Previous(ctx context.Context, userID, sessionID, cursor int64) (*QuestionStep, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	m, err := s.mapRepo.PrevBefore(ctx, sessionID, cursor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMoreQuestions
		}
		return nil, err
	}
	return s.step(ctx, session, m, session.Type != model.SessionTypeAll)
}

// Current re-serves the most recently opened question, the resume position.
func (s *SessionService) Current(ctx context.Context, userID, sessionID int64) (*QuestionStep, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	m, err := s.mapRepo.LastOpened(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return s.step(ctx, session, m, session.Type != model.SessionTypeAll)
}

// nextDraw grows a random-draw session by one: pick an unseen question from
// the unit scope and record it as an opened map row.
func (s *SessionService) nextDraw(ctx context.Context, session *model.Session) (*QuestionStep, error) {
	drawn, err := s.mapRepo.QuestionIDs(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	q, err := s.questionSvc.questionRepo.RandomByUnitsExcluding(ctx, session.ReferenceIDs, drawn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMoreQuestions
		}
		return nil, err
	}

	m, err := s.mapRepo.CreateDraw(ctx, session.ID, session.UserID, q.ID)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, session, m, false)
}

// step assembles the navigation result around one map row. withCounts is
// false for random-draw sessions, whose progress is unbounded.
func (s *SessionService) step(ctx context.Context, session *model.Session, m *model.SessionMap, withCounts bool) (*QuestionStep, error) {
	view, err := s.questionSvc.GetView(ctx, m.QuestionID, m.ID)
	if err != nil {
		return nil, err
	}

	st := &QuestionStep{
		QuestionMapID: m.ID,
		Question:      view,
		AnsweredAt:    m.AnsweredAt,
	}
	if m.AnsweredAt != nil {
		correct := m.IsCorrect
		st.IsCorrect = &correct
	}

	if withCounts {
		counts, err := s.mapRepo.Counts(ctx, session.ID, &m.ID)
		if err != nil {
			return nil, err
		}
		hasMore := counts.Remaining > 0
		next := counts.Remaining
		prev := counts.Total - counts.Remaining - 1
		st.HasMore = &hasMore
		st.NextCount = &next
		st.PreviousCount = &prev
	}
	return st, nil
}

// owned loads a session and enforces ownership. Foreign sessions read as
// missing.
func (s *SessionService) owned(ctx context.Context, userID, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) createBounded(ctx context.Context, userID int64, sessionType model.SessionType, referenceID *int64, referenceIDs, order []int64) (*SessionSummary, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	session, err := s.sessionRepo.Create(ctx, tx, userID, sessionType, referenceID, referenceIDs)
	if err != nil {
		return nil, err
	}
	if err := s.mapRepo.CreateMany(ctx, tx, session.ID, userID, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info().Int64("session_id", session.ID).Int64("user_id", userID).
		Str("type", string(sessionType)).Int("questions", len(order)).Msg("session created")
	return s.summarize(ctx, session)
}

func (s *SessionService) summarize(ctx context.Context, session *model.Session) (*SessionSummary, error) {
	summary := &SessionSummary{
		ID:           session.ID,
		Type:         session.Type,
		ReferenceID:  session.ReferenceID,
		ReferenceIDs: session.ReferenceIDs,
		CreatedAt:    session.CreatedAt,
	}

	scope := session.ReferenceIDs
	if session.ReferenceID != nil {
		scope = []int64{*session.ReferenceID}
	}
	if len(scope) > 0 {
		units, err := s.unitRepo.ListByIDs(ctx, scope)
		if err != nil {
			return nil, err
		}
		summary.Units = units
	}

	if session.Type == model.SessionTypeAll {
		summary.TotalQuestions = -1
	} else {
		counts, err := s.mapRepo.Counts(ctx, session.ID, nil)
		if err != nil {
			return nil, err
		}
		summary.TotalQuestions = counts.Total
	}

	last, err := s.mapRepo.LastOpened(ctx, session.ID)
	if err == nil {
		summary.LastQuestionMapID = &last.ID
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	elapsed, err := s.segmentRepo.ElapsedMs(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	summary.ElapsedMs = elapsed

	return summary, nil
}

func (s *SessionService) checkUnits(ctx context.Context, unitIDs []int64) error {
	if len(unitIDs) == 0 {
		return ErrUnitNotFound
	}
	units, err := s.unitRepo.ListByIDs(ctx, unitIDs)
	if err != nil {
		return err
	}
	if len(units) != len(uniqueIDs(unitIDs)) {
		return ErrUnitNotFound
	}
	return nil
}

func (s *SessionService) shuffled(ids []int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return shuffleIDs(s.rng, ids)
}

// shuffleIDs returns a shuffled copy, leaving the input untouched.
func shuffleIDs(r *rand.Rand, ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func questionIDsOf(questions []model.Question) []int64 {
	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
