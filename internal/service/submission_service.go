package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/grader"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/repository"
)

// SubmissionResult is the graded outcome returned to the client: the
// verdict plus the question's explanation for the answer screen.
type SubmissionResult struct {
	IsCorrect   bool    `json:"is_correct"`
	Answer      string  `json:"answer"`
	UserAnswer  string  `json:"user_answer"`
	Explanation *string `json:"explanation,omitempty"`
}

// SubmissionService grades answers inside a session. It persists the verdict
// on the question's map row and feeds misses into the wrong-answer ledger.
type SubmissionService struct {
	sessionRepo *repository.SessionRepository
	mapRepo     *repository.SessionMapRepository
	wrongRepo   *repository.WrongAnswerRepository
	questionSvc *QuestionService
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	sessionRepo *repository.SessionRepository,
	mapRepo *repository.SessionMapRepository,
	wrongRepo *repository.WrongAnswerRepository,
	questionSvc *QuestionService,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		sessionRepo: sessionRepo,
		mapRepo:     mapRepo,
		wrongRepo:   wrongRepo,
		questionSvc: questionSvc,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades one answer against a question instance of the session. The
// submission must match the question's archetype; a wrong verdict also lands
// in the wrong-answer ledger. Resubmitting overwrites the earlier verdict on
// the map row but still counts a fresh miss.
func (s *SubmissionService) Submit(ctx context.Context, userID, sessionID, questionMapID int64, sub *model.Submission) (*SubmissionResult, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	m, err := s.mapRepo.GetByID(ctx, questionMapID, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	q, options, err := s.questionSvc.GetWithOptions(ctx, m.QuestionID)
	if err != nil {
		return nil, err
	}

	if err := sub.ValidateFor(q.Type); err != nil {
		return nil, err
	}

	verdict, err := grader.Grade(q, options, sub)
	if err != nil {
		if errors.Is(err, grader.ErrNoAnswerKey) {
			s.log.Error().Err(err).Int64("question_id", q.ID).Msg("question has no usable answer key")
			return nil, ErrDataIntegrity
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.mapRepo.SaveVerdict(ctx, m.ID, verdict.IsCorrect, sub, now); err != nil {
		return nil, err
	}

	if !verdict.IsCorrect {
		if _, err := s.wrongRepo.RecordMiss(ctx, userID, q.ID, now); err != nil {
			return nil, err
		}
	}

	return &SubmissionResult{
		IsCorrect:   verdict.IsCorrect,
		Answer:      verdict.Answer,
		UserAnswer:  verdict.UserAnswer,
		Explanation: q.Explanation,
	}, nil
}
