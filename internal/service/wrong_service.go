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
	"github.com/unitq/unitq-backend/internal/response"
)

// WrongAnswerItem is one outstanding wrong answer decorated with enough of
// the question to render a review list.
type WrongAnswerItem struct {
	QuestionID  int64              `json:"question_id"`
	UnitID      int64              `json:"unit_id"`
	UnitName    string             `json:"unit_name"`
	Type        model.QuestionType `json:"type"`
	Title       string             `json:"title"`
	WrongCount  int                `json:"wrong_count"`
	LastWrongAt time.Time          `json:"last_wrong_at"`
}

// WrongAnswerDetail is one ledger entry with the full question view, ready
// for a review attempt.
type WrongAnswerDetail struct {
	Question    *QuestionView `json:"question"`
	WrongCount  int           `json:"wrong_count"`
	LastWrongAt time.Time     `json:"last_wrong_at"`
}

// ReviewResult is the outcome of a review attempt. A correct answer retires
// the entry from the outstanding list; the wrong count is never reduced.
type ReviewResult struct {
	IsCorrect   bool    `json:"is_correct"`
	Answer      string  `json:"answer"`
	UserAnswer  string  `json:"user_answer"`
	Explanation *string `json:"explanation,omitempty"`
	IsReviewed  bool    `json:"is_reviewed"`
}

// WrongAnswerService drives the review loop over a user's wrong-answer
// ledger: list what is outstanding, re-serve the question, grade the retry.
type WrongAnswerService struct {
	wrongRepo   *repository.WrongAnswerRepository
	questionSvc *QuestionService
	log         zerolog.Logger
}

// NewWrongAnswerService creates a new WrongAnswerService.
func NewWrongAnswerService(
	wrongRepo *repository.WrongAnswerRepository,
	questionSvc *QuestionService,
	log zerolog.Logger,
) *WrongAnswerService {
	return &WrongAnswerService{
		wrongRepo:   wrongRepo,
		questionSvc: questionSvc,
		log:         log.With().Str("component", "wrong_answer_service").Logger(),
	}
}

// List pages through the user's outstanding wrong answers in the requested
// sort order.
func (s *WrongAnswerService) List(ctx context.Context, userID int64, sort model.WrongAnswerSort, page, perPage int) ([]WrongAnswerItem, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	entries, err := s.wrongRepo.ListOutstanding(ctx, userID, sort, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.wrongRepo.CountOutstanding(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]WrongAnswerItem, 0, len(entries))
	if len(entries) > 0 {
		ids := make([]int64, len(entries))
		for i, e := range entries {
			ids[i] = e.QuestionID
		}
		questions, err := s.questionSvc.questionRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		byID := make(map[int64]model.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}
		for _, e := range entries {
			q, ok := byID[e.QuestionID]
			if !ok {
				continue
			}
			items = append(items, WrongAnswerItem{
				QuestionID:  q.ID,
				UnitID:      q.UnitID,
				UnitName:    q.UnitName,
				Type:        q.Type,
				Title:       q.Title,
				WrongCount:  e.WrongCount,
				LastWrongAt: e.LastWrongAt,
			})
		}
	}

	totalPages := (int(total) + perPage - 1) / perPage
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}
	return items, pagination, nil
}

// Detail re-serves one wrong question for a review attempt.
func (s *WrongAnswerService) Detail(ctx context.Context, userID, questionID int64) (*WrongAnswerDetail, error) {
	entry, err := s.entry(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	view, err := s.questionSvc.GetView(ctx, questionID, questionID)
	if err != nil {
		return nil, err
	}
	return &WrongAnswerDetail{
		Question:    view,
		WrongCount:  entry.WrongCount,
		LastWrongAt: entry.LastWrongAt,
	}, nil
}

// Review grades a retry of a wrong question. A correct answer marks the
// entry reviewed; a miss bumps the ledger again like any other miss.
func (s *WrongAnswerService) Review(ctx context.Context, userID, questionID int64, sub *model.Submission) (*ReviewResult, error) {
	if _, err := s.entry(ctx, userID, questionID); err != nil {
		return nil, err
	}

	q, options, err := s.questionSvc.GetWithOptions(ctx, questionID)
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

	if verdict.IsCorrect {
		if err := s.wrongRepo.MarkReviewed(ctx, userID, questionID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.wrongRepo.RecordMiss(ctx, userID, questionID, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	return &ReviewResult{
		IsCorrect:   verdict.IsCorrect,
		Answer:      verdict.Answer,
		UserAnswer:  verdict.UserAnswer,
		Explanation: q.Explanation,
		IsReviewed:  verdict.IsCorrect,
	}, nil
}

func (s *WrongAnswerService) entry(ctx context.Context, userID, questionID int64) (*model.WrongAnswer, error) {
	entry, err := s.wrongRepo.GetByUserAndQuestion(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWrongNotFound
		}
		return nil, err
	}
	return entry, nil
}
