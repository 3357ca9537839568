package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/config"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/repository"
)

// OptionView is an answer option stripped to what the client may see.
type OptionView struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// MatchingView carries the two columns of a matching question. The right
// column is shuffled so the stored order does not leak the alignment.
type MatchingView struct {
	Left  []OptionView `json:"left"`
	Right []OptionView `json:"right"`
}

// QuestionView is the client-facing shape of a question. Only the fields the
// archetype needs are populated; correctness flags never appear here.
type QuestionView struct {
	ID             int64              `json:"id"`
	UnitID         int64              `json:"unit_id"`
	UnitName       string             `json:"unit_name"`
	Type           model.QuestionType `json:"type"`
	Title          string             `json:"title"`
	AdditionalText *string            `json:"additional_text,omitempty"`
	// IsMultipleAnswer tells a multiple-choice client whether to render
	// checkboxes instead of radio buttons.
	IsMultipleAnswer bool          `json:"is_multiple_answer,omitempty"`
	Options          []OptionView  `json:"options,omitempty"`
	Matching         *MatchingView `json:"matching,omitempty"`
	// SlotCount is the number of blanks in a multiple-short-answer question.
	SlotCount int `json:"slot_count,omitempty"`
}

// questionPayload is the cached unit of work: a question row plus its answer
// options, assembled once and reused across navigation, grading and review.
type questionPayload struct {
	Question model.Question       `json:"question"`
	Options  []model.AnswerOption `json:"options"`
}

// QuestionService loads questions with their options and renders the
// client-facing views. Payloads are cached in Redis; questions are immutable
// once served, so the cache never goes stale.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	rdb          *redis.Client
	cacheTTL     time.Duration
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		rdb:          rdb,
		cacheTTL:     cacheTTL,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// GetWithOptions loads a question and its answer options, consulting the
// cache first. Returns ErrQuestionNotFound for an unknown id.
func (s *QuestionService) GetWithOptions(ctx context.Context, questionID int64) (*model.Question, []model.AnswerOption, error) {
	key := config.CacheKey.QuestionPayloadKey(questionID)

	if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var p questionPayload
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p.Question, p.Options, nil
		}
		s.log.Warn().Int64("question_id", questionID).Msg("corrupt cached question payload, reloading")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int64("question_id", questionID).Msg("question cache read failed")
	}

	q, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrQuestionNotFound
		}
		return nil, nil, err
	}
	options, err := s.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}

	if raw, err := json.Marshal(questionPayload{Question: *q, Options: options}); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Int64("question_id", questionID).Msg("question cache write failed")
		}
	}

	return q, options, nil
}

// BuildView renders the client-facing shape of a question. The seed pins the
// display shuffle, so the same question instance always shows the same
// option order across refetches.
func (s *QuestionService) BuildView(q *model.Question, options []model.AnswerOption, seed int64) *QuestionView {
	view := &QuestionView{
		ID:             q.ID,
		UnitID:         q.UnitID,
		UnitName:       q.UnitName,
		Type:           q.Type,
		Title:          q.Title,
		AdditionalText: q.AdditionalText,
	}

	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		correct := 0
		for _, opt := range options {
			if opt.IsCorrect {
				correct++
			}
		}
		view.IsMultipleAnswer = correct > 1
		view.Options = shuffledOptionViews(rand.New(rand.NewSource(seed)), options)
	case model.QuestionTypeMatching:
		view.Matching = buildMatchingView(rand.New(rand.NewSource(seed)), options)
	case model.QuestionTypeMultipleShortAnswer:
		view.SlotCount = slotCount(options)
	}

	return view
}

// GetView loads a question and renders its view in one call.
func (s *QuestionService) GetView(ctx context.Context, questionID, seed int64) (*QuestionView, error) {
	q, options, err := s.GetWithOptions(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.BuildView(q, options, seed), nil
}

// shuffledOptionViews projects options to their client shape in a seeded
// random order.
func shuffledOptionViews(r *rand.Rand, options []model.AnswerOption) []OptionView {
	views := make([]OptionView, len(options))
	for i, opt := range options {
		views[i] = OptionView{ID: opt.ID, Content: opt.Content}
	}
	r.Shuffle(len(views), func(i, j int) {
		views[i], views[j] = views[j], views[i]
	})
	return views
}

// buildMatchingView splits matching options into columns. Options carrying a
// pairing link form the right column; their targets form the left. Only the
// right column is shuffled, keeping the left in authored order.
func buildMatchingView(r *rand.Rand, options []model.AnswerOption) *MatchingView {
	view := &MatchingView{}
	for _, opt := range options {
		item := OptionView{ID: opt.ID, Content: opt.Content}
		if opt.PairingAnswerID != nil {
			view.Right = append(view.Right, item)
		} else {
			view.Left = append(view.Left, item)
		}
	}
	r.Shuffle(len(view.Right), func(i, j int) {
		view.Right[i], view.Right[j] = view.Right[j], view.Right[i]
	})
	return view
}

// slotCount counts the distinct blank indexes of a multiple-short-answer
// question.
func slotCount(options []model.AnswerOption) int {
	seen := make(map[int]bool)
	for _, opt := range options {
		if opt.IsCorrect {
			seen[opt.OrderIndex] = true
		}
	}
	return len(seen)
}
