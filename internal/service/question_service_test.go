package service

import (
	"testing"

	"github.com/unitq/unitq-backend/internal/model"
)

func i64Ptr(v int64) *int64 { return &v }

func TestBuildViewMultipleChoice(t *testing.T) {
	svc := &QuestionService{}
	q := &model.Question{ID: 1, UnitID: 2, UnitName: "Unit 2", Type: model.QuestionTypeMultipleChoice, Title: "pick"}
	options := []model.AnswerOption{
		{ID: 10, QuestionID: 1, Content: "a", IsCorrect: true},
		{ID: 11, QuestionID: 1, Content: "b", IsCorrect: true},
		{ID: 12, QuestionID: 1, Content: "c"},
		{ID: 13, QuestionID: 1, Content: "d"},
	}

	view := svc.BuildView(q, options, 42)

	if !view.IsMultipleAnswer {
		t.Error("expected IsMultipleAnswer for two correct options")
	}
	if len(view.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(view.Options))
	}
	seen := make(map[int64]bool)
	for _, opt := range view.Options {
		seen[opt.ID] = true
	}
	for _, id := range []int64{10, 11, 12, 13} {
		if !seen[id] {
			t.Errorf("option %d missing from view", id)
		}
	}

	// Same seed, same display order.
	again := svc.BuildView(q, options, 42)
	for i := range view.Options {
		if view.Options[i].ID != again.Options[i].ID {
			t.Fatalf("seeded shuffle not deterministic at index %d", i)
		}
	}
}

func TestBuildViewSingleChoiceNotMultiple(t *testing.T) {
	svc := &QuestionService{}
	q := &model.Question{ID: 1, Type: model.QuestionTypeMultipleChoice, Title: "pick one"}
	options := []model.AnswerOption{
		{ID: 10, Content: "a", IsCorrect: true},
		{ID: 11, Content: "b"},
	}

	view := svc.BuildView(q, options, 1)
	if view.IsMultipleAnswer {
		t.Error("single correct option must not flag IsMultipleAnswer")
	}
}

func TestBuildViewMatchingColumns(t *testing.T) {
	svc := &QuestionService{}
	q := &model.Question{ID: 1, Type: model.QuestionTypeMatching, Title: "match"}
	options := []model.AnswerOption{
		{ID: 1, Content: "left-a"},
		{ID: 2, Content: "left-b"},
		{ID: 3, Content: "right-a", PairingAnswerID: i64Ptr(1)},
		{ID: 4, Content: "right-b", PairingAnswerID: i64Ptr(2)},
	}

	view := svc.BuildView(q, options, 7)
	if view.Matching == nil {
		t.Fatal("expected matching columns")
	}
	if len(view.Matching.Left) != 2 || len(view.Matching.Right) != 2 {
		t.Fatalf("expected 2x2 columns, got %dx%d", len(view.Matching.Left), len(view.Matching.Right))
	}

	// Left stays in authored order; right is a permutation of the linked options.
	if view.Matching.Left[0].ID != 1 || view.Matching.Left[1].ID != 2 {
		t.Error("left column must keep authored order")
	}
	rightIDs := map[int64]bool{view.Matching.Right[0].ID: true, view.Matching.Right[1].ID: true}
	if !rightIDs[3] || !rightIDs[4] {
		t.Error("right column must contain exactly the linked options")
	}
}

func TestBuildViewSlotCount(t *testing.T) {
	svc := &QuestionService{}
	q := &model.Question{ID: 1, Type: model.QuestionTypeMultipleShortAnswer, Title: "blanks"}
	options := []model.AnswerOption{
		{ID: 1, Content: "x", IsCorrect: true, OrderIndex: 0},
		{ID: 2, Content: "x2", IsCorrect: true, OrderIndex: 0}, // alternate for slot 0
		{ID: 3, Content: "y", IsCorrect: true, OrderIndex: 1},
	}

	view := svc.BuildView(q, options, 1)
	if view.SlotCount != 2 {
		t.Errorf("expected 2 slots, got %d", view.SlotCount)
	}
}

func TestBuildViewShortAnswerHidesOptions(t *testing.T) {
	svc := &QuestionService{}
	q := &model.Question{ID: 1, Type: model.QuestionTypeShortAnswer, Title: "capital of France"}
	options := []model.AnswerOption{{ID: 1, Content: "Paris", IsCorrect: true}}

	view := svc.BuildView(q, options, 1)
	if len(view.Options) != 0 || view.Matching != nil {
		t.Error("short answer view must not expose the answer key")
	}
}
