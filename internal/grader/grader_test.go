package grader

import (
	"errors"
	"testing"

	"github.com/unitq/unitq-backend/internal/model"
)

func question(t model.QuestionType) *model.Question {
	return &model.Question{ID: 1, Type: t, Title: "q"}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestGradeTrueFalse(t *testing.T) {
	options := []model.AnswerOption{{ID: 1, IsCorrect: true}}

	tests := []struct {
		name      string
		submitted bool
		want      bool
	}{
		{"matching boolean", true, true},
		{"mismatched boolean", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeTrueFalse), options, &model.Submission{TrueFalse: boolPtr(tt.submitted)})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
		})
	}

	if _, err := Grade(question(model.QuestionTypeTrueFalse), nil, &model.Submission{TrueFalse: boolPtr(true)}); !errors.Is(err, ErrNoAnswerKey) {
		t.Errorf("no options: err = %v, want ErrNoAnswerKey", err)
	}
}

func TestGradeMultipleChoiceSingle(t *testing.T) {
	options := []model.AnswerOption{
		{ID: 1, Content: "a", IsCorrect: false},
		{ID: 2, Content: "b", IsCorrect: true},
		{ID: 3, Content: "c", IsCorrect: false},
	}

	tests := []struct {
		name    string
		choices []int64
		want    bool
	}{
		{"exact single choice", []int64{2}, true},
		{"wrong single choice", []int64{1}, false},
		{"correct choice among extras", []int64{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeMultipleChoice), options, &model.Submission{ChoiceIDs: tt.choices})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
		})
	}
}

func TestGradeMultipleChoiceMultiSelect(t *testing.T) {
	// Corrects are {1, 2}: only the exact set passes, no partial credit.
	options := []model.AnswerOption{
		{ID: 1, Content: "a", IsCorrect: true},
		{ID: 2, Content: "b", IsCorrect: true},
		{ID: 3, Content: "c", IsCorrect: false},
	}

	tests := []struct {
		name    string
		choices []int64
		want    bool
	}{
		{"exact set", []int64{1, 2}, true},
		{"exact set reversed", []int64{2, 1}, true},
		{"subset", []int64{1}, false},
		{"superset", []int64{1, 2, 3}, false},
		{"same size wrong member", []int64{1, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeMultipleChoice), options, &model.Submission{ChoiceIDs: tt.choices})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
		})
	}

	noKey := []model.AnswerOption{{ID: 1, Content: "a"}}
	if _, err := Grade(question(model.QuestionTypeMultipleChoice), noKey, &model.Submission{ChoiceIDs: []int64{1}}); !errors.Is(err, ErrNoAnswerKey) {
		t.Errorf("no correct options: err = %v, want ErrNoAnswerKey", err)
	}
}

func TestGradeMatching(t *testing.T) {
	// Left items 1 and 3; right items 2 and 4 pairing back to them.
	options := []model.AnswerOption{
		{ID: 1, Content: "dog"},
		{ID: 3, Content: "cat"},
		{ID: 2, Content: "bark", PairingAnswerID: i64Ptr(1)},
		{ID: 4, Content: "meow", PairingAnswerID: i64Ptr(3)},
	}

	tests := []struct {
		name    string
		matches []model.MatchingPair
		want    bool
	}{
		{
			"all pairs in stored order",
			[]model.MatchingPair{{LeftItemID: 1, RightItemID: 2}, {LeftItemID: 3, RightItemID: 4}},
			true,
		},
		{
			"all pairs in any order",
			[]model.MatchingPair{{LeftItemID: 3, RightItemID: 4}, {LeftItemID: 1, RightItemID: 2}},
			true,
		},
		{
			"crossed pairing",
			[]model.MatchingPair{{LeftItemID: 1, RightItemID: 4}, {LeftItemID: 3, RightItemID: 2}},
			false,
		},
		{
			"missing pair",
			[]model.MatchingPair{{LeftItemID: 1, RightItemID: 2}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeMatching), options, &model.Submission{Matches: tt.matches})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
		})
	}

	unpaired := []model.AnswerOption{{ID: 1, Content: "dog"}}
	if _, err := Grade(question(model.QuestionTypeMatching), unpaired, &model.Submission{Matches: []model.MatchingPair{{LeftItemID: 1, RightItemID: 2}}}); !errors.Is(err, ErrNoAnswerKey) {
		t.Errorf("no pairs: err = %v, want ErrNoAnswerKey", err)
	}
}

func TestGradeShortAnswer(t *testing.T) {
	options := []model.AnswerOption{{ID: 1, Content: "Paris", IsCorrect: true}}

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{"exact", "Paris", true},
		{"surrounding whitespace", "  paris  ", true},
		{"different case", "PARIS", true},
		{"typo", "pariss", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeShortAnswer), options, &model.Submission{ShortAnswer: strPtr(tt.submitted)})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
			if v.Answer != "Paris" {
				t.Errorf("Answer = %q, want %q", v.Answer, "Paris")
			}
		})
	}

	if _, err := Grade(question(model.QuestionTypeShortAnswer), nil, &model.Submission{ShortAnswer: strPtr("x")}); !errors.Is(err, ErrNoAnswerKey) {
		t.Errorf("no options: err = %v, want ErrNoAnswerKey", err)
	}
}

func TestGradeMultipleShortAnswer(t *testing.T) {
	// Slot 0 accepts "red" or "crimson"; slot 1 accepts "blue".
	options := []model.AnswerOption{
		{ID: 1, Content: "red", IsCorrect: true, OrderIndex: 0},
		{ID: 2, Content: "crimson", IsCorrect: true, OrderIndex: 0},
		{ID: 3, Content: "blue", IsCorrect: true, OrderIndex: 1},
	}

	tests := []struct {
		name  string
		slots []model.SlotAnswer
		want  bool
	}{
		{
			"all slots correct",
			[]model.SlotAnswer{{OrderIndex: 0, Content: "red"}, {OrderIndex: 1, Content: "blue"}},
			true,
		},
		{
			"alternate accepted answer",
			[]model.SlotAnswer{{OrderIndex: 0, Content: " CRIMSON "}, {OrderIndex: 1, Content: "blue"}},
			true,
		},
		{
			"one slot wrong",
			[]model.SlotAnswer{{OrderIndex: 0, Content: "red"}, {OrderIndex: 1, Content: "green"}},
			false,
		},
		{
			// Kept behavior: unsubmitted slots are never checked, so a
			// partial submission grades as fully correct.
			"partial submission passes",
			[]model.SlotAnswer{{OrderIndex: 0, Content: "red"}},
			true,
		},
		{
			"unknown slot index",
			[]model.SlotAnswer{{OrderIndex: 9, Content: "red"}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Grade(question(model.QuestionTypeMultipleShortAnswer), options, &model.Submission{SlotAnswers: tt.slots})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", v.IsCorrect, tt.want)
			}
		})
	}
}

func TestGradeInterviewAlwaysPasses(t *testing.T) {
	options := []model.AnswerOption{{ID: 1, Content: "model answer", IsCorrect: true}}

	v, err := Grade(question(model.QuestionTypeInterview), options, &model.Submission{InterviewComment: strPtr("my thoughts")})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !v.IsCorrect {
		t.Error("interview submissions must always grade correct")
	}
	if v.Answer != "model answer" {
		t.Errorf("Answer = %q, want stored model answer", v.Answer)
	}

	if _, err := Grade(question(model.QuestionTypeInterview), nil, &model.Submission{InterviewComment: strPtr("x")}); !errors.Is(err, ErrNoAnswerKey) {
		t.Errorf("no options: err = %v, want ErrNoAnswerKey", err)
	}
}

func TestGradeCompletionAlwaysPasses(t *testing.T) {
	v, err := Grade(question(model.QuestionTypeCompletion), nil, &model.Submission{Completion: strPtr("whatever")})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !v.IsCorrect {
		t.Error("completion submissions must always grade correct")
	}
}

func TestGradeVerdictText(t *testing.T) {
	options := []model.AnswerOption{
		{ID: 1, Content: "a", IsCorrect: true},
		{ID: 2, Content: "b", IsCorrect: true},
		{ID: 3, Content: "c", IsCorrect: false},
	}

	v, err := Grade(question(model.QuestionTypeMultipleChoice), options, &model.Submission{ChoiceIDs: []int64{3, 1}})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if v.Answer != "a, b" {
		t.Errorf("Answer = %q, want %q", v.Answer, "a, b")
	}
	if v.UserAnswer != "c, a" {
		t.Errorf("UserAnswer = %q, want %q", v.UserAnswer, "c, a")
	}
}
