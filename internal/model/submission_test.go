package model

import (
	"errors"
	"testing"
)

func TestSubmissionValidateFor(t *testing.T) {
	yes := true
	text := "answer"

	tests := []struct {
		name    string
		qtype   QuestionType
		sub     Submission
		wantErr bool
	}{
		{"true/false present", QuestionTypeTrueFalse, Submission{TrueFalse: &yes}, false},
		{"true/false missing", QuestionTypeTrueFalse, Submission{ShortAnswer: &text}, true},
		{"choices present", QuestionTypeMultipleChoice, Submission{ChoiceIDs: []int64{1}}, false},
		{"choices empty", QuestionTypeMultipleChoice, Submission{}, true},
		{"matches present", QuestionTypeMatching, Submission{Matches: []MatchingPair{{LeftItemID: 1, RightItemID: 2}}}, false},
		{"matches missing", QuestionTypeMatching, Submission{}, true},
		{"short answer present", QuestionTypeShortAnswer, Submission{ShortAnswer: &text}, false},
		{"short answer missing", QuestionTypeShortAnswer, Submission{TrueFalse: &yes}, true},
		{"completion present", QuestionTypeCompletion, Submission{Completion: &text}, false},
		{"slots present", QuestionTypeMultipleShortAnswer, Submission{SlotAnswers: []SlotAnswer{{OrderIndex: 0, Content: "x"}}}, false},
		{"slots missing", QuestionTypeMultipleShortAnswer, Submission{}, true},
		{"interview present", QuestionTypeInterview, Submission{InterviewComment: &text}, false},
		{"unknown type", QuestionType("ESSAY"), Submission{ShortAnswer: &text}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.ValidateFor(tt.qtype)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFor(%s) error = %v, wantErr %v", tt.qtype, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrSubmissionShape) {
				t.Errorf("error %v is not ErrSubmissionShape", err)
			}
		})
	}
}
