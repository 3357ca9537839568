package model

import (
	"errors"
	"fmt"
)

// ErrSubmissionShape signals that a submission does not carry the field the
// question's archetype requires.
var ErrSubmissionShape = errors.New("submission shape does not match question type")

// MatchingPair is one submitted (left, right) association for MATCHING.
type MatchingPair struct {
	LeftItemID  int64 `json:"left_item_id" binding:"required"`
	RightItemID int64 `json:"right_item_id" binding:"required"`
}

// SlotAnswer is one submitted blank for MULTIPLE_SHORT_ANSWER.
type SlotAnswer struct {
	OrderIndex int    `json:"order_index"`
	Content    string `json:"content"`
}

// Submission is the archetype-tagged union of all user answer shapes. Exactly
// one field group is expected to be set, matching the question's type; the
// whole struct is persisted as the SessionMap's user_answer snapshot.
type Submission struct {
	TrueFalse        *bool          `json:"true_false,omitempty"`
	ChoiceIDs        []int64        `json:"choice_ids,omitempty"`
	Matches          []MatchingPair `json:"matches,omitempty"`
	ShortAnswer      *string        `json:"short_answer,omitempty"`
	Completion       *string        `json:"completion,omitempty"`
	SlotAnswers      []SlotAnswer   `json:"slot_answers,omitempty"`
	InterviewComment *string        `json:"interview_comment,omitempty"`
}

// ValidateFor checks that the submission carries the field required by the
// given archetype. It deliberately ignores extra populated fields; only the
// one the grader reads matters.
func (s *Submission) ValidateFor(t QuestionType) error {
	switch t {
	case QuestionTypeTrueFalse:
		if s.TrueFalse == nil {
			return fmt.Errorf("%w: true_false is required", ErrSubmissionShape)
		}
	case QuestionTypeMultipleChoice:
		if len(s.ChoiceIDs) == 0 {
			return fmt.Errorf("%w: choice_ids is required", ErrSubmissionShape)
		}
	case QuestionTypeMatching:
		if len(s.Matches) == 0 {
			return fmt.Errorf("%w: matches is required", ErrSubmissionShape)
		}
	case QuestionTypeShortAnswer:
		if s.ShortAnswer == nil {
			return fmt.Errorf("%w: short_answer is required", ErrSubmissionShape)
		}
	case QuestionTypeCompletion:
		if s.Completion == nil {
			return fmt.Errorf("%w: completion is required", ErrSubmissionShape)
		}
	case QuestionTypeMultipleShortAnswer:
		if len(s.SlotAnswers) == 0 {
			return fmt.Errorf("%w: slot_answers is required", ErrSubmissionShape)
		}
	case QuestionTypeInterview:
		if s.InterviewComment == nil {
			return fmt.Errorf("%w: interview_comment is required", ErrSubmissionShape)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrSubmissionShape, t)
	}
	return nil
}
