package model

import "time"

// QuestionType is the archetype tag that drives grading and display mapping.
type QuestionType string

const (
	QuestionTypeTrueFalse           QuestionType = "TRUE_FALSE"
	QuestionTypeMultipleChoice      QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMatching            QuestionType = "MATCHING"
	QuestionTypeShortAnswer         QuestionType = "SHORT_ANSWER"
	QuestionTypeCompletion          QuestionType = "COMPLETION"
	QuestionTypeMultipleShortAnswer QuestionType = "MULTIPLE_SHORT_ANSWER"
	QuestionTypeInterview           QuestionType = "INTERVIEW"
)

// Valid reports whether t is one of the seven known archetypes.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeTrueFalse, QuestionTypeMultipleChoice, QuestionTypeMatching,
		QuestionTypeShortAnswer, QuestionTypeCompletion,
		QuestionTypeMultipleShortAnswer, QuestionTypeInterview:
		return true
	}
	return false
}

// Question is a single study question belonging to a unit.
// Questions are immutable once answered against; edits happen in the
// (external) admin surface before any session references them.
type Question struct {
	ID             int64        `json:"id"`
	UnitID         int64        `json:"unit_id"`
	UnitName       string       `json:"unit_name,omitempty"`
	Type           QuestionType `json:"type"`
	Title          string       `json:"title"`
	Explanation    *string      `json:"explanation,omitempty"`
	AdditionalText *string      `json:"additional_text,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// AnswerOption is one stored option/answer record for a question.
//
// Semantics vary by archetype: a choice for MULTIPLE_CHOICE, the single
// truth record for TRUE_FALSE, an accepted string per blank for
// MULTIPLE_SHORT_ANSWER (grouped by OrderIndex), or one side of a pair for
// MATCHING. For MATCHING, a right-side item carries PairingAnswerID pointing
// at its left-side counterpart within the same question.
type AnswerOption struct {
	ID              int64  `json:"id"`
	QuestionID      int64  `json:"question_id"`
	Content         string `json:"content"`
	IsCorrect       bool   `json:"is_correct"`
	OrderIndex      int    `json:"order_index"`
	PairingAnswerID *int64 `json:"pairing_answer_id,omitempty"`
}
