package model

import "time"

// SessionType selects the navigation strategy for a question session.
type SessionType string

const (
	// SessionTypeUnit runs every question of a single unit in a fixed
	// (shuffled at creation) order.
	SessionTypeUnit SessionType = "UNIT"
	// SessionTypeAll draws random questions from a set of units until the
	// pool is exhausted; the question list grows lazily.
	SessionTypeAll SessionType = "ALL"
	// SessionTypeMock is a fixed-size random subset across units, ordered at
	// creation like UNIT.
	SessionTypeMock SessionType = "MOCK"
)

// Session is one practice run owned by a user. ReferenceID holds the unit id
// for UNIT sessions; ReferenceIDs holds the unit scope for ALL and MOCK.
// Immutable after creation except through its child records.
type Session struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	Type         SessionType `json:"type"`
	ReferenceID  *int64      `json:"reference_id,omitempty"`
	ReferenceIDs []int64     `json:"reference_ids,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SessionMap assigns one question instance to a session. Rows are created up
// front for bounded sessions and per random draw for ALL sessions; a row is
// mutated exactly once, on submission. Never deleted.
type SessionMap struct {
	ID         int64       `json:"id"`
	SessionID  int64       `json:"session_id"`
	QuestionID int64       `json:"question_id"`
	UserID     int64       `json:"user_id"`
	IsOpened   bool        `json:"is_opened"`
	IsCorrect  bool        `json:"is_correct"`
	UserAnswer *Submission `json:"user_answer,omitempty"`
	AnsweredAt *time.Time  `json:"answered_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
