package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto the API
// error taxonomy; anything else is an internal fault.
var (
	// ErrSessionNotFound covers both a missing session and a session owned
	// by another user. The two cases are deliberately indistinguishable.
	ErrSessionNotFound = errors.New("session not found")
	ErrUnitNotFound    = errors.New("unit not found")
	// ErrQuestionNotFound covers a missing question or a question map row
	// that does not belong to the session.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoMoreQuestions is the normal terminal state of navigation, not a
	// fault: the session has been walked to its edge.
	ErrNoMoreQuestions = errors.New("no more questions")
	ErrNoOpenSegment   = errors.New("no open segment")
	ErrWrongNotFound   = errors.New("wrong answer not found")
	// ErrDataIntegrity means a question's stored answer records are unusable
	// (for example no answer key). Server fault, never the user's.
	ErrDataIntegrity = errors.New("question data integrity error")
)
