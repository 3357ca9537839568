package model

import "time"

// WrongAnswer tracks repeated misses of one question by one user. WrongCount
// only ever grows; IsReviewed flips to false on every new miss and back to
// true only after a correct re-submission through the review flow.
type WrongAnswer struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	QuestionID  int64     `json:"question_id"`
	WrongCount  int       `json:"wrong_count"`
	LastWrongAt time.Time `json:"last_wrong_at"`
	IsReviewed  bool      `json:"is_reviewed"`
	CreatedAt   time.Time `json:"created_at"`
}

// WrongAnswerSort orders the outstanding wrong-answer list.
type WrongAnswerSort string

const (
	// WrongSortMostRecent is the default: latest mistakes first.
	WrongSortMostRecent WrongAnswerSort = "MOST_RECENT"
	// WrongSortMostWrong surfaces the most-missed questions first.
	WrongSortMostWrong WrongAnswerSort = "MOST_WRONG"
	// WrongSortLeastRecent surfaces the longest-untouched mistakes first.
	WrongSortLeastRecent WrongAnswerSort = "LEAST_RECENT"
)

// ParseWrongAnswerSort maps a query string onto a sort order, falling back
// to the default for unknown values.
func ParseWrongAnswerSort(s string) WrongAnswerSort {
	switch WrongAnswerSort(s) {
	case WrongSortMostWrong:
		return WrongSortMostWrong
	case WrongSortLeastRecent:
		return WrongSortLeastRecent
	default:
		return WrongSortMostRecent
	}
}
