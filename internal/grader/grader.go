// Package grader evaluates a user submission against a question's stored
// answer records. It is pure: no I/O, no clock, no persistence. Callers load
// the question and its options, call Grade, and persist the verdict (and the
// wrong-answer side effect) themselves.
package grader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/unitq/unitq-backend/internal/model"
)

// ErrNoAnswerKey means the question has no usable correct-answer records.
// This is malformed data, not a user mistake; callers surface it as a server
// fault and never retry the submission.
var ErrNoAnswerKey = errors.New("question has no answer key")

// Verdict is the single result shape shared by all seven archetypes.
type Verdict struct {
	IsCorrect bool `json:"is_correct"`
	// Answer is the canonical correct answer rendered as display text.
	Answer string `json:"answer"`
	// UserAnswer is the submission rendered in the same display form,
	// resolving option ids to their stored content.
	UserAnswer string `json:"user_answer"`
}

// Grade dispatches on the question archetype and applies that archetype's
// equality rule. The submission must already be shape-validated via
// model.Submission.ValidateFor.
func Grade(q *model.Question, options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	switch q.Type {
	case model.QuestionTypeTrueFalse:
		return gradeTrueFalse(options, sub)
	case model.QuestionTypeMultipleChoice:
		return gradeMultipleChoice(options, sub)
	case model.QuestionTypeMatching:
		return gradeMatching(options, sub)
	case model.QuestionTypeShortAnswer:
		return gradeShortAnswer(options, sub)
	case model.QuestionTypeCompletion:
		return gradeCompletion(options, sub)
	case model.QuestionTypeMultipleShortAnswer:
		return gradeMultipleShortAnswer(options, sub)
	case model.QuestionTypeInterview:
		return gradeInterview(options, sub)
	default:
		return nil, fmt.Errorf("grade: unknown question type %q", q.Type)
	}
}

func gradeTrueFalse(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("true/false: %w", ErrNoAnswerKey)
	}
	truth := options[0].IsCorrect
	return &Verdict{
		IsCorrect:  truth == *sub.TrueFalse,
		Answer:     boolText(truth),
		UserAnswer: boolText(*sub.TrueFalse),
	}, nil
}

func gradeMultipleChoice(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	var correctIDs []int64
	var correctTexts []string
	for _, opt := range options {
		if opt.IsCorrect {
			correctIDs = append(correctIDs, opt.ID)
			correctTexts = append(correctTexts, opt.Content)
		}
	}
	if len(correctIDs) == 0 {
		return nil, fmt.Errorf("multiple choice: %w", ErrNoAnswerKey)
	}

	v := &Verdict{
		Answer:     strings.Join(correctTexts, ", "),
		UserAnswer: optionContents(options, sub.ChoiceIDs),
	}

	// Multi-select requires the exact correct set: same cardinality and full
	// containment. No partial credit. Single-select requires a singleton.
	if len(correctIDs) > 1 {
		if len(sub.ChoiceIDs) != len(correctIDs) {
			return v, nil
		}
		chosen := make(map[int64]bool, len(sub.ChoiceIDs))
		for _, id := range sub.ChoiceIDs {
			chosen[id] = true
		}
		for _, id := range correctIDs {
			if !chosen[id] {
				return v, nil
			}
		}
		v.IsCorrect = true
		return v, nil
	}

	v.IsCorrect = len(sub.ChoiceIDs) == 1 && sub.ChoiceIDs[0] == correctIDs[0]
	return v, nil
}

func gradeMatching(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	pairs := correctPairs(options)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("matching: %w", ErrNoAnswerKey)
	}

	v := &Verdict{
		Answer:     pairText(options, pairs),
		UserAnswer: pairText(options, sub.Matches),
	}

	if len(sub.Matches) != len(pairs) {
		return v, nil
	}
	submitted := make(map[model.MatchingPair]bool, len(sub.Matches))
	for _, p := range sub.Matches {
		submitted[p] = true
	}
	for _, p := range pairs {
		if !submitted[p] {
			return v, nil
		}
	}
	v.IsCorrect = true
	return v, nil
}

func gradeShortAnswer(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	correct := firstCorrect(options)
	if correct == nil {
		return nil, fmt.Errorf("short answer: %w", ErrNoAnswerKey)
	}
	user := strings.TrimSpace(*sub.ShortAnswer)
	return &Verdict{
		IsCorrect:  strings.EqualFold(strings.TrimSpace(correct.Content), user),
		Answer:     correct.Content,
		UserAnswer: user,
	}, nil
}

// gradeCompletion always passes: grading for the COMPLETION archetype is not
// implemented, it is display-only like INTERVIEW.
func gradeCompletion(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	v := &Verdict{IsCorrect: true, UserAnswer: strings.TrimSpace(*sub.Completion)}
	if correct := firstCorrect(options); correct != nil {
		v.Answer = correct.Content
	}
	return v, nil
}

func gradeMultipleShortAnswer(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	accepted := acceptedBySlot(options)
	if len(accepted) == 0 {
		return nil, fmt.Errorf("multiple short answer: %w", ErrNoAnswerKey)
	}

	// Known asymmetry kept from the original system: only the slots the user
	// actually submitted are checked, so a partial submission whose entries
	// all match grades as fully correct.
	correct := true
	for _, slot := range sub.SlotAnswers {
		if !slotMatches(accepted[slot.OrderIndex], slot.Content) {
			correct = false
			break
		}
	}

	return &Verdict{
		IsCorrect:  correct,
		Answer:     slotAnswerText(accepted),
		UserAnswer: slotUserText(sub.SlotAnswers),
	}, nil
}

// gradeInterview always passes; the stored model answer is returned for
// reference only.
func gradeInterview(options []model.AnswerOption, sub *model.Submission) (*Verdict, error) {
	correct := firstCorrect(options)
	if correct == nil {
		return nil, fmt.Errorf("interview: %w", ErrNoAnswerKey)
	}
	return &Verdict{
		IsCorrect:  true,
		Answer:     correct.Content,
		UserAnswer: strings.TrimSpace(*sub.InterviewComment),
	}, nil
}

// ─── Helpers ────────────────────────────────────────────────────────

// correctPairs builds the bipartite (left, right) adjacency list from the
// stored pairing links. A right-side option references its left partner via
// PairingAnswerID; the relation is always exactly one-to-one.
func correctPairs(options []model.AnswerOption) []model.MatchingPair {
	var pairs []model.MatchingPair
	for _, opt := range options {
		if opt.PairingAnswerID != nil {
			pairs = append(pairs, model.MatchingPair{
				LeftItemID:  *opt.PairingAnswerID,
				RightItemID: opt.ID,
			})
		}
	}
	return pairs
}

func firstCorrect(options []model.AnswerOption) *model.AnswerOption {
	for i := range options {
		if options[i].IsCorrect {
			return &options[i]
		}
	}
	return nil
}

// acceptedBySlot groups the correct answers by blank index: slot -> accepted
// strings (already trimmed).
func acceptedBySlot(options []model.AnswerOption) map[int][]string {
	accepted := make(map[int][]string)
	for _, opt := range options {
		if opt.IsCorrect {
			accepted[opt.OrderIndex] = append(accepted[opt.OrderIndex], strings.TrimSpace(opt.Content))
		}
	}
	return accepted
}

func slotMatches(accepted []string, content string) bool {
	content = strings.TrimSpace(content)
	for _, a := range accepted {
		if strings.EqualFold(a, content) {
			return true
		}
	}
	return false
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func optionContents(options []model.AnswerOption, ids []int64) string {
	byID := make(map[int64]string, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt.Content
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if content, ok := byID[id]; ok {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, ", ")
}

func pairText(options []model.AnswerOption, pairs []model.MatchingPair) string {
	byID := make(map[int64]string, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt.Content
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		left, ok := byID[p.LeftItemID]
		if !ok {
			left = "?"
		}
		right, ok := byID[p.RightItemID]
		if !ok {
			right = "?"
		}
		parts = append(parts, left+" - "+right)
	}
	return strings.Join(parts, ", ")
}

func slotAnswerText(accepted map[int][]string) string {
	slots := make([]int, 0, len(accepted))
	for slot := range accepted {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		parts = append(parts, fmt.Sprintf("%d: %s", slot+1, accepted[slot][0]))
	}
	return strings.Join(parts, ", ")
}

func slotUserText(answers []model.SlotAnswer) string {
	parts := make([]string, 0, len(answers))
	for _, a := range answers {
		parts = append(parts, fmt.Sprintf("%d: %s", a.OrderIndex+1, strings.TrimSpace(a.Content)))
	}
	return strings.Join(parts, ", ")
}
