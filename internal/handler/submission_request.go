package handler

import "github.com/unitq/unitq-backend/internal/model"

// submissionRequest is the request body of answer submission and review
// endpoints. Archetype-specific shape checks happen in the services via
// Submission.ValidateFor; binding only rejects malformed JSON.
type submissionRequest struct {
	model.Submission
}

func (r *submissionRequest) toModel() *model.Submission {
	return &r.Submission
}
