package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/response"
	"github.com/unitq/unitq-backend/internal/service"
)

// failFromService maps service sentinel errors onto the API error taxonomy.
// Anything unrecognized is an internal fault.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrUnitNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUnitNotFound)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, service.ErrNoMoreQuestions):
		response.Fail(c, http.StatusNotFound, response.ErrNoMoreQuestions)
	case errors.Is(err, service.ErrNoOpenSegment):
		response.Fail(c, http.StatusConflict, response.ErrNoOpenSegment)
	case errors.Is(err, service.ErrWrongNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrWrongNotFound)
	case errors.Is(err, service.ErrDataIntegrity):
		response.Fail(c, http.StatusInternalServerError, response.ErrDataIntegrity)
	case errors.Is(err, model.ErrSubmissionShape):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
