package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unitq/unitq-backend/internal/middleware"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/response"
	"github.com/unitq/unitq-backend/internal/service"
	"github.com/unitq/unitq-backend/internal/validator"
)

// WrongAnswerHandler handles the wrong-answer review endpoints.
type WrongAnswerHandler struct {
	wrongService *service.WrongAnswerService
}

// NewWrongAnswerHandler creates a new WrongAnswerHandler.
func NewWrongAnswerHandler(wrongService *service.WrongAnswerService) *WrongAnswerHandler {
	return &WrongAnswerHandler{wrongService: wrongService}
}

// List godoc
// GET /api/v1/wrong-answers?sort=MOST_WRONG&page=1&per_page=10
// Pages through the user's outstanding wrong answers.
func (h *WrongAnswerHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sort := model.ParseWrongAnswerSort(c.Query("sort"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	items, pagination, err := h.wrongService.List(c.Request.Context(), claims.UserID, sort, page, perPage)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"wrong_answers": items}, pagination)
}

// Detail godoc
// GET /api/v1/wrong-answers/:question_id
// Re-serves one wrong question for a review attempt.
func (h *WrongAnswerHandler) Detail(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}

	detail, err := h.wrongService.Detail(c.Request.Context(), claims.UserID, questionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Review godoc
// POST /api/v1/wrong-answers/:question_id/review
// Grades a retry; a correct answer retires the entry from the list.
func (h *WrongAnswerHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}

	var sub submissionRequest
	if fields := validator.Bind(c, &sub); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.wrongService.Review(c.Request.Context(), claims.UserID, questionID, sub.toModel())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
