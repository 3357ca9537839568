package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unitq/unitq-backend/internal/middleware"
	"github.com/unitq/unitq-backend/internal/response"
	"github.com/unitq/unitq-backend/internal/service"
	"github.com/unitq/unitq-backend/internal/validator"
)

// SessionHandler handles session lifecycle, navigation, answer submission
// and the study timer endpoints.
type SessionHandler struct {
	sessionService    *service.SessionService
	submissionService *service.SubmissionService
	segmentService    *service.SegmentService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessionService *service.SessionService,
	submissionService *service.SubmissionService,
	segmentService *service.SegmentService,
) *SessionHandler {
	return &SessionHandler{
		sessionService:    sessionService,
		submissionService: submissionService,
		segmentService:    segmentService,
	}
}

// CreateMockRequest selects the unit scope and size of a mock session.
type CreateMockRequest struct {
	UnitIDs []int64 `json:"unit_ids" binding:"required,min=1"`
	Count   int     `json:"count" binding:"omitempty,min=1"`
}

// CreateAllRequest selects the unit scope of a random-draw session.
type CreateAllRequest struct {
	UnitIDs []int64 `json:"unit_ids" binding:"required,min=1"`
}

// CreateByUnit godoc
// POST /api/v1/sessions/by-unit/:unit_id
// Starts a session over every question of one unit in shuffled order.
func (h *SessionHandler) CreateByUnit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	unitID, err := strconv.ParseInt(c.Param("unit_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.sessionService.CreateUnitSession(c.Request.Context(), claims.UserID, unitID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": summary})
}

// CreateByMock godoc
// POST /api/v1/sessions/by-mock
// Starts a fixed-size session drawn across several units.
func (h *SessionHandler) CreateByMock(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req CreateMockRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.sessionService.CreateMockSession(c.Request.Context(), claims.UserID, req.UnitIDs, req.Count)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": summary})
}

// CreateByAll godoc
// POST /api/v1/sessions/by-all
// Starts a random-draw session over several units.
func (h *SessionHandler) CreateByAll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req CreateAllRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.sessionService.CreateAllSession(c.Request.Context(), claims.UserID, req.UnitIDs)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": summary})
}

// GetLatest godoc
// GET /api/v1/sessions/latest
// Returns the user's most recent session for resume prompts.
func (h *SessionHandler) GetLatest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.sessionService.GetLatest(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": summary})
}

// Get godoc
// GET /api/v1/sessions/:session_id
func (h *SessionHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	summary, err := h.sessionService.Get(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": summary})
}

// Next godoc
// GET /api/v1/sessions/:session_id/next?current_question_map_id=...
// Serves the next question. Omitting the cursor starts the session.
func (h *SessionHandler) Next(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	cursor, ok := optionalQueryID(c, "current_question_map_id")
	if !ok {
		return
	}

	step, err := h.sessionService.Next(c.Request.Context(), claims.UserID, sessionID, cursor)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, step)
}

// Previous godoc
// GET /api/v1/sessions/:session_id/previous?current_question_map_id=...
func (h *SessionHandler) Previous(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	cursor, ok := optionalQueryID(c, "current_question_map_id")
	if !ok {
		return
	}
	if cursor == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	step, err := h.sessionService.Previous(c.Request.Context(), claims.UserID, sessionID, *cursor)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, step)
}

// Current godoc
// GET /api/v1/sessions/:session_id/current
// Re-serves the resume position without advancing.
func (h *SessionHandler) Current(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	step, err := h.sessionService.Current(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, step)
}

// Submit godoc
// POST /api/v1/sessions/:session_id/questions/:question_map_id/answer
// Grades an answer against a question instance of the session.
func (h *SessionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}
	questionMapID, ok := pathID(c, "question_map_id")
	if !ok {
		return
	}

	var sub submissionRequest
	if fields := validator.Bind(c, &sub); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), claims.UserID, sessionID, questionMapID, sub.toModel())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// StartSegment godoc
// POST /api/v1/sessions/:session_id/segments/start
// Opens a fresh study segment, closing any running one.
func (h *SessionHandler) StartSegment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	seg, err := h.segmentService.Start(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"segment": seg})
}

// StopSegment godoc
// POST /api/v1/sessions/:session_id/segments/stop
func (h *SessionHandler) StopSegment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	if err := h.segmentService.Stop(c.Request.Context(), claims.UserID, sessionID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stopped": true})
}

// Heartbeat godoc
// POST /api/v1/sessions/:session_id/segments/heartbeat
// Keeps the running segment alive, opening one if none is running.
func (h *SessionHandler) Heartbeat(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	if err := h.segmentService.Heartbeat(c.Request.Context(), claims.UserID, sessionID); err != nil {
		failFromService(c, err)
		return
	}

	elapsed, err := h.segmentService.ElapsedMs(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"elapsed_ms": elapsed})
}

// ElapsedMs godoc
// GET /api/v1/sessions/:session_id/elapsed-ms
func (h *SessionHandler) ElapsedMs(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	elapsed, err := h.segmentService.ElapsedMs(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"elapsed_ms": elapsed})
}

// pathID parses an int64 path parameter, failing the request on bad input.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// optionalQueryID parses an optional int64 query parameter. Absent means
// nil; present but malformed fails the request.
func optionalQueryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	return &id, true
}
