package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitq/unitq-backend/internal/middleware"
	"github.com/unitq/unitq-backend/internal/response"
	"github.com/unitq/unitq-backend/internal/service"
)

// UnitHandler handles the unit browse endpoints.
type UnitHandler struct {
	unitService *service.UnitService
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(unitService *service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// List godoc
// GET /api/v1/units
// Lists the units a session can be created over.
func (h *UnitHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	units, err := h.unitService.List(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"units": units})
}

// Get godoc
// GET /api/v1/units/:unit_id
func (h *UnitHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	unitID, ok := pathID(c, "unit_id")
	if !ok {
		return
	}

	unit, err := h.unitService.Get(c.Request.Context(), unitID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": unit})
}
