package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pretenz/internal/service"
)

// EntityHandler handles standalone entity validation endpoints.
type EntityHandler struct {
	svc service.EntityService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(svc service.EntityService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// Validate handles POST /api/v1/entities/validate
func (h *EntityHandler) Validate(c *gin.Context) {
	var input service.ValidateEntityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request payload")
		return
	}
	if input.Name == "" && input.INN == "" && input.KPP == "" && input.OGRN == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one of name, inn, kpp, ogrn is required")
		return
	}

	RespondOK(c, h.svc.Validate(input))
}
