package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pretenz/internal/service"
)

// ParseHandler handles claim parsing endpoints.
type ParseHandler struct {
	svc service.ParseService
}

// NewParseHandler creates a new ParseHandler.
func NewParseHandler(svc service.ParseService) *ParseHandler {
	return &ParseHandler{svc: svc}
}

type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Parse handles POST /api/v1/claims/parse
func (h *ParseHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	record, err := h.svc.Parse(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, record)
}

// GetByID handles GET /api/v1/claims/:id
func (h *ParseHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record id")
		return
	}

	record, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// List handles GET /api/v1/claims
func (h *ParseHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, records, PagMeta{Offset: offset, Limit: limit})
}
