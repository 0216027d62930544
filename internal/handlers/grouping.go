package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type GroupingHandler struct {
	grouping services.GroupingService
}

func NewGroupingHandler(grouping services.GroupingService) *GroupingHandler {
	return &GroupingHandler{grouping: grouping}
}

type runGroupingRequest struct {
	InstitutionID uuid.UUID `json:"institution_id" binding:"required"`
}

// POST /api/grouping/run
func (h *GroupingHandler) RunGrouping(c *gin.Context) {
	var req runGroupingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.grouping.RunGrouping(c.Request.Context(), req.InstitutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
