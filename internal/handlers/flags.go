package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type FlagHandler struct {
	flags services.FlagService
}

func NewFlagHandler(flags services.FlagService) *FlagHandler {
	return &FlagHandler{flags: flags}
}

// POST /api/flags/:id/undo
func (h *FlagHandler) Undo(c *gin.Context) {
	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_flag_id", err)
		return
	}
	flag, err := h.flags.UndoFlag(c.Request.Context(), flagID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"flag": flag})
}

type finalizeFlagRequest struct {
	Actor string `json:"actor" binding:"required"`
}

// POST /api/flags/:id/finalize
func (h *FlagHandler) Finalize(c *gin.Context) {
	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_flag_id", err)
		return
	}
	var req finalizeFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	flag, err := h.flags.FinalizeFlag(c.Request.Context(), flagID, req.Actor)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"flag": flag})
}

// GET /api/flags?institution_id=...
func (h *FlagHandler) List(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	flags, err := h.flags.ListFlags(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"flags": flags})
}
