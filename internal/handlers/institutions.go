package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type InstitutionHandler struct {
	institutions services.InstitutionService
}

func NewInstitutionHandler(institutions services.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutions: institutions}
}

type createInstitutionRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/institutions
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req createInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	institution, err := h.institutions.Create(c.Request.Context(), req.Name)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"institution": institution})
}

// GET /api/institutions/:id
func (h *InstitutionHandler) Get(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	institution, err := h.institutions.Get(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"institution": institution})
}
