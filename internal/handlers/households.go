package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type HouseholdHandler struct {
	households services.HouseholdService
}

func NewHouseholdHandler(households services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{households: households}
}

// GET /api/households?institution_id=...
func (h *HouseholdHandler) List(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	households, err := h.households.List(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"households": households})
}

// GET /api/households/:id/members
func (h *HouseholdHandler) Members(c *gin.Context) {
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_household_id", err)
		return
	}
	members, err := h.households.Members(c.Request.Context(), householdID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"members": members})
}

type addMemberRequest struct {
	PersonID uuid.UUID `json:"person_id" binding:"required"`
	Role     string    `json:"role"`
}

// POST /api/households/:id/members
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_household_id", err)
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	member, err := h.households.AddMember(c.Request.Context(), householdID, req.PersonID, req.Role)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"member": member})
}

// DELETE /api/households/:id/members/:personId
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_household_id", err)
		return
	}
	personID, err := uuid.Parse(c.Param("personId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_person_id", err)
		return
	}
	if err := h.households.RemoveMember(c.Request.Context(), householdID, personID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

// DELETE /api/households/:id
func (h *HouseholdHandler) Delete(c *gin.Context) {
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_household_id", err)
		return
	}
	if err := h.households.Delete(c.Request.Context(), householdID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
