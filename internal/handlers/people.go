package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type PersonHandler struct {
	people services.PersonService
	flags  services.FlagService
}

func NewPersonHandler(people services.PersonService, flags services.FlagService) *PersonHandler {
	return &PersonHandler{people: people, flags: flags}
}

// GET /api/people?institution_id=...
func (h *PersonHandler) List(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	people, err := h.people.List(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"people": people})
}

// PATCH /api/people/:id
func (h *PersonHandler) Update(c *gin.Context) {
	personID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_person_id", err)
		return
	}
	var input services.UpdatePersonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	person, err := h.people.Update(c.Request.Context(), personID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"person": person})
}

// DELETE /api/people/:id
func (h *PersonHandler) Delete(c *gin.Context) {
	personID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_person_id", err)
		return
	}
	if err := h.people.Delete(c.Request.Context(), personID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

type mergePersonRequest struct {
	Into uuid.UUID `json:"into" binding:"required"`
}

// POST /api/people/:id/merge
// The path person is merged away; the body names the survivor.
func (h *PersonHandler) Merge(c *gin.Context) {
	mergedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_person_id", err)
		return
	}
	var req mergePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	flag, err := h.flags.MergePeople(c.Request.Context(), req.Into, mergedID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"flag": flag})
}
