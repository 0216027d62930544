package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/kinship-backend/internal/services"
)

type ImportHandler struct {
	imports services.ImportService
}

func NewImportHandler(imports services.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

type runImportRequest struct {
	InstitutionID uuid.UUID `json:"institution_id" binding:"required"`
	FileName      string    `json:"file_name" binding:"required"`
	Content       string    `json:"content" binding:"required"`
	Mode          string    `json:"mode"`
	DataType      string    `json:"data_type"`
}

// POST /api/imports
func (h *ImportHandler) RunImport(c *gin.Context) {
	var req runImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.imports.RunImport(c.Request.Context(), req.InstitutionID, req.Content, req.FileName, services.ImportOptions{
		Mode:     req.Mode,
		DataType: req.DataType,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

// GET /api/imports/:id
func (h *ImportHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	job, err := h.imports.GetJob(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// GET /api/imports?institution_id=...
func (h *ImportHandler) ListJobs(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	jobs, err := h.imports.ListJobs(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"jobs": jobs})
}
