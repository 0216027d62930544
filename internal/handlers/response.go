package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/kinship-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps sentinel service failures to the status and code
// the calling layer keys off; anything unrecognized is a 500.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrFlagNotFound):
		RespondError(c, http.StatusNotFound, "flag_not_found", err)
	case errors.Is(err, pkgerrors.ErrFlagUndone):
		RespondError(c, http.StatusConflict, "flag_already_undone", err)
	case errors.Is(err, pkgerrors.ErrFlagFinalized):
		RespondError(c, http.StatusConflict, "flag_already_finalized", err)
	case errors.Is(err, pkgerrors.ErrFlagNotMerge):
		RespondError(c, http.StatusConflict, "flag_not_merge_action", err)
	case errors.Is(err, pkgerrors.ErrPersonNotFound):
		RespondError(c, http.StatusNotFound, "person_not_found", err)
	case errors.Is(err, pkgerrors.ErrHouseholdNotFound):
		RespondError(c, http.StatusNotFound, "household_not_found", err)
	case errors.Is(err, pkgerrors.ErrMemberNotFound):
		RespondError(c, http.StatusNotFound, "member_not_found", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
