package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
)

// RespondError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error; the detail still goes back to
// the caller since every domain failure here is recoverable.
func RespondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidSchedule),
		errors.Is(err, model.ErrInvalidPrice):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrImmutableField),
		errors.Is(err, model.ErrContestNotActive),
		errors.Is(err, model.ErrDuplicateAttempt),
		errors.Is(err, model.ErrLeaderboardFrozen):
		status = http.StatusConflict
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
