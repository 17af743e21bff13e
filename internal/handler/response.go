package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/repository"
	"live-lottery-engine/internal/service"
	"live-lottery-engine/internal/submission"
)

// respondData writes the success envelope.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and surface as a bare 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var insufficient *model.InsufficientFundsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": insufficient.Error(),
			"details": gin.H{
				"required":  insufficient.Required,
				"available": insufficient.Available,
				"shortfall": insufficient.Shortfall(),
			},
		})
		return
	}

	switch {
	case errors.Is(err, repository.ErrSubmissionNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, submission.ErrDraftImmutable),
		errors.Is(err, submission.ErrUnrollForbidden):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, submission.ErrEmptyPatch),
		errors.Is(err, submission.ErrInvalidStatus),
		errors.Is(err, repository.ErrActivationBounds),
		errors.Is(err, service.ErrInvalidBatchSize),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyFileRef):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
