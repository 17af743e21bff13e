package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/lottery"
)

// ChanceProvider computes per-user odds.
type ChanceProvider interface {
	GetChance(ctx context.Context, userID string) (*lottery.Result, error)
}

// ChanceHandler serves the odds endpoint.
type ChanceHandler struct {
	chances ChanceProvider
}

// NewChanceHandler creates a new ChanceHandler instance.
func NewChanceHandler(chances ChanceProvider) *ChanceHandler {
	return &ChanceHandler{chances: chances}
}

// Get returns the caller's current odds snapshot.
func (h *ChanceHandler) Get(c *gin.Context) {
	result, err := h.chances.GetChance(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
