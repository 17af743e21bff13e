package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/service"
)

// SlotEconomy is the token economy surface.
type SlotEconomy interface {
	GetAccount(ctx context.Context, userID string) (*model.SlotMachineAccount, error)
	Spin(ctx context.Context, userID string, count int) (*service.SpinResult, error)
}

// SlotHandler serves the slot machine endpoints.
type SlotHandler struct {
	economy SlotEconomy
}

// NewSlotHandler creates a new SlotHandler instance.
func NewSlotHandler(economy SlotEconomy) *SlotHandler {
	return &SlotHandler{economy: economy}
}

// GetAccount returns the caller's account, applying the lazy daily reset.
func (h *SlotHandler) GetAccount(c *gin.Context) {
	acct, err := h.economy.GetAccount(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, acct)
}

type spinRequest struct {
	Count int `json:"count"`
}

// Spin runs a batch of spins for the caller.
func (h *SlotHandler) Spin(c *gin.Context) {
	var body spinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	result, err := h.economy.Spin(c.Request.Context(), userID(c), body.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
