package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/service"
)

// Admin is the operator-only surface.
type Admin interface {
	GrantTickets(ctx context.Context, userID string, quantity int, expiresAt *time.Time) (*model.Ticket, error)
	SetTimeOffset(ctx context.Context, minutes int) error
	Purge(ctx context.Context) (*service.PurgeResult, error)
}

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	admin Admin
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(admin Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type grantTicketsRequest struct {
	UserID    string     `json:"userId"`
	Quantity  int        `json:"quantity"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// GrantTickets credits tickets to a user.
func (h *AdminHandler) GrantTickets(c *gin.Context) {
	var body grantTicketsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	ticket, err := h.admin.GrantTickets(c.Request.Context(), body.UserID, body.Quantity, body.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, ticket)
}

type timeOffsetRequest struct {
	Minutes int `json:"minutes"`
}

// SetTimeOffset stores the session multiplier's test-time offset.
func (h *AdminHandler) SetTimeOffset(c *gin.Context) {
	var body timeOffsetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.admin.SetTimeOffset(c.Request.Context(), body.Minutes); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"minutes": body.Minutes})
}

// Purge deletes every submission and its stored blob.
func (h *AdminHandler) Purge(c *gin.Context) {
	result, err := h.admin.Purge(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
