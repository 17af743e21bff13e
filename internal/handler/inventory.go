package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/lottery"
	"live-lottery-engine/internal/model"
)

// Inventory is the ticket and item surface.
type Inventory interface {
	ListTickets(ctx context.Context, userID string) ([]*model.Ticket, error)
	GetCatalog(ctx context.Context) ([]*model.LiveItem, error)
	ListItems(ctx context.Context, userID string) ([]*model.UserLiveItem, error)
	Activate(ctx context.Context, userID, userItemID string, activated int) (*model.UserLiveItem, error)
}

// InventoryHandler serves ticket and item endpoints.
type InventoryHandler struct {
	inventory Inventory
}

// NewInventoryHandler creates a new InventoryHandler instance.
func NewInventoryHandler(inventory Inventory) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ListTickets returns the caller's ticket grants plus the active count.
func (h *InventoryHandler) ListTickets(c *gin.Context) {
	ticketList, err := h.inventory.ListTickets(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"tickets":     ticketList,
		"activeCount": lottery.ActiveTicketCount(ticketList, time.Now()),
	})
}

// GetCatalog returns the active item catalog.
func (h *InventoryHandler) GetCatalog(c *gin.Context) {
	items, err := h.inventory.GetCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

// ListItems returns the caller's item holdings.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

type activateRequest struct {
	Quantity int `json:"quantity"`
}

// Activate sets the activated quantity on one of the caller's holdings.
func (h *InventoryHandler) Activate(c *gin.Context) {
	var body activateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	item, err := h.inventory.Activate(c.Request.Context(), userID(c), c.Param("id"), body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, item)
}
