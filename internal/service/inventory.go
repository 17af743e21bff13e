package service

import (
	"context"
	"time"

	"live-lottery-engine/internal/model"
)

// ticketStore is the ticket surface the inventory needs.
type ticketStore interface {
	Create(ctx context.Context, userID string, quantity int, source string, expiresAt *time.Time) (*model.Ticket, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Ticket, error)
}

// itemStore is the item surface the inventory needs.
type itemStore interface {
	GetCatalog(ctx context.Context) ([]*model.LiveItem, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.UserLiveItem, error)
	SetActivated(ctx context.Context, userID, userItemID string, activated int) (*model.UserLiveItem, error)
}

// InventoryService exposes read access to ticket and item holdings, plus
// item activation. Activation persists until the owner changes it; there
// is no per-session reset.
type InventoryService struct {
	tickets ticketStore
	items   itemStore
}

// NewInventoryService creates a new InventoryService instance.
func NewInventoryService(tickets ticketStore, items itemStore) *InventoryService {
	return &InventoryService{tickets: tickets, items: items}
}

// ListTickets retrieves the caller's ticket grants.
func (s *InventoryService) ListTickets(ctx context.Context, userID string) ([]*model.Ticket, error) {
	return s.tickets.GetByUserID(ctx, userID)
}

// GetCatalog retrieves the active item catalog.
func (s *InventoryService) GetCatalog(ctx context.Context) ([]*model.LiveItem, error) {
	return s.items.GetCatalog(ctx)
}

// ListItems retrieves the caller's item holdings.
func (s *InventoryService) ListItems(ctx context.Context, userID string) ([]*model.UserLiveItem, error) {
	return s.items.GetByUserID(ctx, userID)
}

// Activate sets the activated quantity on one of the caller's holdings.
func (s *InventoryService) Activate(ctx context.Context, userID, userItemID string, activated int) (*model.UserLiveItem, error) {
	return s.items.SetActivated(ctx, userID, userItemID, activated)
}
