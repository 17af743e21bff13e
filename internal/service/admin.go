package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/storage"
)

// Common errors for admin operations.
var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// purgeStore is the submission surface the purge needs.
type purgeStore interface {
	ListFileRefs(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ticketGranter creates ticket grants.
type ticketGranter interface {
	Create(ctx context.Context, userID string, quantity int, source string, expiresAt *time.Time) (*model.Ticket, error)
}

// settingWriter persists operational settings.
type settingWriter interface {
	Set(ctx context.Context, key, value string) error
}

// PurgeResult reports what a purge actually removed. File deletes are
// best-effort: failures are counted, never retried, and never block the
// database deletes that follow.
type PurgeResult struct {
	DBDeleted    int64 `json:"dbDeleted"`
	FilesDeleted int   `json:"filesDeleted"`
	FileErrors   int   `json:"fileErrors"`
}

// AdminService handles operator-only actions: ticket grants, the test-time
// offset, and the full submission purge.
type AdminService struct {
	submissions purgeStore
	tickets     ticketGranter
	settings    settingWriter
	blobs       storage.BlobStore
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(submissions purgeStore, tickets ticketGranter, settings settingWriter, blobs storage.BlobStore) *AdminService {
	return &AdminService{
		submissions: submissions,
		tickets:     tickets,
		settings:    settings,
		blobs:       blobs,
	}
}

// GrantTickets credits a manual ticket grant to a user.
func (s *AdminService) GrantTickets(ctx context.Context, userID string, quantity int, expiresAt *time.Time) (*model.Ticket, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	ticket, err := s.tickets.Create(ctx, userID, quantity, model.TicketSourceManualGrant, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to grant tickets: %w", err)
	}
	return ticket, nil
}

// SetTimeOffset stores the elapsed-time offset consumed by the session
// multiplier. Zero restores real time.
func (s *AdminService) SetTimeOffset(ctx context.Context, minutes int) error {
	return s.settings.Set(ctx, model.SettingTimeOffsetMinutes, strconv.Itoa(minutes))
}

// Purge deletes every submission: stored blobs first, then the database
// rows. A blob that fails to delete is counted and skipped; the rows are
// removed regardless, so the caller always learns the true database count.
func (s *AdminService) Purge(ctx context.Context) (*PurgeResult, error) {
	refs, err := s.submissions.ListFileRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list file refs for purge: %w", err)
	}

	result := &PurgeResult{}
	for _, ref := range refs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			result.FileErrors++
			log.Warn().Err(err).Str("ref", ref).Msg("purge: blob delete failed")
			continue
		}
		result.FilesDeleted++
	}

	deleted, err := s.submissions.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete submissions: %w", err)
	}
	result.DBDeleted = deleted

	log.Info().
		Int64("dbDeleted", result.DBDeleted).
		Int("filesDeleted", result.FilesDeleted).
		Int("fileErrors", result.FileErrors).
		Msg("purge completed")
	return result, nil
}
