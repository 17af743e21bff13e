// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"live-lottery-engine/internal/lottery"
	"live-lottery-engine/internal/model"
)

// drawLister provides the submissions currently in the draw.
type drawLister interface {
	ListInDraw(ctx context.Context) ([]*model.Submission, error)
	HasRolled(ctx context.Context, userID string) (bool, error)
}

// ticketReader provides ticket ledgers for a set of users.
type ticketReader interface {
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string][]*model.Ticket, error)
}

// activatedItemReader provides activated item holdings for a set of users.
type activatedItemReader interface {
	GetActivatedByUserIDs(ctx context.Context, userIDs []string) (map[string][]*model.UserLiveItem, error)
}

// settingReader provides operational settings.
type settingReader interface {
	GetInt(ctx context.Context, key string) (int, error)
}

// ChanceService computes per-user lottery odds from the live draw pool.
type ChanceService struct {
	submissions drawLister
	tickets     ticketReader
	items       activatedItemReader
	settings    settingReader
	itemBonus   float64
	now         func() time.Time
}

// NewChanceService creates a new ChanceService instance.
func NewChanceService(submissions drawLister, tickets ticketReader, items activatedItemReader, settings settingReader, itemBonus float64) *ChanceService {
	return &ChanceService{
		submissions: submissions,
		tickets:     tickets,
		items:       items,
		settings:    settings,
		itemBonus:   itemBonus,
		now:         time.Now,
	}
}

// GetChance returns the user's current odds snapshot. Any ledger read
// failure aborts the computation rather than degrading to partial odds.
func (s *ChanceService) GetChance(ctx context.Context, userID string) (*lottery.Result, error) {
	now := s.now()

	subs, err := s.submissions.ListInDraw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw pool: %w", err)
	}

	rolled, err := s.submissions.HasRolled(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check roll state: %w", err)
	}

	userIDs := make([]string, 0, len(subs)+1)
	seen := make(map[string]bool, len(subs)+1)
	for _, sub := range subs {
		if !seen[sub.UserID] {
			seen[sub.UserID] = true
			userIDs = append(userIDs, sub.UserID)
		}
	}
	if !seen[userID] {
		userIDs = append(userIDs, userID)
	}

	ticketsByUser, err := s.tickets.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket ledgers: %w", err)
	}
	itemsByUser, err := s.items.GetActivatedByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load item ledgers: %w", err)
	}

	offset, err := s.settings.GetInt(ctx, model.SettingTimeOffsetMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to load time offset: %w", err)
	}

	entries := make([]lottery.Entry, 0, len(subs))
	for _, sub := range subs {
		entries = append(entries, lottery.Entry{
			SubmissionID: sub.ID,
			UserID:       sub.UserID,
			SubmittedAt:  sub.CreatedAt,
			BaseWeight:   lottery.TicketWeight(ticketsByUser[sub.UserID], itemsByUser[sub.UserID], s.itemBonus, now),
		})
	}

	sessionStart := lottery.SessionStart(entries, now)
	chance, multiplier, hasSubmission := lottery.ComputeChance(entries, userID, sessionStart, offset)

	// A user whose submission already rolled is out of the draw, even if
	// they have another pending submission in the pool.
	if rolled {
		chance = 0
	}

	return &lottery.Result{
		Multiplier:       multiplier,
		ChancePercentage: chance,
		ActiveTickets:    lottery.ActiveTicketCount(ticketsByUser[userID], now),
		HasSubmission:    hasSubmission,
		IsRolled:         rolled,
	}, nil
}
