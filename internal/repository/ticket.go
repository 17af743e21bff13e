// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"live-lottery-engine/internal/model"
)

// Common errors for repository operations.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAccountNotFound    = errors.New("slot machine account not found")
	ErrItemNotFound       = errors.New("live item not found")
	ErrActivationBounds   = errors.New("activated quantity outside owned quantity")
)

// TicketRepository handles lottery ticket persistence. Tickets are
// append-only; expiry is a read-time filter applied by the weight math.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository creates a new TicketRepository instance.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, user_id, quantity, source, expires_at, created_at`

// Create inserts a new ticket grant.
func (r *TicketRepository) Create(ctx context.Context, userID string, quantity int, source string, expiresAt *time.Time) (*model.Ticket, error) {
	const query = `
		INSERT INTO tickets (id, user_id, quantity, source, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + ticketColumns

	var t model.Ticket
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), userID, quantity, source, expiresAt).Scan(
		&t.ID, &t.UserID, &t.Quantity, &t.Source, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return &t, nil
}

// GetByUserID retrieves all tickets for a user, newest first. Expired
// tickets are included; filtering is the caller's concern.
func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]*model.Ticket, error) {
	const query = `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// GetByUserIDs retrieves tickets for a set of users in one query, grouped
// by owner. The chance engine uses this to weigh every pending submission
// without a per-user round trip.
func (r *TicketRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string][]*model.Ticket, error) {
	if len(userIDs) == 0 {
		return map[string][]*model.Ticket{}, nil
	}

	const query = `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for users: %w", err)
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*model.Ticket, len(userIDs))
	for _, t := range tickets {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}
	return byUser, nil
}

func scanTickets(rows pgx.Rows) ([]*model.Ticket, error) {
	var tickets []*model.Ticket
	for rows.Next() {
		var t model.Ticket
		err := rows.Scan(&t.ID, &t.UserID, &t.Quantity, &t.Source, &t.ExpiresAt, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}
	return tickets, nil
}
