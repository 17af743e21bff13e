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

// Settlement is the aggregate outcome of a spin batch to persist. Cost is
// the total token price of the batch; the token delta lands on the account
// in a single write.
type Settlement struct {
	Cost           int64
	TokensWon      int64
	Spins          int64
	Wins           int64
	EternalTickets int
	QueueSkips     int
}

// EconomyRepository handles slot machine account persistence.
type EconomyRepository struct {
	pool *pgxpool.Pool
}

// NewEconomyRepository creates a new EconomyRepository instance.
func NewEconomyRepository(pool *pgxpool.Pool) *EconomyRepository {
	return &EconomyRepository{pool: pool}
}

const accountColumns = `user_id, tokens, total_spins, total_wins, last_reset_date, created_at, updated_at`

// GetOrCreate fetches a user's account, creating it with the starting
// allowance on first touch.
func (r *EconomyRepository) GetOrCreate(ctx context.Context, userID string, startingTokens int64) (*model.SlotMachineAccount, error) {
	const insert = `
		INSERT INTO slot_accounts (user_id, tokens, total_spins, total_wins, last_reset_date, created_at, updated_at)
		VALUES ($1, $2, 0, 0, CURRENT_DATE, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, insert, userID, startingTokens); err != nil {
		return nil, fmt.Errorf("failed to create slot account: %w", err)
	}

	const query = `SELECT ` + accountColumns + ` FROM slot_accounts WHERE user_id = $1`

	var a model.SlotMachineAccount
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.Tokens, &a.TotalSpins, &a.TotalWins, &a.LastResetDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get slot account: %w", err)
	}
	return &a, nil
}

// ResetDaily sets the balance to the daily allowance if the account's last
// reset was on an earlier calendar day. Unspent tokens do not carry over.
// The date guard in the WHERE clause makes concurrent resets idempotent:
// only one of them matches.
func (r *EconomyRepository) ResetDaily(ctx context.Context, userID string, allowance int64) (*model.SlotMachineAccount, error) {
	const query = `
		UPDATE slot_accounts
		SET tokens = $2,
		    last_reset_date = CURRENT_DATE,
		    updated_at = NOW()
		WHERE user_id = $1 AND last_reset_date < CURRENT_DATE
		RETURNING ` + accountColumns

	var a model.SlotMachineAccount
	err := r.pool.QueryRow(ctx, query, userID, allowance).Scan(
		&a.UserID, &a.Tokens, &a.TotalSpins, &a.TotalWins, &a.LastResetDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already reset today, or the account does not exist; the
			// caller re-reads either way.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reset slot account: %w", err)
	}
	return &a, nil
}

// Settle applies a spin batch atomically: one balance write covering cost
// and winnings, plus any reward bridging into tickets and items. The funds
// check is re-done under row lock so a racing batch cannot drive the
// balance negative; on shortfall it returns *model.InsufficientFundsError.
func (r *EconomyRepository) Settle(ctx context.Context, userID string, s Settlement) (*model.SlotMachineAccount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	var tokens int64
	err = tx.QueryRow(ctx, `SELECT tokens FROM slot_accounts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&tokens)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock slot account: %w", err)
	}
	if tokens < s.Cost {
		return nil, &model.InsufficientFundsError{Required: s.Cost, Available: tokens}
	}

	const update = `
		UPDATE slot_accounts
		SET tokens = tokens - $2 + $3,
		    total_spins = total_spins + $4,
		    total_wins = total_wins + $5,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + accountColumns

	var a model.SlotMachineAccount
	err = tx.QueryRow(ctx, update, userID, s.Cost, s.TokensWon, s.Spins, s.Wins).Scan(
		&a.UserID, &a.Tokens, &a.TotalSpins, &a.TotalWins, &a.LastResetDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle slot account: %w", err)
	}

	if s.EternalTickets > 0 {
		const grantTickets = `
			INSERT INTO tickets (id, user_id, quantity, source, expires_at, created_at)
			VALUES ($1, $2, $3, $4, NULL, NOW())
		`
		_, err = tx.Exec(ctx, grantTickets, uuid.NewString(), userID, s.EternalTickets, model.TicketSourceSlotReward)
		if err != nil {
			return nil, fmt.Errorf("failed to grant eternal tickets: %w", err)
		}
	}

	if s.QueueSkips > 0 {
		if err := grantItemTx(ctx, tx, userID, model.ItemTypeQueueSkip, s.QueueSkips); err != nil {
			return nil, err
		}
	}

	if s.Wins > 0 {
		if err := advanceLuckyMeter(ctx, tx, userID, s.Wins); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return &a, nil
}

// grantItemTx is the in-transaction variant of ItemRepository.Grant.
func grantItemTx(ctx context.Context, tx pgx.Tx, userID, itemType string, quantity int) error {
	const query = `
		INSERT INTO user_live_items (id, user_id, item_id, quantity, activated_quantity, metadata, created_at, updated_at)
		SELECT $1, $2, li.id, $4, 0, '{"current":0,"threshold":0}', NOW(), NOW()
		FROM live_items li WHERE li.type = $3
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = user_live_items.quantity + $4, updated_at = NOW()
	`

	tag, err := tx.Exec(ctx, query, uuid.NewString(), userID, itemType, quantity)
	if err != nil {
		return fmt.Errorf("failed to grant %s: %w", itemType, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// advanceLuckyMeter credits wins toward the user's lucky meter, if they own
// one, and converts each full threshold into a bonus ticket.
func advanceLuckyMeter(ctx context.Context, tx pgx.Tx, userID string, wins int64) error {
	const query = `
		SELECT ui.id, ui.metadata
		FROM user_live_items ui
		JOIN live_items li ON li.id = ui.item_id
		WHERE ui.user_id = $1 AND li.type = $2 AND ui.quantity > 0
		FOR UPDATE
	`

	var holdingID string
	var meta model.CounterMetadata
	err := tx.QueryRow(ctx, query, userID, model.ItemTypeLuckyMeter).Scan(&holdingID, &meta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to read lucky meter: %w", err)
	}
	if meta.Threshold <= 0 {
		return nil
	}

	meta.Current += int(wins)
	bonuses := meta.Current / meta.Threshold
	meta.Current %= meta.Threshold

	if _, err := tx.Exec(ctx, `UPDATE user_live_items SET metadata = $2, updated_at = NOW() WHERE id = $1`, holdingID, meta); err != nil {
		return fmt.Errorf("failed to advance lucky meter: %w", err)
	}

	if bonuses > 0 {
		const grant = `
			INSERT INTO tickets (id, user_id, quantity, source, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`
		expires := time.Now().Add(7 * 24 * time.Hour)
		_, err = tx.Exec(ctx, grant, uuid.NewString(), userID, bonuses, model.TicketSourceCounterBonus, expires)
		if err != nil {
			return fmt.Errorf("failed to grant counter bonus: %w", err)
		}
	}
	return nil
}
