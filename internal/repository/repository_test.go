// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/submission"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runTestMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runTestMigrations applies the database schema
func runTestMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			quantity INT NOT NULL,
			source VARCHAR(50) NOT NULL,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS live_items (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon VARCHAR(16) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS user_live_items (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			item_id BIGINT NOT NULL REFERENCES live_items(id),
			quantity INT NOT NULL DEFAULT 0,
			activated_quantity INT NOT NULL DEFAULT 0,
			metadata JSONB NOT NULL DEFAULT '{"current":0,"threshold":0}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			file_ref TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			is_rolled BOOLEAN NOT NULL DEFAULT FALSE,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS admin_settings (
			key VARCHAR(100) PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS slot_accounts (
			user_id VARCHAR(64) PRIMARY KEY,
			tokens BIGINT NOT NULL DEFAULT 0,
			total_spins BIGINT NOT NULL DEFAULT 0,
			total_wins BIGINT NOT NULL DEFAULT 0,
			last_reset_date DATE NOT NULL DEFAULT CURRENT_DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`INSERT INTO live_items (type, name) VALUES
			('lottery_boost', 'Lottery Boost'),
			('eternal_ticket', 'Eternal Ticket'),
			('queue_skip', 'Queue Skip'),
			('lucky_meter', 'Lucky Meter')
		ON CONFLICT (type) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// TicketRepository Tests
// ============================================================================

func TestTicketRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewTicketRepository(pool)
	ctx := context.Background()

	expires := time.Now().Add(24 * time.Hour)
	ticket, err := repo.Create(ctx, "user-1", 5, model.TicketSourceManualGrant, &expires)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ticket.UserID)
	assert.Equal(t, 5, ticket.Quantity)
	assert.Equal(t, model.TicketSourceManualGrant, ticket.Source)
	require.NotNil(t, ticket.ExpiresAt)

	_, err = repo.Create(ctx, "user-1", 3, model.TicketSourceSlotReward, nil)
	require.NoError(t, err)

	tickets, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestTicketRepository_GetByUserIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewTicketRepository(pool)
	ctx := context.Background()

	_, _ = repo.Create(ctx, "user-a", 2, model.TicketSourceManualGrant, nil)
	_, _ = repo.Create(ctx, "user-a", 1, model.TicketSourceSlotReward, nil)
	_, _ = repo.Create(ctx, "user-b", 4, model.TicketSourceManualGrant, nil)

	byUser, err := repo.GetByUserIDs(ctx, []string{"user-a", "user-b", "user-c"})
	require.NoError(t, err)
	assert.Len(t, byUser["user-a"], 2)
	assert.Len(t, byUser["user-b"], 1)
	assert.Empty(t, byUser["user-c"])

	empty, err := repo.GetByUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// ============================================================================
// ItemRepository Tests
// ============================================================================

func TestItemRepository_GrantAndActivate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewItemRepository(pool)
	ctx := context.Background()

	// First grant creates the holding, second accumulates.
	require.NoError(t, repo.Grant(ctx, "user-1", model.ItemTypeLotteryBoost, 2))
	require.NoError(t, repo.Grant(ctx, "user-1", model.ItemTypeLotteryBoost, 3))

	items, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 0, items[0].ActivatedQuantity)
	assert.Equal(t, model.ItemTypeLotteryBoost, items[0].ItemType)

	// Activate within bounds.
	updated, err := repo.SetActivated(ctx, "user-1", items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ActivatedQuantity)

	// Deactivate back to zero.
	updated, err = repo.SetActivated(ctx, "user-1", items[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.ActivatedQuantity)
}

func TestItemRepository_SetActivated_Bounds(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewItemRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Grant(ctx, "user-1", model.ItemTypeLotteryBoost, 2))
	items, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = repo.SetActivated(ctx, "user-1", items[0].ID, 3)
	assert.ErrorIs(t, err, ErrActivationBounds)

	_, err = repo.SetActivated(ctx, "user-1", items[0].ID, -1)
	assert.ErrorIs(t, err, ErrActivationBounds)

	// Someone else's holding looks like a missing one.
	_, err = repo.SetActivated(ctx, "user-2", items[0].ID, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemRepository_Grant_UnknownType(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewItemRepository(pool)
	err := repo.Grant(context.Background(), "user-1", "no_such_item", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemRepository_GetActivatedByUserIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewItemRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Grant(ctx, "user-a", model.ItemTypeLotteryBoost, 3))
	require.NoError(t, repo.Grant(ctx, "user-b", model.ItemTypeLotteryBoost, 2))

	items, err := repo.GetByUserID(ctx, "user-a")
	require.NoError(t, err)
	_, err = repo.SetActivated(ctx, "user-a", items[0].ID, 2)
	require.NoError(t, err)

	// user-b never activated, so only user-a shows up.
	byUser, err := repo.GetActivatedByUserIDs(ctx, []string{"user-a", "user-b"})
	require.NoError(t, err)
	require.Len(t, byUser["user-a"], 1)
	assert.Equal(t, 2, byUser["user-a"][0].ActivatedQuantity)
	assert.Empty(t, byUser["user-b"])
}

// ============================================================================
// SubmissionRepository Tests
// ============================================================================

func TestSubmissionRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	sub, err := repo.Create(ctx, "user-1", "blobs/track.mp3", model.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, sub.Status)
	assert.False(t, sub.IsRolled)
	assert.False(t, sub.IsPinned)

	got, err := repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionRepository_ListInDraw(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "user-1", "", model.StatusDraft)
	require.NoError(t, err)
	pending, err := repo.Create(ctx, "user-2", "", model.StatusPending)
	require.NoError(t, err)
	rolled, err := repo.Create(ctx, "user-3", "", model.StatusApproved)
	require.NoError(t, err)

	rolledTrue := true
	_, err = repo.ApplyChanges(ctx, rolled.ID, submission.Changes{IsRolled: &rolledTrue})
	require.NoError(t, err)

	// Drafts and rolled submissions are out of the draw.
	inDraw, err := repo.ListInDraw(ctx)
	require.NoError(t, err)
	require.Len(t, inDraw, 1)
	assert.Equal(t, pending.ID, inDraw[0].ID)
}

func TestSubmissionRepository_HasRolled(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	sub, err := repo.Create(ctx, "user-1", "", model.StatusPending)
	require.NoError(t, err)

	rolled, err := repo.HasRolled(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, rolled)

	rolledTrue := true
	_, err = repo.ApplyChanges(ctx, sub.ID, submission.Changes{IsRolled: &rolledTrue})
	require.NoError(t, err)

	rolled, err = repo.HasRolled(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, rolled)
}

func TestSubmissionRepository_PinForcesRolled(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	sub, err := repo.Create(ctx, "user-1", "", model.StatusPending)
	require.NoError(t, err)

	pinned := true
	updated, err := repo.ApplyChanges(ctx, sub.ID, submission.Changes{Pin: &pinned, IsRolled: &pinned})
	require.NoError(t, err)
	assert.True(t, updated.IsPinned)
	assert.True(t, updated.IsRolled)

	// Unpinning leaves the roll in place.
	unpinned := false
	updated, err = repo.ApplyChanges(ctx, sub.ID, submission.Changes{Pin: &unpinned})
	require.NoError(t, err)
	assert.False(t, updated.IsPinned)
	assert.True(t, updated.IsRolled)
}

func TestSubmissionRepository_PinMovesBetweenSubmissions(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	first, err := repo.Create(ctx, "user-1", "", model.StatusPending)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "user-2", "", model.StatusPending)
	require.NoError(t, err)

	pinned := true
	_, err = repo.ApplyChanges(ctx, first.ID, submission.Changes{Pin: &pinned})
	require.NoError(t, err)
	_, err = repo.ApplyChanges(ctx, second.ID, submission.Changes{Pin: &pinned})
	require.NoError(t, err)

	// The pin moved: the first submission lost it, the roll stayed.
	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPinned)
	assert.True(t, got.IsRolled)

	got, err = repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
}

func TestSubmissionRepository_ConcurrentPins_SingletonSurvives(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	ids := make([]string, 8)
	for i := range ids {
		sub, err := repo.Create(ctx, "user-1", "", model.StatusPending)
		require.NoError(t, err)
		ids[i] = sub.ID
	}

	var wg sync.WaitGroup
	pinned := true
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.ApplyChanges(ctx, id, submission.Changes{Pin: &pinned})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	var count int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE is_pinned`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "exactly one pin must survive concurrent pinning")
}

func TestSubmissionRepository_PurgeCountsAndFileRefs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSubmissionRepository(pool)
	ctx := context.Background()

	_, _ = repo.Create(ctx, "user-1", "blobs/a.mp3", model.StatusPending)
	_, _ = repo.Create(ctx, "user-2", "blobs/b.mp3", model.StatusApproved)
	_, _ = repo.Create(ctx, "user-3", "", model.StatusDraft)

	refs, err := repo.ListFileRefs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"blobs/a.mp3", "blobs/b.mp3"}, refs)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

// ============================================================================
// EconomyRepository Tests
// ============================================================================

func TestEconomyRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ctx := context.Background()

	acct, err := repo.GetOrCreate(ctx, "user-1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acct.Tokens)
	assert.Equal(t, int64(0), acct.TotalSpins)

	// Second call must not re-seed the allowance.
	_, err = repo.Settle(ctx, "user-1", Settlement{Cost: 30, Spins: 10})
	require.NoError(t, err)

	acct, err = repo.GetOrCreate(ctx, "user-1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(70), acct.Tokens)
}

func TestEconomyRepository_ResetDaily_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "user-1", 100)
	require.NoError(t, err)

	// Drain, then backdate the reset stamp to yesterday.
	_, err = repo.Settle(ctx, "user-1", Settlement{Cost: 90, Spins: 30})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE slot_accounts SET last_reset_date = CURRENT_DATE - 1 WHERE user_id = $1`, "user-1")
	require.NoError(t, err)

	acct, err := repo.ResetDaily(ctx, "user-1", 100)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, int64(100), acct.Tokens)
	// Cumulative stats survive the reset.
	assert.Equal(t, int64(30), acct.TotalSpins)

	// Same-day repeat is a no-op.
	acct, err = repo.ResetDaily(ctx, "user-1", 100)
	require.NoError(t, err)
	assert.Nil(t, acct)
}

// A balance above the allowance does not carry over: the reset is an
// assignment, not a top-up.
func TestEconomyRepository_ResetDaily_AssignsAllowance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "user-1", 100)
	require.NoError(t, err)
	_, err = repo.Settle(ctx, "user-1", Settlement{Cost: 3, TokensWon: 500, Spins: 1, Wins: 1})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE slot_accounts SET last_reset_date = CURRENT_DATE - 1 WHERE user_id = $1`, "user-1")
	require.NoError(t, err)

	acct, err := repo.ResetDaily(ctx, "user-1", 100)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, int64(100), acct.Tokens)
}

func TestEconomyRepository_Settle_InsufficientFunds(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "user-1", 10)
	require.NoError(t, err)

	_, err = repo.Settle(ctx, "user-1", Settlement{Cost: 30, Spins: 10})
	var insufficient *model.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(30), insufficient.Required)
	assert.Equal(t, int64(10), insufficient.Available)
	assert.Equal(t, int64(20), insufficient.Shortfall())

	// The failed batch left the account untouched.
	acct, err := repo.GetOrCreate(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acct.Tokens)
	assert.Equal(t, int64(0), acct.TotalSpins)
}

func TestEconomyRepository_Settle_BridgesRewards(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	itemRepo := NewItemRepository(pool)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "user-1", 100)
	require.NoError(t, err)

	acct, err := repo.Settle(ctx, "user-1", Settlement{
		Cost:           30,
		TokensWon:      45,
		Spins:          10,
		Wins:           4,
		EternalTickets: 1,
		QueueSkips:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(115), acct.Tokens)
	assert.Equal(t, int64(10), acct.TotalSpins)
	assert.Equal(t, int64(4), acct.TotalWins)

	tickets, err := ticketRepo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, model.TicketSourceSlotReward, tickets[0].Source)
	assert.Nil(t, tickets[0].ExpiresAt)

	items, err := itemRepo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.ItemTypeQueueSkip, items[0].ItemType)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestEconomyRepository_Settle_AdvancesLuckyMeter(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEconomyRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	itemRepo := NewItemRepository(pool)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "user-1", 1000)
	require.NoError(t, err)

	require.NoError(t, itemRepo.Grant(ctx, "user-1", model.ItemTypeLuckyMeter, 1))
	items, err := itemRepo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	meta := model.CounterMetadata{Current: 20, Threshold: 25}
	_, err = pool.Exec(ctx, `UPDATE user_live_items SET metadata = $2 WHERE id = $1`, items[0].ID, meta)
	require.NoError(t, err)

	// 8 wins cross the threshold once: one bonus ticket, remainder 3.
	_, err = repo.Settle(ctx, "user-1", Settlement{Cost: 30, TokensWon: 16, Spins: 10, Wins: 8})
	require.NoError(t, err)

	items, err = itemRepo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Metadata.Current)
	assert.Equal(t, 25, items[0].Metadata.Threshold)

	tickets, err := ticketRepo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, model.TicketSourceCounterBonus, tickets[0].Source)
	assert.NotNil(t, tickets[0].ExpiresAt)
}

// ============================================================================
// SettingRepository Tests
// ============================================================================

func TestSettingRepository_GetSetRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(pool)
	ctx := context.Background()

	// Missing keys read as zero.
	v, err := repo.GetInt(ctx, model.SettingTimeOffsetMinutes)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, repo.Set(ctx, model.SettingTimeOffsetMinutes, "45"))
	v, err = repo.GetInt(ctx, model.SettingTimeOffsetMinutes)
	require.NoError(t, err)
	assert.Equal(t, 45, v)

	// Upsert overwrites.
	require.NoError(t, repo.Set(ctx, model.SettingTimeOffsetMinutes, "-15"))
	v, err = repo.GetInt(ctx, model.SettingTimeOffsetMinutes)
	require.NoError(t, err)
	assert.Equal(t, -15, v)
}
