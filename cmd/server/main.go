// Package main is the entry point for the live lottery engine.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"live-lottery-engine/internal/config"
	"live-lottery-engine/internal/handler"
	"live-lottery-engine/internal/pkg/db"
	"live-lottery-engine/internal/repository"
	"live-lottery-engine/internal/service"
	"live-lottery-engine/internal/storage"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize blob storage
	blobStore, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}

	// Initialize repositories
	ticketRepo := repository.NewTicketRepository(dbPool.Pool)
	itemRepo := repository.NewItemRepository(dbPool.Pool)
	submissionRepo := repository.NewSubmissionRepository(dbPool.Pool)
	economyRepo := repository.NewEconomyRepository(dbPool.Pool)
	settingRepo := repository.NewSettingRepository(dbPool.Pool)

	// Initialize services
	chanceService := service.NewChanceService(
		submissionRepo, ticketRepo, itemRepo, settingRepo,
		cfg.Lottery.ItemBonusWeight,
	)
	submissionService := service.NewSubmissionService(submissionRepo)
	economyService := service.NewEconomyService(
		economyRepo,
		cfg.Economy.DailyAllowance,
		cfg.Economy.CostPerSpin,
		cfg.Economy.MaxBatchSize,
	)
	inventoryService := service.NewInventoryService(ticketRepo, itemRepo)
	adminService := service.NewAdminService(submissionRepo, ticketRepo, settingRepo, blobStore)

	// Build router
	router := handler.NewRouter(handler.Handlers{
		Chance:     handler.NewChanceHandler(chanceService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Slot:       handler.NewSlotHandler(economyService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Admin:      handler.NewAdminHandler(adminService),
		Health:     dbPool,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Server is starting...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create tickets table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			quantity INT NOT NULL,
			source VARCHAR(50) NOT NULL,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: tickets table created")

	// Migration 2: Create live item catalog and seed it
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS live_items (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon VARCHAR(16) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
		INSERT INTO live_items (type, name, description, icon) VALUES
			('lottery_boost',   'Lottery Boost',   'Adds bonus weight to your draw odds while activated', '🎯'),
			('eternal_ticket',  'Eternal Ticket',  'A lottery ticket that never expires', '🎫'),
			('queue_skip',      'Queue Skip',      'Jump the submission queue once', '⏭️'),
			('priority_review', 'Priority Review', 'Your submissions get reviewed first and weigh more', '📌'),
			('lucky_meter',     'Lucky Meter',     'Counts slot wins and pays out bonus tickets at the threshold', '🍀'),
			('shoutout',        'Shoutout',        'An on-stream shoutout', '📣'),
			('emote_unlock',    'Emote Unlock',    'Unlocks a channel emote', '😎'),
			('badge',           'Badge',           'A profile badge', '🏅'),
			('song_request',    'Song Request',    'Request a song outside the lottery', '🎵'),
			('double_down',     'Double Down',     'Doubles down on your draw weight while activated', '🎲'),
			('mystery_box',     'Mystery Box',     'Contains a surprise', '🎁')
		ON CONFLICT (type) DO NOTHING;
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: live_items table created and seeded")

	// Migration 3: Create user item holdings
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_live_items (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			item_id BIGINT NOT NULL REFERENCES live_items(id),
			quantity INT NOT NULL DEFAULT 0,
			activated_quantity INT NOT NULL DEFAULT 0,
			metadata JSONB NOT NULL DEFAULT '{"current":0,"threshold":0}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, item_id),
			CHECK (activated_quantity >= 0 AND activated_quantity <= quantity)
		);
		CREATE INDEX IF NOT EXISTS idx_user_live_items_user ON user_live_items(user_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: user_live_items table created")

	// Migration 4: Create submissions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS submissions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			file_ref TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			is_rolled BOOLEAN NOT NULL DEFAULT FALSE,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_submissions_user ON submissions(user_id);
		CREATE INDEX IF NOT EXISTS idx_submissions_draw ON submissions(created_at) WHERE status <> 'draft' AND NOT is_rolled;
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: submissions table created")

	// Migration 5: Create admin settings table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS admin_settings (
			key VARCHAR(100) PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: admin_settings table created")

	// Migration 6: Create slot accounts table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS slot_accounts (
			user_id VARCHAR(64) PRIMARY KEY,
			tokens BIGINT NOT NULL DEFAULT 0,
			total_spins BIGINT NOT NULL DEFAULT 0,
			total_wins BIGINT NOT NULL DEFAULT 0,
			last_reset_date DATE NOT NULL DEFAULT CURRENT_DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (tokens >= 0)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: slot_accounts table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
