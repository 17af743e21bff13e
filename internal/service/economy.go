package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/pkg/lock"
	"live-lottery-engine/internal/repository"
	"live-lottery-engine/internal/slot"
)

// Common errors for economy operations.
var (
	ErrInvalidBatchSize = errors.New("spin count outside allowed batch size")
)

// accountStore is the persistence surface the slot economy needs.
type accountStore interface {
	GetOrCreate(ctx context.Context, userID string, startingTokens int64) (*model.SlotMachineAccount, error)
	ResetDaily(ctx context.Context, userID string, allowance int64) (*model.SlotMachineAccount, error)
	Settle(ctx context.Context, userID string, s repository.Settlement) (*model.SlotMachineAccount, error)
}

// SpinResult is the outcome of a settled spin batch.
type SpinResult struct {
	Outcome   *slot.BatchOutcome        `json:"outcome"`
	Account   *model.SlotMachineAccount `json:"account"`
	Boosted   bool                      `json:"boosted"`
	NetProfit int64                     `json:"netProfit"`
	WinRate   float64                   `json:"winRatePercent"`
}

// EconomyService handles the slot machine token economy: daily allowances,
// batch spins, and settlement. Per-user locks serialize batches so two
// concurrent requests from the same user cannot interleave plan and settle.
type EconomyService struct {
	accounts       accountStore
	locks          *lock.UserLock
	dailyAllowance int64
	costPerSpin    int64
	maxBatchSize   int
	loc            *time.Location
	now            func() time.Time
	newRand        func() *rand.Rand
}

// NewEconomyService creates a new EconomyService instance.
func NewEconomyService(accounts accountStore, dailyAllowance, costPerSpin int64, maxBatchSize int) *EconomyService {
	return &EconomyService{
		accounts:       accounts,
		locks:          lock.NewUserLock(),
		dailyAllowance: dailyAllowance,
		costPerSpin:    costPerSpin,
		maxBatchSize:   maxBatchSize,
		loc:            time.UTC,
		now:            time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// GetAccount fetches the caller's account, applying the daily allowance
// lazily on first touch of a new calendar day.
func (s *EconomyService) GetAccount(ctx context.Context, userID string) (*model.SlotMachineAccount, error) {
	acct, err := s.accounts.GetOrCreate(ctx, userID, s.dailyAllowance)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot account: %w", err)
	}

	if slot.ShouldResetDaily(acct.LastResetDate, s.now(), s.loc) {
		reset, err := s.accounts.ResetDaily(ctx, userID, s.dailyAllowance)
		if err != nil {
			return nil, fmt.Errorf("failed to apply daily allowance: %w", err)
		}
		if reset != nil {
			return reset, nil
		}
		// A concurrent request won the reset; re-read.
		return s.accounts.GetOrCreate(ctx, userID, s.dailyAllowance)
	}
	return acct, nil
}

// Spin runs a batch of count spins and settles the whole batch in one
// ledger write. The pity booster kicks in when the account's lifetime win
// rate has sagged; the funds check is enforced again at settlement, so a
// racing batch fails with the exact shortfall instead of overdrawing.
func (s *EconomyService) Spin(ctx context.Context, userID string, count int) (*SpinResult, error) {
	if count < 1 || count > s.maxBatchSize {
		return nil, ErrInvalidBatchSize
	}

	var result *SpinResult
	err := s.locks.WithLock(userID, func() error {
		acct, err := s.GetAccount(ctx, userID)
		if err != nil {
			return err
		}

		cost := int64(count) * s.costPerSpin
		if acct.Tokens < cost {
			return &model.InsufficientFundsError{Required: cost, Available: acct.Tokens}
		}

		boosted := slot.ShouldBoost(acct.TotalSpins, acct.TotalWins)
		outcome := slot.PlanBatch(s.newRand(), count, boosted)

		settled, err := s.accounts.Settle(ctx, userID, repository.Settlement{
			Cost:           cost,
			TokensWon:      outcome.TotalTokensWon,
			Spins:          int64(outcome.Spins),
			Wins:           outcome.Wins,
			EternalTickets: outcome.EternalTickets,
			QueueSkips:     outcome.QueueSkips,
		})
		if err != nil {
			return err
		}

		result = &SpinResult{
			Outcome:   outcome,
			Account:   settled,
			Boosted:   boosted,
			NetProfit: outcome.TotalTokensWon - cost,
			WinRate:   float64(outcome.Wins) / float64(count) * 100,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
