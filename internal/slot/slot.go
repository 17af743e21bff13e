// Package slot implements the token-economy slot machine: symbol tables,
// reward determination, the dynamic luck booster, and batch planning.
// Everything here is pure; settlement is the repository's job.
package slot

import "math/rand"

// Symbol constants for display.
const (
	SymbolCherry = 1
	SymbolLemon  = 2
	SymbolGrape  = 3
	SymbolBell   = 4
	SymbolStar   = 5
	SymbolSeven  = 6
)

// SymbolNames maps symbols to their display glyphs.
var SymbolNames = map[int]string{
	SymbolCherry: "🍒",
	SymbolLemon:  "🍋",
	SymbolGrape:  "🍇",
	SymbolBell:   "🔔",
	SymbolStar:   "⭐",
	SymbolSeven:  "7️⃣",
}

// Reward types a spin can yield.
const (
	RewardNone          = "none"
	RewardTokens        = "tokens"
	RewardQueueSkip     = "queue_skip"
	RewardEternalTicket = "eternal_ticket"
)

const (
	// SpecialRebate is the fixed token rebate that rides along with
	// queue-skip and eternal-ticket rewards.
	SpecialRebate = 5

	// boostWinRateThreshold triggers the pity booster when the observed
	// win rate falls below it.
	boostWinRateThreshold = 0.45

	// boostMinSpins is the sample size below which the win rate is
	// treated as 1.0 so fresh accounts never start boosted.
	boostMinSpins = 10

	tripleBellPayout  = 30
	tripleFruitPayout = 15
	pairPayout        = 2
)

// symbolWeights is a cumulative-draw table; index i holds the relative
// weight of symbol i+1.
type symbolWeights [6]int

// normalWeights is the house table.
var normalWeights = symbolWeights{30, 25, 20, 12, 7, 6}

// boostedWeights concentrates probability mass on fewer symbols, raising
// the odds of matched reels for users on a losing streak.
var boostedWeights = symbolWeights{40, 30, 15, 8, 4, 3}

// Reward is the outcome of a single spin.
type Reward struct {
	Type    string `json:"rewardType"`
	Amount  int64  `json:"amount"`
	IsWin   bool   `json:"isWin"`
	Message string `json:"message"`
}

// Tokens returns the token value of the reward including any rebate.
func (r Reward) Tokens() int64 {
	switch r.Type {
	case RewardTokens:
		return r.Amount
	case RewardQueueSkip, RewardEternalTicket:
		return SpecialRebate
	default:
		return 0
	}
}

// WinRate returns the observed win rate, or 1.0 while the sample is too
// small to be meaningful.
func WinRate(totalSpins, totalWins int64) float64 {
	if totalSpins <= boostMinSpins {
		return 1.0
	}
	return float64(totalWins) / float64(totalSpins)
}

// ShouldBoost decides, from pre-batch aggregates, whether the entire next
// batch draws from the boosted table. The decision is made once per batch
// request and never re-evaluated per spin.
func ShouldBoost(totalSpins, totalWins int64) bool {
	return WinRate(totalSpins, totalWins) < boostWinRateThreshold
}

// drawSymbol picks one symbol from the weighted table.
func drawSymbol(rng *rand.Rand, weights symbolWeights) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return i + 1
		}
		n -= w
	}
	return SymbolCherry // unreachable
}

// DrawSymbols draws the three reels for one spin.
func DrawSymbols(rng *rand.Rand, boosted bool) [3]int {
	weights := normalWeights
	if boosted {
		weights = boostedWeights
	}
	return [3]int{
		drawSymbol(rng, weights),
		drawSymbol(rng, weights),
		drawSymbol(rng, weights),
	}
}

// DetermineReward maps three reels to a reward.
//
// Three sevens yield an eternal ticket, three stars a queue skip (both with
// a token rebate on top), three bells a large token payout, any other
// triple a medium payout, a pair a small consolation payout.
func DetermineReward(symbols [3]int) Reward {
	left, middle, right := symbols[0], symbols[1], symbols[2]
	display := SymbolNames[left] + " " + SymbolNames[middle] + " " + SymbolNames[right]

	if left == middle && middle == right {
		switch left {
		case SymbolSeven:
			return Reward{
				Type:    RewardEternalTicket,
				Amount:  1,
				IsWin:   true,
				Message: display + " — triple sevens! An eternal ticket is yours.",
			}
		case SymbolStar:
			return Reward{
				Type:    RewardQueueSkip,
				Amount:  1,
				IsWin:   true,
				Message: display + " — triple stars! Queue skip unlocked.",
			}
		case SymbolBell:
			return Reward{
				Type:    RewardTokens,
				Amount:  tripleBellPayout,
				IsWin:   true,
				Message: display + " — triple bells! Big token win.",
			}
		default:
			return Reward{
				Type:    RewardTokens,
				Amount:  tripleFruitPayout,
				IsWin:   true,
				Message: display + " — three of a kind!",
			}
		}
	}

	if left == middle || middle == right || left == right {
		return Reward{
			Type:    RewardTokens,
			Amount:  pairPayout,
			IsWin:   true,
			Message: display + " — a pair, small win.",
		}
	}

	return Reward{
		Type:    RewardNone,
		Message: display + " — no match.",
	}
}

// BatchOutcome aggregates a planned batch of spins before settlement.
type BatchOutcome struct {
	Spins          int    `json:"spins"`
	Wins           int64  `json:"wins"`
	TotalTokensWon int64  `json:"totalTokensWon"`
	QueueSkips     int    `json:"queueSkips"`
	EternalTickets int    `json:"eternalTickets"`
	LastSymbols    [3]int `json:"lastSymbols"`
	LastReward     Reward `json:"lastReward"`
}

// PlanBatch draws count spins against one table (boosted or not) and
// aggregates the outcome. No state is touched; the caller settles the
// whole plan in a single ledger write.
func PlanBatch(rng *rand.Rand, count int, boosted bool) *BatchOutcome {
	out := &BatchOutcome{Spins: count}
	for i := 0; i < count; i++ {
		symbols := DrawSymbols(rng, boosted)
		reward := DetermineReward(symbols)

		if reward.IsWin {
			out.Wins++
		}
		out.TotalTokensWon += reward.Tokens()
		switch reward.Type {
		case RewardQueueSkip:
			out.QueueSkips += int(reward.Amount)
		case RewardEternalTicket:
			out.EternalTickets += int(reward.Amount)
		}

		out.LastSymbols = symbols
		out.LastReward = reward
	}
	return out
}
