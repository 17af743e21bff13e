package lottery

import "time"

const (
	// multiplierRampMinutes is the elapsed time over which one extra
	// multiplier unit accrues.
	multiplierRampMinutes = 10.0

	// multiplierMaxBonus caps the accrued bonus, so the multiplier ranges
	// over [1.0, 1.0+multiplierMaxBonus].
	multiplierMaxBonus = 2.0
)

// Multiplier returns the session decay/boost factor for a submission made
// at submittedAt during a session that started at sessionStart.
//
// The curve is 1 + min(elapsedMinutes/10, 2): a submission at session start
// gets exactly 1.0 and later submissions accrue up to 3.0, so one early
// ticket-heavy submission cannot monopolize every draw. offsetMinutes is an
// admin-only test hook added to the elapsed minutes before evaluating the
// curve. Pure and deterministic.
func Multiplier(submittedAt, sessionStart time.Time, offsetMinutes int) float64 {
	elapsed := submittedAt.Sub(sessionStart).Minutes() + float64(offsetMinutes)
	if elapsed < 0 {
		elapsed = 0
	}

	bonus := elapsed / multiplierRampMinutes
	if bonus > multiplierMaxBonus {
		bonus = multiplierMaxBonus
	}
	return 1.0 + bonus
}
