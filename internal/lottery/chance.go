package lottery

import (
	"sort"
	"time"
)

// Entry is one submission considered by the draw, with the owner's base
// weight already computed from their ledgers.
type Entry struct {
	SubmissionID string
	UserID       string
	SubmittedAt  time.Time
	BaseWeight   float64
}

// Result is the per-user odds snapshot returned to clients.
type Result struct {
	Multiplier       float64 `json:"multiplier"`
	ChancePercentage float64 `json:"chancePercentage"`
	ActiveTickets    int     `json:"activeTickets"`
	HasSubmission    bool    `json:"hasSubmission"`
	IsRolled         bool    `json:"isRolled"`
}

// SessionStart returns the time origin for the multiplier curve: the
// creation time of the earliest entry, or now when no entry exists.
func SessionStart(entries []Entry, now time.Time) time.Time {
	if len(entries) == 0 {
		return now
	}
	start := entries[0].SubmittedAt
	for _, e := range entries[1:] {
		if e.SubmittedAt.Before(start) {
			start = e.SubmittedAt
		}
	}
	return start
}

// ComputeChance aggregates weight x multiplier across all entries and
// returns the target user's share as a percentage.
//
// Entries are evaluated in submission order (creation time ascending, ID as
// tiebreak). When the total weight is zero the chance is 0, never NaN or
// Infinity. Callers are responsible for zeroing the result when the target
// has a rolled submission.
func ComputeChance(entries []Entry, targetUserID string, sessionStart time.Time, offsetMinutes int) (chance, multiplier float64, hasSubmission bool) {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].SubmittedAt.Equal(ordered[j].SubmittedAt) {
			return ordered[i].SubmissionID < ordered[j].SubmissionID
		}
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	var totalWeight, userWeight float64
	multiplier = 1.0
	for _, e := range ordered {
		m := Multiplier(e.SubmittedAt, sessionStart, offsetMinutes)
		w := e.BaseWeight * m
		totalWeight += w
		if e.UserID == targetUserID {
			hasSubmission = true
			userWeight += w
			multiplier = m
		}
	}

	if !hasSubmission || totalWeight == 0 {
		return 0, multiplier, hasSubmission
	}
	return userWeight / totalWeight * 100, multiplier, hasSubmission
}
