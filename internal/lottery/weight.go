// Package lottery implements the pure math behind the draw: ticket
// weights, the session time multiplier, and per-user chance aggregation.
package lottery

import (
	"time"

	"live-lottery-engine/internal/model"
)

// DefaultItemBonusWeight is the bonus weight granted per activated unit of
// a weight-affecting live item.
const DefaultItemBonusWeight = 2.0

// ActiveTicketCount sums the quantity of tickets that have not expired at
// the given instant. Expired tickets are filtered, never deleted.
func ActiveTicketCount(tickets []*model.Ticket, now time.Time) int {
	total := 0
	for _, t := range tickets {
		if t.Active(now) {
			total += t.Quantity
		}
	}
	return total
}

// TicketWeight computes a user's base lottery weight: one weight unit per
// active ticket plus a fixed bonus per activated unit of a weight-affecting
// item. Monotonic non-decreasing in both inputs; zero tickets and zero
// activated items yield weight 0.
func TicketWeight(tickets []*model.Ticket, items []*model.UserLiveItem, itemBonus float64, now time.Time) float64 {
	if itemBonus <= 0 {
		itemBonus = DefaultItemBonusWeight
	}

	weight := float64(ActiveTicketCount(tickets, now))
	for _, item := range items {
		if item.ActivatedQuantity <= 0 {
			continue
		}
		if model.IsWeightAffecting(item.ItemType) {
			weight += float64(item.ActivatedQuantity) * itemBonus
		}
	}
	return weight
}
