package lottery

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"live-lottery-engine/internal/model"
)

func ticket(qty int, expiresAt *time.Time) *model.Ticket {
	return &model.Ticket{Quantity: qty, ExpiresAt: expiresAt}
}

func TestActiveTicketCount(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		tickets []*model.Ticket
		want    int
	}{
		{"no tickets", nil, 0},
		{"unexpired only", []*model.Ticket{ticket(5, nil)}, 5},
		{"expired excluded", []*model.Ticket{ticket(5, nil), ticket(3, &yesterday)}, 5},
		{"future expiry counts", []*model.Ticket{ticket(2, &tomorrow), ticket(4, nil)}, 6},
		{"all expired", []*model.Ticket{ticket(9, &yesterday)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveTicketCount(tt.tickets, now)
			if got != tt.want {
				t.Errorf("ActiveTicketCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTicketWeight_ZeroInputs(t *testing.T) {
	got := TicketWeight(nil, nil, DefaultItemBonusWeight, time.Now())
	if got != 0 {
		t.Errorf("TicketWeight(nil, nil) = %f, want 0", got)
	}
}

func TestTicketWeight_ActivatedItemsAddBonus(t *testing.T) {
	now := time.Now()
	tickets := []*model.Ticket{ticket(3, nil)}
	items := []*model.UserLiveItem{
		{ItemType: model.ItemTypeLotteryBoost, Quantity: 2, ActivatedQuantity: 2},
		{ItemType: model.ItemTypeBadge, Quantity: 5, ActivatedQuantity: 5}, // not weight-affecting
		{ItemType: model.ItemTypeDoubleDown, Quantity: 1, ActivatedQuantity: 0},
	}

	got := TicketWeight(tickets, items, 2.0, now)
	want := 3.0 + 2*2.0
	if got != want {
		t.Errorf("TicketWeight() = %f, want %f", got, want)
	}
}

// TestTicketWeightMonotonicityProperty checks that adding tickets or
// activating items never lowers the weight.
func TestTicketWeightMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := time.Now()
		ticketCount := rapid.IntRange(0, 50).Draw(t, "ticketCount")
		activated := rapid.IntRange(0, 20).Draw(t, "activated")
		extraTickets := rapid.IntRange(1, 10).Draw(t, "extraTickets")

		tickets := []*model.Ticket{ticket(ticketCount, nil)}
		items := []*model.UserLiveItem{
			{ItemType: model.ItemTypeLotteryBoost, Quantity: activated + 1, ActivatedQuantity: activated},
		}

		base := TicketWeight(tickets, items, 2.0, now)

		moreTickets := append([]*model.Ticket{ticket(extraTickets, nil)}, tickets...)
		if got := TicketWeight(moreTickets, items, 2.0, now); got < base {
			t.Fatalf("weight decreased after adding tickets: %f < %f", got, base)
		}

		moreItems := []*model.UserLiveItem{
			{ItemType: model.ItemTypeLotteryBoost, Quantity: activated + 2, ActivatedQuantity: activated + 1},
		}
		if got := TicketWeight(tickets, moreItems, 2.0, now); got < base {
			t.Fatalf("weight decreased after activating an item: %f < %f", got, base)
		}
	})
}
