// Package model defines the data models for the live lottery engine.
package model

import "time"

// Ticket is a weighted lottery entry owned by a user. Rows are immutable
// once created; expiry is applied as a read-time filter, never a deletion.
type Ticket struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Quantity  int        `db:"quantity" json:"quantity"`
	Source    string     `db:"source" json:"source"`
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// Active reports whether the ticket still counts at the given instant.
func (t *Ticket) Active(now time.Time) bool {
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}

// Ticket sources for categorizing grants.
const (
	TicketSourceManualGrant     = "manual_grant"     // Admin manual grant
	TicketSourceSubscriberBonus = "subscriber_bonus" // Recurring subscriber credit
	TicketSourceSlotReward      = "slot_reward"      // Slot machine eternal ticket
	TicketSourceCounterBonus    = "counter_bonus"    // Threshold counter auto-bonus
)

// LiveItem is a catalog entry for a loyalty item users can own and activate.
type LiveItem struct {
	ID          int64  `db:"id" json:"id"`
	Type        string `db:"type" json:"type"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon" json:"icon"`
	IsActive    bool   `db:"is_active" json:"isActive"`
}

// Live item types.
const (
	ItemTypeLotteryBoost   = "lottery_boost"
	ItemTypeEternalTicket  = "eternal_ticket"
	ItemTypeQueueSkip      = "queue_skip"
	ItemTypePriorityReview = "priority_review"
	ItemTypeLuckyMeter     = "lucky_meter"
	ItemTypeShoutout       = "shoutout"
	ItemTypeEmoteUnlock    = "emote_unlock"
	ItemTypeBadge          = "badge"
	ItemTypeSongRequest    = "song_request"
	ItemTypeDoubleDown     = "double_down"
	ItemTypeMysteryBox     = "mystery_box"
)

// WeightAffectingItemTypes returns the item types whose activated count
// contributes bonus lottery weight.
func WeightAffectingItemTypes() []string {
	return []string{ItemTypeLotteryBoost, ItemTypePriorityReview, ItemTypeDoubleDown}
}

// IsWeightAffecting reports whether an item type contributes lottery weight.
func IsWeightAffecting(itemType string) bool {
	for _, t := range WeightAffectingItemTypes() {
		if t == itemType {
			return true
		}
	}
	return false
}

// CounterMetadata is the progress payload for threshold-triggered bonuses,
// stored as JSON on UserLiveItem.
type CounterMetadata struct {
	Current   int `json:"current"`
	Threshold int `json:"threshold"`
}

// UserLiveItem is a user's holding of a catalog item.
// 0 <= ActivatedQuantity <= Quantity holds at all times.
type UserLiveItem struct {
	ID                string          `db:"id" json:"id"`
	UserID            string          `db:"user_id" json:"userId"`
	ItemID            int64           `db:"item_id" json:"itemId"`
	ItemType          string          `db:"item_type" json:"itemType"`
	Quantity          int             `db:"quantity" json:"quantity"`
	ActivatedQuantity int             `db:"activated_quantity" json:"activatedQuantity"`
	Metadata          CounterMetadata `db:"metadata" json:"metadata"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// Submission statuses.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a viewer-submitted track awaiting a draw.
// Invariants: a draft submission never changes status; at most one
// submission system-wide is pinned; pinned implies rolled.
type Submission struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	FileRef   string    `db:"file_ref" json:"fileRef"`
	Status    string    `db:"status" json:"status"`
	IsRolled  bool      `db:"is_rolled" json:"isRolled"`
	IsPinned  bool      `db:"is_pinned" json:"isPinned"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// InDraw reports whether the submission is considered by the chance engine.
func (s *Submission) InDraw() bool {
	return s.Status != StatusDraft && !s.IsRolled
}

// AdminSetting is a key/value row for operational knobs.
type AdminSetting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SettingTimeOffsetMinutes is the test-only elapsed-time offset consumed
// solely by the session multiplier.
const SettingTimeOffsetMinutes = "time_offset_minutes"

// SlotMachineAccount holds a user's token balance and cumulative spin stats.
// Tokens never go negative from a settled batch. The daily reset is
// calendar-date based and idempotent within a day; TotalSpins and TotalWins
// are cumulative and never reset.
type SlotMachineAccount struct {
	UserID        string    `db:"user_id" json:"userId"`
	Tokens        int64     `db:"tokens" json:"tokens"`
	TotalSpins    int64     `db:"total_spins" json:"totalSpins"`
	TotalWins     int64     `db:"total_wins" json:"totalWins"`
	LastResetDate time.Time `db:"last_reset_date" json:"lastResetDate"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
