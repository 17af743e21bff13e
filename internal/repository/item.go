package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"live-lottery-engine/internal/model"
)

// ItemRepository handles the live item catalog and per-user holdings.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository instance.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// GetCatalog retrieves all active catalog items.
func (r *ItemRepository) GetCatalog(ctx context.Context) ([]*model.LiveItem, error) {
	const query = `
		SELECT id, type, name, description, icon, is_active
		FROM live_items
		WHERE is_active
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get item catalog: %w", err)
	}
	defer rows.Close()

	var items []*model.LiveItem
	for rows.Next() {
		var it model.LiveItem
		if err := rows.Scan(&it.ID, &it.Type, &it.Name, &it.Description, &it.Icon, &it.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}
	return items, nil
}

const userItemColumns = `
	ui.id, ui.user_id, ui.item_id, li.type, ui.quantity,
	ui.activated_quantity, ui.metadata, ui.created_at, ui.updated_at`

// GetByUserID retrieves a user's holdings joined with their catalog type.
func (r *ItemRepository) GetByUserID(ctx context.Context, userID string) ([]*model.UserLiveItem, error) {
	const query = `
		SELECT ` + userItemColumns + `
		FROM user_live_items ui
		JOIN live_items li ON li.id = ui.item_id
		WHERE ui.user_id = $1
		ORDER BY ui.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user items: %w", err)
	}
	defer rows.Close()

	items, err := scanUserItems(rows)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetActivatedByUserIDs retrieves holdings with a non-zero activated
// quantity for a set of users, grouped by owner.
func (r *ItemRepository) GetActivatedByUserIDs(ctx context.Context, userIDs []string) (map[string][]*model.UserLiveItem, error) {
	if len(userIDs) == 0 {
		return map[string][]*model.UserLiveItem{}, nil
	}

	const query = `
		SELECT ` + userItemColumns + `
		FROM user_live_items ui
		JOIN live_items li ON li.id = ui.item_id
		WHERE ui.user_id = ANY($1) AND ui.activated_quantity > 0
	`

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get activated items: %w", err)
	}
	defer rows.Close()

	items, err := scanUserItems(rows)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*model.UserLiveItem, len(userIDs))
	for _, it := range items {
		byUser[it.UserID] = append(byUser[it.UserID], it)
	}
	return byUser, nil
}

// Grant adds quantity of an item type to a user, creating the holding row
// on first grant.
func (r *ItemRepository) Grant(ctx context.Context, userID, itemType string, quantity int) error {
	const query = `
		INSERT INTO user_live_items (id, user_id, item_id, quantity, activated_quantity, metadata, created_at, updated_at)
		SELECT $1, $2, li.id, $4, 0, '{"current":0,"threshold":0}', NOW(), NOW()
		FROM live_items li WHERE li.type = $3
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = user_live_items.quantity + $4, updated_at = NOW()
	`

	tag, err := r.pool.Exec(ctx, query, uuid.NewString(), userID, itemType, quantity)
	if err != nil {
		return fmt.Errorf("failed to grant item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetActivated sets the activated quantity of a holding, enforcing
// 0 <= activated <= quantity in the statement itself.
func (r *ItemRepository) SetActivated(ctx context.Context, userID, userItemID string, activated int) (*model.UserLiveItem, error) {
	if activated < 0 {
		return nil, ErrActivationBounds
	}

	const query = `
		UPDATE user_live_items ui
		SET activated_quantity = $3, updated_at = NOW()
		FROM live_items li
		WHERE ui.id = $1 AND ui.user_id = $2 AND li.id = ui.item_id AND ui.quantity >= $3
		RETURNING ` + userItemColumns

	var it model.UserLiveItem
	err := r.pool.QueryRow(ctx, query, userItemID, userID, activated).Scan(
		&it.ID, &it.UserID, &it.ItemID, &it.ItemType, &it.Quantity,
		&it.ActivatedQuantity, &it.Metadata, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the holding is missing or the bound was violated.
			owned, ownErr := r.ownsItem(ctx, userID, userItemID)
			if ownErr == nil && owned {
				return nil, ErrActivationBounds
			}
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to set activation: %w", err)
	}
	return &it, nil
}

func (r *ItemRepository) ownsItem(ctx context.Context, userID, userItemID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM user_live_items WHERE id = $1 AND user_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userItemID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check item ownership: %w", err)
	}
	return exists, nil
}

func scanUserItems(rows pgx.Rows) ([]*model.UserLiveItem, error) {
	var items []*model.UserLiveItem
	for rows.Next() {
		var it model.UserLiveItem
		err := rows.Scan(
			&it.ID, &it.UserID, &it.ItemID, &it.ItemType, &it.Quantity,
			&it.ActivatedQuantity, &it.Metadata, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user items: %w", err)
	}
	return items, nil
}
