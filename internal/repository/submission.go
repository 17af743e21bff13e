package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/submission"
)

// pinLockKey serializes pin transactions so two concurrent pins cannot
// both survive a clear-then-set under READ COMMITTED.
const pinLockKey = 874511

// SubmissionRepository handles submission persistence.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository instance.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, user_id, file_ref, status, is_rolled, is_pinned, created_at, updated_at`

// Create inserts a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, userID, fileRef, status string) (*model.Submission, error) {
	const query = `
		INSERT INTO submissions (id, user_id, file_ref, status, is_rolled, is_pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, FALSE, NOW(), NOW())
		RETURNING ` + submissionColumns

	var s model.Submission
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), userID, fileRef, status).Scan(
		&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &s, nil
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	var s model.Submission
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

// ListByUserID retrieves a user's submissions, newest first.
func (r *SubmissionRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Submission, error) {
	const query = `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListAll retrieves every submission, optionally filtered by status.
func (r *SubmissionRepository) ListAll(ctx context.Context, status string) ([]*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListInDraw retrieves the submissions the chance engine weighs:
// non-draft and not yet rolled, in stable arrival order.
func (r *SubmissionRepository) ListInDraw(ctx context.Context) ([]*model.Submission, error) {
	const query = `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE status <> 'draft' AND NOT is_rolled
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// HasRolled reports whether any of the user's submissions has been rolled.
func (r *SubmissionRepository) HasRolled(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM submissions WHERE user_id = $1 AND is_rolled)`

	var rolled bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&rolled); err != nil {
		return false, fmt.Errorf("failed to check rolled state: %w", err)
	}
	return rolled, nil
}

// ApplyChanges persists the validated outcome of a state-machine patch.
// Pin changes take the serialized transaction path; everything else is a
// single UPDATE.
func (r *SubmissionRepository) ApplyChanges(ctx context.Context, id string, ch submission.Changes) (*model.Submission, error) {
	if ch.Pin != nil {
		if *ch.Pin {
			return r.pin(ctx, id, ch.Status)
		}
		return r.unpin(ctx, id, ch.Status, ch.IsRolled)
	}

	const query = `
		UPDATE submissions
		SET status = COALESCE($2, status),
		    is_rolled = COALESCE($3, is_rolled),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	var s model.Submission
	err := r.pool.QueryRow(ctx, query, id, ch.Status, ch.IsRolled).Scan(
		&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return &s, nil
}

// pin clears every other pin and sets this one, forcing is_rolled, in a
// single advisory-locked transaction.
func (r *SubmissionRepository) pin(ctx context.Context, id string, status *string) (*model.Submission, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin pin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pinLockKey); err != nil {
		return nil, fmt.Errorf("failed to acquire pin lock: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE submissions SET is_pinned = FALSE, updated_at = NOW() WHERE is_pinned AND id <> $1`, id); err != nil {
		return nil, fmt.Errorf("failed to clear existing pin: %w", err)
	}

	const setPin = `
		UPDATE submissions
		SET is_pinned = TRUE,
		    is_rolled = TRUE,
		    status = COALESCE($2, status),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	var s model.Submission
	err = tx.QueryRow(ctx, setPin, id, status).Scan(
		&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to pin submission: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pin: %w", err)
	}
	return &s, nil
}

// unpin removes the pin flag without touching roll state unless the patch
// asked for a roll too.
func (r *SubmissionRepository) unpin(ctx context.Context, id string, status *string, isRolled *bool) (*model.Submission, error) {
	const query = `
		UPDATE submissions
		SET is_pinned = FALSE,
		    status = COALESCE($2, status),
		    is_rolled = COALESCE($3, is_rolled),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	var s model.Submission
	err := r.pool.QueryRow(ctx, query, id, status, isRolled).Scan(
		&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to unpin submission: %w", err)
	}
	return &s, nil
}

// ListFileRefs returns every stored file reference, for the purge path.
func (r *SubmissionRepository) ListFileRefs(ctx context.Context) ([]string, error) {
	const query = `SELECT file_ref FROM submissions WHERE file_ref <> ''`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list file refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan file ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file refs: %w", err)
	}
	return refs, nil
}

// DeleteAll removes every submission and returns how many rows went away.
func (r *SubmissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSubmissions(rows pgx.Rows) ([]*model.Submission, error) {
	var subs []*model.Submission
	for rows.Next() {
		var s model.Submission
		err := rows.Scan(&s.ID, &s.UserID, &s.FileRef, &s.Status, &s.IsRolled, &s.IsPinned, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return subs, nil
}
