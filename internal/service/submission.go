package service

import (
	"context"
	"errors"
	"fmt"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/submission"
)

// Common errors for submission operations.
var (
	ErrEmptyFileRef = errors.New("submission requires a file reference")
)

// submissionStore is the persistence surface the submission workflow needs.
type submissionStore interface {
	Create(ctx context.Context, userID, fileRef, status string) (*model.Submission, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	ListByUserID(ctx context.Context, userID string) ([]*model.Submission, error)
	ListAll(ctx context.Context, status string) ([]*model.Submission, error)
	ApplyChanges(ctx context.Context, id string, ch submission.Changes) (*model.Submission, error)
}

// SubmissionService handles the submission lifecycle: creation by viewers
// and moderation patches by admins, guarded by the transition rules.
type SubmissionService struct {
	store submissionStore
}

// NewSubmissionService creates a new SubmissionService instance.
func NewSubmissionService(store submissionStore) *SubmissionService {
	return &SubmissionService{store: store}
}

// Create records a new submission. Drafts stay private and outside the
// draw; everything else enters as pending.
func (s *SubmissionService) Create(ctx context.Context, userID, fileRef string, draft bool) (*model.Submission, error) {
	if fileRef == "" {
		return nil, ErrEmptyFileRef
	}

	status := model.StatusPending
	if draft {
		status = model.StatusDraft
	}

	sub, err := s.store.Create(ctx, userID, fileRef, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

// Get retrieves a single submission.
func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	return s.store.GetByID(ctx, id)
}

// ListMine retrieves the caller's submissions.
func (s *SubmissionService) ListMine(ctx context.Context, userID string) ([]*model.Submission, error) {
	return s.store.ListByUserID(ctx, userID)
}

// ListAll retrieves every submission, optionally filtered by status.
func (s *SubmissionService) ListAll(ctx context.Context, status string) ([]*model.Submission, error) {
	return s.store.ListAll(ctx, status)
}

// Patch validates a moderation patch against the current state and applies
// the resulting changes atomically. Validation errors surface unchanged so
// handlers can map them to client responses.
func (s *SubmissionService) Patch(ctx context.Context, id string, patch submission.Patch) (*model.Submission, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes, err := submission.Apply(current, patch)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.ApplyChanges(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to apply submission patch: %w", err)
	}
	return updated, nil
}
