package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/repository"
	"live-lottery-engine/internal/submission"
)

type fakeSubmissionStore struct {
	subs map[string]*model.Submission
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{subs: map[string]*model.Submission{}}
}

func (f *fakeSubmissionStore) Create(ctx context.Context, userID, fileRef, status string) (*model.Submission, error) {
	s := &model.Submission{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileRef:   fileRef,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.subs[s.ID] = s
	return s, nil
}

func (f *fakeSubmissionStore) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, repository.ErrSubmissionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubmissionStore) ListByUserID(ctx context.Context, userID string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) ListAll(ctx context.Context, status string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range f.subs {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) ApplyChanges(ctx context.Context, id string, ch submission.Changes) (*model.Submission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, repository.ErrSubmissionNotFound
	}
	if ch.Status != nil {
		s.Status = *ch.Status
	}
	if ch.IsRolled != nil {
		s.IsRolled = *ch.IsRolled
	}
	if ch.Pin != nil {
		if *ch.Pin {
			for _, other := range f.subs {
				other.IsPinned = false
			}
		}
		s.IsPinned = *ch.Pin
	}
	copied := *s
	return &copied, nil
}

func TestSubmissionService_Create(t *testing.T) {
	svc := NewSubmissionService(newFakeSubmissionStore())
	ctx := context.Background()

	sub, err := svc.Create(ctx, "user-1", "blobs/track.mp3", false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, sub.Status)

	draft, err := svc.Create(ctx, "user-1", "blobs/wip.mp3", true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, draft.Status)

	_, err = svc.Create(ctx, "user-1", "", false)
	assert.ErrorIs(t, err, ErrEmptyFileRef)
}

func TestSubmissionService_Patch_GuardsTransitions(t *testing.T) {
	store := newFakeSubmissionStore()
	svc := NewSubmissionService(store)
	ctx := context.Background()

	pending, err := svc.Create(ctx, "user-1", "blobs/a.mp3", false)
	require.NoError(t, err)
	draft, err := svc.Create(ctx, "user-2", "blobs/b.mp3", true)
	require.NoError(t, err)

	approved := model.StatusApproved
	updated, err := svc.Patch(ctx, pending.ID, submission.Patch{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)

	// Drafts never change status.
	_, err = svc.Patch(ctx, draft.ID, submission.Patch{Status: &approved})
	assert.ErrorIs(t, err, submission.ErrDraftImmutable)

	// Empty patches are rejected before any store call.
	_, err = svc.Patch(ctx, pending.ID, submission.Patch{})
	assert.ErrorIs(t, err, submission.ErrEmptyPatch)

	_, err = svc.Patch(ctx, "missing", submission.Patch{Status: &approved})
	assert.ErrorIs(t, err, repository.ErrSubmissionNotFound)
}

func TestSubmissionService_Patch_PinForcesRoll(t *testing.T) {
	store := newFakeSubmissionStore()
	svc := NewSubmissionService(store)
	ctx := context.Background()

	sub, err := svc.Create(ctx, "user-1", "blobs/a.mp3", false)
	require.NoError(t, err)

	pin := true
	updated, err := svc.Patch(ctx, sub.ID, submission.Patch{IsPinned: &pin})
	require.NoError(t, err)
	assert.True(t, updated.IsPinned)
	assert.True(t, updated.IsRolled)

	// Un-rolling the now-rolled submission is forbidden.
	unroll := false
	_, err = svc.Patch(ctx, sub.ID, submission.Patch{IsRolled: &unroll})
	assert.ErrorIs(t, err, submission.ErrUnrollForbidden)

	// Unpinning leaves the roll alone.
	unpin := false
	updated, err = svc.Patch(ctx, sub.ID, submission.Patch{IsPinned: &unpin})
	require.NoError(t, err)
	assert.False(t, updated.IsPinned)
	assert.True(t, updated.IsRolled)
}
