// Package submission implements the transition rules for viewer
// submissions. The guards are pure so they can be checked without a
// database; the repository layer applies the resulting changes atomically.
package submission

import (
	"errors"

	"live-lottery-engine/internal/model"
)

// Transition errors.
var (
	ErrEmptyPatch      = errors.New("patch must set at least one of status, isRolled, isPinned")
	ErrInvalidStatus   = errors.New("status must be approved or rejected")
	ErrDraftImmutable  = errors.New("draft submissions cannot change status")
	ErrUnrollForbidden = errors.New("a rolled submission cannot be un-rolled outside a purge")
)

// Patch is a partial update request against a submission. Nil fields are
// left untouched.
type Patch struct {
	Status   *string
	IsRolled *bool
	IsPinned *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Status == nil && p.IsRolled == nil && p.IsPinned == nil
}

// Changes is the validated outcome of applying a Patch.
type Changes struct {
	Status   *string
	IsRolled *bool
	// Pin, when non-nil, requires the atomic pin path: clearing every
	// other pin and forcing isRolled alongside setting the flag.
	Pin *bool
}

// Apply validates a patch against the current submission state and returns
// the changes to persist.
//
// Rules: drafts never change status; approved and rejected move freely
// between each other from pending; rolling is one-directional; pinning
// forces rolled as a side effect, unpinning has no side effects.
func Apply(current *model.Submission, patch Patch) (Changes, error) {
	var out Changes

	if patch.Empty() {
		return out, ErrEmptyPatch
	}

	if patch.Status != nil {
		status := *patch.Status
		if status != model.StatusApproved && status != model.StatusRejected {
			return Changes{}, ErrInvalidStatus
		}
		if current.Status == model.StatusDraft {
			return Changes{}, ErrDraftImmutable
		}
		out.Status = patch.Status
	}

	if patch.IsRolled != nil {
		if !*patch.IsRolled && current.IsRolled {
			return Changes{}, ErrUnrollForbidden
		}
		out.IsRolled = patch.IsRolled
	}

	if patch.IsPinned != nil {
		out.Pin = patch.IsPinned
		if *patch.IsPinned {
			rolled := true
			out.IsRolled = &rolled
		}
	}

	return out, nil
}
