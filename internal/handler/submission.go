package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"live-lottery-engine/internal/model"
	"live-lottery-engine/internal/submission"
)

// SubmissionManager is the submission workflow surface.
type SubmissionManager interface {
	Create(ctx context.Context, userID, fileRef string, draft bool) (*model.Submission, error)
	Get(ctx context.Context, id string) (*model.Submission, error)
	ListMine(ctx context.Context, userID string) ([]*model.Submission, error)
	ListAll(ctx context.Context, status string) ([]*model.Submission, error)
	Patch(ctx context.Context, id string, patch submission.Patch) (*model.Submission, error)
}

// SubmissionHandler serves submission CRUD and moderation endpoints.
type SubmissionHandler struct {
	submissions SubmissionManager
}

// NewSubmissionHandler creates a new SubmissionHandler instance.
func NewSubmissionHandler(submissions SubmissionManager) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

type createSubmissionRequest struct {
	FileRef string `json:"fileRef"`
	Draft   bool   `json:"draft"`
}

// Create records a new submission for the caller.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var body createSubmissionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sub, err := h.submissions.Create(c.Request.Context(), userID(c), body.FileRef, body.Draft)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, sub)
}

// ListMine returns the caller's submissions.
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	subs, err := h.submissions.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, subs)
}

// Get returns a single submission. Non-admins can only see their own.
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.submissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if sub.UserID != userID(c) && c.GetString(ctxUserRole) != RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your submission"})
		return
	}
	respondData(c, http.StatusOK, sub)
}

// ListAll returns every submission, optionally filtered with ?status=.
func (h *SubmissionHandler) ListAll(c *gin.Context) {
	subs, err := h.submissions.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, subs)
}

type patchSubmissionRequest struct {
	Status   *string `json:"status"`
	IsRolled *bool   `json:"isRolled"`
	IsPinned *bool   `json:"isPinned"`
}

// Patch applies a moderation change: status, roll, or pin.
func (h *SubmissionHandler) Patch(c *gin.Context) {
	var body patchSubmissionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sub, err := h.submissions.Patch(c.Request.Context(), c.Param("id"), submission.Patch{
		Status:   body.Status,
		IsRolled: body.IsRolled,
		IsPinned: body.IsPinned,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sub)
}
