package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/store"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/verification"
)

// EvidenceVerifier produces an authenticity verdict for submitted
// evidence. It degrades internally and never returns an error.
type EvidenceVerifier interface {
	Verify(ctx context.Context, evidenceURL, description string) verification.Verdict
}

// IssueController handles the issue intake pipeline and the read and
// mutation endpoints around it.
type IssueController struct {
	Issues   store.IssueStore
	Users    store.UserStore
	Verifier EvidenceVerifier
}

func NewIssueController(issues store.IssueStore, users store.UserStore, verifier EvidenceVerifier) *IssueController {
	return &IssueController{Issues: issues, Users: users, Verifier: verifier}
}

// CreateIssue runs the submission pipeline: validate, resolve the
// acting user, verify the first piece of evidence, persist the issue
// in a single write, and return the composed result.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input struct {
		Title       string   `json:"title" binding:"required,min=3"`
		Description string   `json:"description"`
		Category    string   `json:"category" binding:"required"`
		Latitude    *float64 `json:"latitude" binding:"required"`
		Longitude   *float64 `json:"longitude" binding:"required"`
		Images      []string `json:"images"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := models.NewGeoPoint(*input.Longitude, *input.Latitude)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	// Resolve the acting user; submissions without an authenticated
	// caller are attributed to the well-known anonymous reporter.
	userID := callerID(c)
	if userID == "" {
		anon, err := ic.Users.GetOrCreateAnonymous(ctx)
		if err != nil {
			log.Println("Error resolving anonymous user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit issue"})
			return
		}
		userID = anon.ID
	}

	// The first image, if any, is the evidence reference. The verdict
	// is awaited before anything is written; verification failures
	// degrade inside the verifier and never block the submission.
	evidenceURL := ""
	if len(input.Images) > 0 {
		evidenceURL = input.Images[0]
	}
	verdict := ic.Verifier.Verify(ctx, evidenceURL, input.Description)

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	issue := models.Issue{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Location:     location,
		Images:       images,
		Status:       models.StatusReported,
		ReportedBy:   userID,
		AiStatus:     verdict.Status,
		AiConfidence: verdict.Confidence,
		AiAnalysis:   verdict.Analysis,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := ic.Issues.Create(ctx, &issue); err != nil {
		log.Println("Error inserting issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit issue"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"issue":          issue,
		"aiVerification": verdict,
	})
}

// GetAllIssues returns every issue, newest first
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetIssuesByUser retrieves all issues reported by a specific user
func (ic *IssueController) GetIssuesByUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.ListByReporter(ctx, c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// UpdateIssueStatus moves an issue to a new status. Any authenticated
// caller may do this; ownership is not checked here.
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if err := issue.SetStatus(input.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := ic.Issues.Update(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateIssue allows the reporter of an issue to edit its details.
// Edits never touch status, images or the verification verdict.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,min=3"`
		Description string `json:"description"`
		Category    string `json:"category" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if !issue.CanMutate(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own issues"})
		return
	}

	issue.ApplyEdit(input.Title, input.Description, input.Category)

	if err := ic.Issues.Update(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// DeleteIssue allows the reporter of an issue to permanently remove it
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if !issue.CanMutate(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own issues"})
		return
	}

	if err := ic.Issues.Delete(ctx, issue.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue deleted"})
}

// callerID extracts the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	userID, _ := userIDVal.(string)
	return userID
}
