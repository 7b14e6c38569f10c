package models

import (
	"errors"
	"fmt"
	"time"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusReported   IssueStatus = "REPORTED"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
	StatusRejected   IssueStatus = "REJECTED"
)

// AiStatus enum for the evidence verification verdict
type AiStatus string

const (
	AiReal      AiStatus = "REAL"
	AiFake      AiStatus = "FAKE"
	AiUncertain AiStatus = "UNCERTAIN"
)

// ErrInvalidStatus is returned for a status outside the four-value enumeration.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus validates a raw status string against the enumeration.
func ParseStatus(s string) (IssueStatus, error) {
	switch IssueStatus(s) {
	case StatusReported, StatusInProgress, StatusResolved, StatusRejected:
		return IssueStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID           string      `bson:"_id" json:"id"`
	Title        string      `bson:"title" json:"title"`
	Description  string      `bson:"description" json:"description"`
	Category     string      `bson:"category" json:"category"`
	Location     GeoPoint    `bson:"location" json:"location"`
	Images       []string    `bson:"images" json:"images"`
	Status       IssueStatus `bson:"status" json:"status"`
	ReportedBy   string      `bson:"reportedBy" json:"reportedBy"`
	AiStatus     AiStatus    `bson:"aiStatus" json:"aiStatus"`
	AiConfidence float64     `bson:"aiConfidence" json:"aiConfidence"`
	AiAnalysis   string      `bson:"aiAnalysis" json:"aiAnalysis"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus moves the issue to newStatus. Every status is reachable from
// every other one, including re-setting the current value; only the
// enumeration itself is enforced.
func (i *Issue) SetStatus(newStatus string) error {
	status, err := ParseStatus(newStatus)
	if err != nil {
		return err
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// CanMutate reports whether callerID may edit or delete this issue.
// Status transitions are not gated by this check.
func (i *Issue) CanMutate(callerID string) bool {
	return i.ReportedBy == callerID
}

// ApplyEdit overwrites the caller-editable fields. Status, images and
// the verification verdict are never touched by an edit.
func (i *Issue) ApplyEdit(title, description, category string) {
	i.Title = title
	i.Description = description
	i.Category = category
	i.UpdatedAt = time.Now()
}
