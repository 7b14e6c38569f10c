package store

import (
	"context"
	"errors"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
)

var (
	// ErrNotFound keeps storage-specific lookup misses consistent
	// across the mongo and in-memory implementations.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a uniqueness violation (email, username, phone).
	ErrDuplicate = errors.New("record already exists")
)

// IssueStore persists issue aggregates. Listings are always ordered by
// creation time, newest first.
type IssueStore interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, userID string) ([]models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id string) error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// FindByIdentifier resolves a login identifier that may be an
	// email, username or phone number.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// GetOrCreateAnonymous resolves the well-known anonymous reporter,
	// creating it on first use. Safe to call on every submission.
	GetOrCreateAnonymous(ctx context.Context) (*models.User, error)
}
