package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
)

// InMemoryIssueStore is a map-backed IssueStore used in tests.
type InMemoryIssueStore struct {
	mu     sync.RWMutex
	issues map[string]models.Issue
}

func NewInMemoryIssueStore() *InMemoryIssueStore {
	return &InMemoryIssueStore{issues: make(map[string]models.Issue)}
}

func (s *InMemoryIssueStore) Create(ctx context.Context, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[issue.ID]; ok {
		return ErrDuplicate
	}
	s.issues[issue.ID] = *issue
	return nil
}

func (s *InMemoryIssueStore) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &issue, nil
}

func (s *InMemoryIssueStore) List(ctx context.Context) ([]models.Issue, error) {
	return s.filter(func(models.Issue) bool { return true }), nil
}

func (s *InMemoryIssueStore) ListByReporter(ctx context.Context, userID string) ([]models.Issue, error) {
	return s.filter(func(i models.Issue) bool { return i.ReportedBy == userID }), nil
}

func (s *InMemoryIssueStore) filter(keep func(models.Issue) bool) []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := []models.Issue{}
	for _, issue := range s.issues {
		if keep(issue) {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(a, b int) bool {
		return issues[a].CreatedAt.After(issues[b].CreatedAt)
	})
	return issues
}

func (s *InMemoryIssueStore) Update(ctx context.Context, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[issue.ID]; !ok {
		return ErrNotFound
	}
	s.issues[issue.ID] = *issue
	return nil
}

func (s *InMemoryIssueStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[id]; !ok {
		return ErrNotFound
	}
	delete(s.issues, id)
	return nil
}

// InMemoryUserStore is a map-backed UserStore used in tests.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]models.User)}
}

func (s *InMemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return ErrDuplicate
		}
		if user.PhoneNumber != "" && existing.PhoneNumber == user.PhoneNumber {
			return ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *InMemoryUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == identifier || user.Username == identifier ||
			(user.PhoneNumber != "" && user.PhoneNumber == identifier) {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) GetOrCreateAnonymous(ctx context.Context) (*models.User, error) {
	if user, err := s.FindByIdentifier(ctx, models.AnonymousEmail); err == nil {
		return user, nil
	}

	now := time.Now()
	user := &models.User{
		ID:          uuid.NewString(),
		Name:        models.AnonymousName,
		Email:       models.AnonymousEmail,
		Username:    models.AnonymousUsername,
		PhoneNumber: "0000000000",
		Role:        models.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
