// Package memory provides an in-memory implementation of storage.Store for
// tests and single-process development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps everything in maps guarded by a single RWMutex. Every write
// validates first and then applies all of its changes under the lock, so
// readers never observe a partial batch.
type Store struct {
	*storage.Hub

	mu          sync.RWMutex
	groups      map[string]*models.Group
	order       []string
	meetings    map[string][]*models.Meeting
	corrections map[string][]*models.Correction
	users       map[string]*models.User
	usersEmail  map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		Hub:         storage.NewHub(),
		groups:      make(map[string]*models.Group),
		meetings:    make(map[string][]*models.Meeting),
		corrections: make(map[string][]*models.Correction),
		users:       make(map[string]*models.User),
		usersEmail:  make(map[string]string),
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateGroup persists a new group.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	for i := range group.Members {
		if group.Members[i].ID == "" {
			group.Members[i].ID = uuid.New().String()
		}
	}

	s.mu.Lock()
	if _, exists := s.groups[group.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrConflict)
	}
	group.Version = 1
	s.groups[group.ID] = group.Clone()
	s.order = append(s.order, group.ID)
	s.mu.Unlock()

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return g.Clone(), nil
}

// ListGroups retrieves all groups in creation order.
func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.Group, 0, len(s.order))
	for _, id := range s.order {
		groups = append(groups, s.groups[id].Clone())
	}
	return groups, nil
}

// SaveGroup replaces a group if its version matches.
func (s *Store) SaveGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	if err := s.casLocked(group); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// DeleteGroup removes a group and everything it owns.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	if _, ok := s.groups[groupID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	delete(s.groups, groupID)
	delete(s.meetings, groupID)
	delete(s.corrections, groupID)
	for i, id := range s.order {
		if id == groupID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.Publish(ctx, groupID, nil, s.ListGroups)
	return nil
}

// SaveMeeting writes the group and appends the meeting in one step.
func (s *Store) SaveMeeting(ctx context.Context, group *models.Group, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.New().String()
	}

	s.mu.Lock()
	if err := s.casLocked(group); err != nil {
		s.mu.Unlock()
		return err
	}
	m := *meeting
	m.Entries = append([]models.MeetingEntry(nil), meeting.Entries...)
	s.meetings[group.ID] = append(s.meetings[group.ID], &m)
	s.mu.Unlock()

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// SaveCorrection writes the group and appends the correction in one step.
func (s *Store) SaveCorrection(ctx context.Context, group *models.Group, correction *models.Correction) error {
	if correction.ID == "" {
		correction.ID = uuid.New().String()
	}

	s.mu.Lock()
	if err := s.casLocked(group); err != nil {
		s.mu.Unlock()
		return err
	}
	c := *correction
	s.corrections[group.ID] = append(s.corrections[group.ID], &c)
	s.mu.Unlock()

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// ListMeetings returns a group's meetings ordered by time.
func (s *Store) ListMeetings(_ context.Context, groupID string) ([]*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Meeting, 0, len(s.meetings[groupID]))
	for _, m := range s.meetings[groupID] {
		c := *m
		c.Entries = append([]models.MeetingEntry(nil), m.Entries...)
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// ListCorrections returns a group's corrections ordered by time.
func (s *Store) ListCorrections(_ context.Context, groupID string) ([]*models.Correction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Correction, 0, len(s.corrections[groupID]))
	for _, c := range s.corrections[groupID] {
		cc := *c
		out = append(out, &cc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// CreateUser stores a user; emails are unique.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, exists := s.usersEmail[email]; exists {
		return fmt.Errorf("user %s: %w", email, storage.ErrConflict)
	}
	u := *user
	u.Email = email
	s.users[u.ID] = &u
	s.usersEmail[email] = u.ID
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	u := *s.users[id]
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	c := *u
	return &c, nil
}

// MarkEmailVerified stamps a user's email as verified.
func (s *Store) MarkEmailVerified(_ context.Context, id string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	u.EmailVerifiedAt = at
	u.UpdatedAt = at
	return nil
}

// casLocked replaces the stored group when versions match. Caller holds s.mu.
func (s *Store) casLocked(group *models.Group) error {
	current, ok := s.groups[group.ID]
	if !ok {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	if current.Version != group.Version {
		return fmt.Errorf("group %s at version %d, write based on %d: %w",
			group.ID, current.Version, group.Version, storage.ErrConflict)
	}
	for i := range group.Members {
		if group.Members[i].ID == "" {
			group.Members[i].ID = uuid.New().String()
		}
	}
	group.Version++
	s.groups[group.ID] = group.Clone()
	return nil
}
