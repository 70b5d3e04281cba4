// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/latepizza/internal/models"
)

var (
	// ErrNotFound is returned when a referenced group or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write was based on a stale group version.
	ErrConflict = errors.New("version conflict")
)

// Store defines the persistence port used by the ledger.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the ledger.
//
// Every group write is a compare-and-swap on Group.Version: the caller passes
// the group as it read it (with mutations applied), and the store rejects the
// write with ErrConflict if someone else wrote in between. On success the
// store increments group.Version in place.
type Store interface {
	// CreateGroup persists a new group. ID, CreatedAt and member IDs are
	// filled in by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members. Returns ErrNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups ordered by creation time.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// SaveGroup atomically replaces a group's fields, settings and members.
	SaveGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group with its members, meetings and corrections.
	// Returns ErrNotFound.
	DeleteGroup(ctx context.Context, groupID string) error

	// SaveMeeting atomically writes the group (with updated balances) and
	// appends the meeting record. Either both land or neither does.
	SaveMeeting(ctx context.Context, group *models.Group, meeting *models.Meeting) error

	// SaveCorrection atomically writes the group and appends the correction.
	SaveCorrection(ctx context.Context, group *models.Group, correction *models.Correction) error

	// ListMeetings returns a group's meetings, oldest first.
	ListMeetings(ctx context.Context, groupID string) ([]*models.Meeting, error)

	// ListCorrections returns a group's corrections, oldest first.
	ListCorrections(ctx context.Context, groupID string) ([]*models.Correction, error)

	// SubscribeGroup registers fn to be called with the group after every
	// committed change, or with nil once it is deleted.
	SubscribeGroup(groupID string, fn func(*models.Group)) (unsubscribe func())

	// SubscribeGroups registers fn to be called with all groups after any
	// committed group change.
	SubscribeGroups(fn func([]*models.Group)) (unsubscribe func())

	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return ErrNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// MarkEmailVerified stamps the user's email as verified at the given Unix
	// time. It returns ErrNotFound when the user is absent.
	MarkEmailVerified(ctx context.Context, id string, at int64) error
}
