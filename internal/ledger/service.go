// Package ledger is the pizza debt engine: it owns the group, member, meeting
// and correction lifecycle, calls the slice formula and accumulator, and
// enforces uniqueness, non-negativity and admin-only authorization on top of a
// storage.Store.
//
// Every operation takes the acting identity (an email) explicitly. Mutations
// of one group are serialized in-process and written with a version check,
// so concurrent requests cannot lose balance updates.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/latepizza/internal/metrics"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/internal/storage"
)

// Service implements the ledger operations.
type Service struct {
	store   storage.Store
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
	locks   *groupLocks
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics reports operation outcomes to r.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		metrics: metrics.Nop{},
		logger:  slog.Default(),
		now:     time.Now,
		locks:   newGroupLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update loads the group under its lock, lets fn validate and mutate it, and
// persists the result with write. fn returning an error aborts before any
// write. The write itself ignores caller cancellation: once issued it runs
// to completion so a balance never lands without its record.
func (s *Service) update(ctx context.Context, op, groupID string, fn func(g *models.Group) error, write func(ctx context.Context, g *models.Group) error) (*models.Group, error) {
	unlock := s.locks.lock(groupID)
	defer unlock()

	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail(op, fromStore(err, "load group"), "group_id", groupID)
	}

	if err := fn(g); err != nil {
		return nil, s.fail(op, err, "group_id", groupID)
	}

	if write == nil {
		write = s.store.SaveGroup
	}
	if err := write(context.WithoutCancel(ctx), g); err != nil {
		return nil, s.fail(op, fromStore(err, "save group"), "group_id", groupID)
	}
	return g, nil
}

// fail logs and counts a failed operation and returns err unchanged.
func (s *Service) fail(op string, err error, attrs ...any) error {
	kind := Kind(err)
	s.metrics.RecordLedgerError(op, kind)

	args := append([]any{"op", op, "kind", kind, "error", err}, attrs...)
	switch kind {
	case "persistence", "conflict":
		s.logger.Error("Ledger operation failed", args...)
	default:
		s.logger.Warn("Ledger operation rejected", args...)
	}
	return err
}
