// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/latepizza/internal/calculator"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// connection pragmas: enforce foreign keys on every pooled connection, wait
// for locks instead of failing, and take the write lock at BEGIN so two
// read-modify-write transactions cannot deadlock on upgrade.
const dsnOptions = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	*storage.Hub
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{Hub: storage.NewHub(), db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group with its admins and members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	group.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, color, emoji, created_by, created_at, version, curve_shift, allow_everyone_enter_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Color, group.Emoji, group.CreatedBy,
		group.CreatedAt.UnixNano(), group.Version, group.Settings.CurveShift,
		boolToInt(group.Settings.AllowEveryoneEnterMinutes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := writeChildren(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// GetGroup retrieves a group by ID, including admins and members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

// ListGroups retrieves all groups ordered by creation time.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		g, err := getGroup(ctx, s.db, id)
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between the two queries.
			continue
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// SaveGroup writes a group if its version is current.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	return s.inTx(ctx, group, func(tx *sql.Tx) error { return nil })
}

// DeleteGroup removes a group and everything it owns.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	// Foreign keys cascade, but be explicit in case a connection lost the pragma.
	for _, stmt := range []string{
		"DELETE FROM meeting_entries WHERE meeting_id IN (SELECT id FROM meetings WHERE group_id = ?)",
		"DELETE FROM meetings WHERE group_id = ?",
		"DELETE FROM corrections WHERE group_id = ?",
		"DELETE FROM members WHERE group_id = ?",
		"DELETE FROM group_admins WHERE group_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, groupID); err != nil {
			return fmt.Errorf("failed to cascade group delete: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.Publish(ctx, groupID, nil, s.ListGroups)
	return nil
}

// inTx runs the compare-and-swap group write plus extra in one transaction,
// then publishes the change.
func (s *SQLiteStore) inTx(ctx context.Context, group *models.Group, extra func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeGroup(ctx, tx, group); err != nil {
		return err
	}
	if err := extra(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Version++

	s.Publish(ctx, group.ID, group, s.ListGroups)
	return nil
}

// writeGroup updates the group row guarded by its version and rewrites its
// admins and members. It does not bump group.Version in memory; the caller
// does that after commit.
func writeGroup(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, color = ?, emoji = ?, curve_shift = ?,
		        allow_everyone_enter_minutes = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		group.Name, group.Color, group.Emoji, group.Settings.CurveShift,
		boolToInt(group.Settings.AllowEveryoneEnterMinutes),
		group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		var version int64
		err := tx.QueryRowContext(ctx, "SELECT version FROM groups WHERE id = ?", group.ID).Scan(&version)
		if err == sql.ErrNoRows {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check group version: %w", err)
		}
		return fmt.Errorf("group %s at version %d, write based on %d: %w",
			group.ID, version, group.Version, storage.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_admins WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear admins: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	return writeChildren(ctx, tx, group)
}

// writeChildren inserts the admin emails and members of group.
func writeChildren(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for i, email := range group.Settings.AdminEmails {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO group_admins (group_id, position, email) VALUES (?, ?, ?)",
			group.ID, i, email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert admin email: %w", err)
		}
	}

	for i := range group.Members {
		m := &group.Members[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO members (group_id, id, position, display_name, initials, role, total_pizzas, total_slices)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, m.ID, i, m.DisplayName, m.Initials, string(m.Role), m.TotalPizzas, m.TotalSlices,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

// getGroup loads one group. Loosely shaped rows are defaulted here and
// nowhere else: a missing curve shift becomes the default, a missing role
// becomes normal, a missing admin list falls back to the creator, and a
// balance outside [0, 6) slices is renormalized.
func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	g := &models.Group{}
	var (
		createdAt  int64
		curveShift sql.NullFloat64
		allow      int
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, name, color, emoji, created_by, created_at, version, curve_shift, allow_everyone_enter_minutes
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&g.ID, &g.Name, &g.Color, &g.Emoji, &g.CreatedBy, &createdAt, &g.Version, &curveShift, &allow)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	g.CreatedAt = time.Unix(0, createdAt).UTC()
	g.Settings.CurveShift = calculator.DefaultCurveShift
	if curveShift.Valid {
		g.Settings.CurveShift = curveShift.Float64
	}
	g.Settings.AllowEveryoneEnterMinutes = allow != 0

	// Admin emails
	rows, err := q.QueryContext(ctx,
		"SELECT email FROM group_admins WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin emails: %w", err)
	}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan admin email: %w", err)
		}
		g.Settings.AdminEmails = append(g.Settings.AdminEmails, email)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate admin emails: %w", err)
	}
	if len(g.Settings.AdminEmails) == 0 && g.CreatedBy != "" {
		g.Settings.AdminEmails = []string{g.CreatedBy}
	}

	// Members
	memberRows, err := q.QueryContext(ctx,
		`SELECT id, display_name, initials, role, total_pizzas, total_slices
		 FROM members WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var (
			m      models.Member
			role   sql.NullString
			pizzas int
			slices int
		)
		if err := memberRows.Scan(&m.ID, &m.DisplayName, &m.Initials, &role, &pizzas, &slices); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role.String)
		if !m.Role.Valid() {
			m.Role = models.RoleNormal
		}
		b := calculator.FromCombined(pizzas*calculator.SlicesPerPizza + slices)
		m.TotalPizzas, m.TotalSlices = b.Pizzas, b.Slices
		g.Members = append(g.Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return g, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
