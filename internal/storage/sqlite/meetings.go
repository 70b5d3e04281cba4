package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/latepizza/internal/models"
)

// SaveMeeting writes the group's new balances and the meeting in one transaction.
func (s *SQLiteStore) SaveMeeting(ctx context.Context, group *models.Group, meeting *models.Meeting) error {
	// Generate ID if not set
	if meeting.ID == "" {
		meeting.ID = uuid.New().String()
	}
	meeting.GroupID = group.ID

	return s.inTx(ctx, group, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO meetings (id, group_id, at, curve_shift, recorded_by) VALUES (?, ?, ?, ?, ?)",
			meeting.ID, meeting.GroupID, meeting.At.UnixNano(), meeting.CurveShift, meeting.RecordedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meeting: %w", err)
		}

		for i, e := range meeting.Entries {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO meeting_entries (meeting_id, position, member_id, minutes_late, slices_awarded)
				 VALUES (?, ?, ?, ?, ?)`,
				meeting.ID, i, e.MemberID, e.MinutesLate, e.SlicesAwarded,
			)
			if err != nil {
				return fmt.Errorf("failed to insert meeting entry: %w", err)
			}
		}
		return nil
	})
}

// SaveCorrection writes the member's new balance and the correction in one transaction.
func (s *SQLiteStore) SaveCorrection(ctx context.Context, group *models.Group, correction *models.Correction) error {
	if correction.ID == "" {
		correction.ID = uuid.New().String()
	}
	correction.GroupID = group.ID

	var reason any
	if correction.Reason != "" {
		reason = correction.Reason
	}

	return s.inTx(ctx, group, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO corrections (id, group_id, member_id, delta_slices, reason, at, by_email)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			correction.ID, correction.GroupID, correction.MemberID, correction.DeltaSlices,
			reason, correction.At.UnixNano(), correction.By,
		)
		if err != nil {
			return fmt.Errorf("failed to insert correction: %w", err)
		}
		return nil
	})
}

// ListMeetings retrieves all meetings for a group with their entries, oldest first.
func (s *SQLiteStore) ListMeetings(ctx context.Context, groupID string) ([]*models.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, at, curve_shift, recorded_by
		 FROM meetings WHERE group_id = ? ORDER BY at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	var meetings []*models.Meeting
	byID := make(map[string]*models.Meeting)
	for rows.Next() {
		m := &models.Meeting{}
		var at int64
		if err := rows.Scan(&m.ID, &m.GroupID, &at, &m.CurveShift, &m.RecordedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		m.At = time.Unix(0, at).UTC()
		meetings = append(meetings, m)
		byID[m.ID] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	entryRows, err := s.db.QueryContext(ctx,
		`SELECT e.meeting_id, e.member_id, e.minutes_late, e.slices_awarded
		 FROM meeting_entries e JOIN meetings m ON m.id = e.meeting_id
		 WHERE m.group_id = ? ORDER BY e.meeting_id, e.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var (
			meetingID string
			e         models.MeetingEntry
		)
		if err := entryRows.Scan(&meetingID, &e.MemberID, &e.MinutesLate, &e.SlicesAwarded); err != nil {
			return nil, fmt.Errorf("failed to scan meeting entry: %w", err)
		}
		if m, ok := byID[meetingID]; ok {
			m.Entries = append(m.Entries, e)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meeting entries: %w", err)
	}

	return meetings, nil
}

// ListCorrections retrieves all corrections for a group, oldest first.
func (s *SQLiteStore) ListCorrections(ctx context.Context, groupID string) ([]*models.Correction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, member_id, delta_slices, reason, at, by_email
		 FROM corrections WHERE group_id = ? ORDER BY at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	var corrections []*models.Correction
	for rows.Next() {
		c := &models.Correction{}
		var (
			reason sql.NullString
			at     int64
		)
		if err := rows.Scan(&c.ID, &c.GroupID, &c.MemberID, &c.DeltaSlices, &reason, &at, &c.By); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		if reason.Valid {
			c.Reason = reason.String
		}
		c.At = time.Unix(0, at).UTC()
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corrections: %w", err)
	}

	return corrections, nil
}
