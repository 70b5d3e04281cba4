package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/latepizza/internal/calculator"
	"github.com/mmynk/latepizza/internal/models"
)

// MaxMinutesLate bounds a single entry. Anything larger is a typo.
const MaxMinutesLate = 60 * 24 * 365

// RecordMeeting awards slices to every current member of the group from the
// minutes each was late and stores the meeting. Members missing from minutes
// count as on time; ids that are not members are ignored. Minutes are floored
// and negative values count as zero.
//
// Balances and the meeting record are written together or not at all.
func (s *Service) RecordMeeting(ctx context.Context, groupID string, at time.Time, minutes map[string]float64, actor string) (*models.Meeting, error) {
	const op = "RecordMeeting"

	if at.IsZero() {
		at = s.now()
	}

	var meeting *models.Meeting
	_, err := s.update(ctx, op, groupID, func(g *models.Group) error {
		if !CanRecordMeeting(g, actor) {
			return fmt.Errorf("%w: %q may not record meetings for group %s", ErrUnauthorized, actor, g.ID)
		}
		if err := validateMinutes(minutes); err != nil {
			return err
		}

		meeting = &models.Meeting{
			ID:         uuid.New().String(),
			GroupID:    g.ID,
			At:         at.UTC(),
			CurveShift: g.Settings.CurveShift,
			RecordedBy: models.NormalizeEmail(actor),
			Entries:    make([]models.MeetingEntry, 0, len(g.Members)),
		}
		known := make(map[string]bool, len(g.Members))
		for i := range g.Members {
			m := &g.Members[i]
			known[m.ID] = true

			late := int(math.Max(0, math.Floor(minutes[m.ID])))
			award := calculator.SlicesForMinutes(float64(late), g.Settings.CurveShift)
			b := calculator.AddSlices(m.TotalPizzas, m.TotalSlices, award)
			m.TotalPizzas, m.TotalSlices = b.Pizzas, b.Slices

			meeting.Entries = append(meeting.Entries, models.MeetingEntry{
				MemberID:      m.ID,
				MinutesLate:   late,
				SlicesAwarded: award,
			})
		}

		var unknown []string
		for id := range minutes {
			if !known[id] {
				unknown = append(unknown, id)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			s.logger.Warn("Ignoring minutes for unknown members",
				"group_id", g.ID, "member_ids", strings.Join(unknown, ","))
		}
		return nil
	}, func(ctx context.Context, g *models.Group) error {
		return s.store.SaveMeeting(ctx, g, meeting)
	})
	if err != nil {
		return nil, err
	}

	total := meeting.TotalSlices()
	s.metrics.RecordMeeting(len(meeting.Entries), total)
	s.logger.Info("Meeting recorded",
		"group_id", groupID,
		"meeting_id", meeting.ID,
		"members", len(meeting.Entries),
		"slices_awarded", total,
	)
	return meeting, nil
}

// CorrectMember applies a signed adjustment to one member's balance and stores
// the correction. delta is rounded half away from zero. A delta that would
// take the balance below zero leaves it at exactly zero.
func (s *Service) CorrectMember(ctx context.Context, groupID, memberID string, delta float64, actor, reason string) (*models.Correction, error) {
	const op = "CorrectMember"

	var (
		correction *models.Correction
		clamped    bool
	)
	_, err := s.update(ctx, op, groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		deltaSlices, err := correctionSlices(delta)
		if err != nil {
			return err
		}
		m, _ := g.Member(memberID)
		if m == nil {
			return notFoundf("member %s in group %s", memberID, groupID)
		}

		before := calculator.Balance{Pizzas: m.TotalPizzas, Slices: m.TotalSlices}
		clamped = calculator.Clamped(before, deltaSlices)
		after := calculator.AdjustSlices(m.TotalPizzas, m.TotalSlices, deltaSlices)
		m.TotalPizzas, m.TotalSlices = after.Pizzas, after.Slices

		correction = &models.Correction{
			ID:          uuid.New().String(),
			GroupID:     g.ID,
			MemberID:    memberID,
			DeltaSlices: deltaSlices,
			Reason:      strings.TrimSpace(reason),
			At:          s.now().UTC(),
			By:          models.NormalizeEmail(actor),
		}
		return nil
	}, func(ctx context.Context, g *models.Group) error {
		return s.store.SaveCorrection(ctx, g, correction)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCorrection(correction.DeltaSlices, clamped)
	s.logger.Info("Member corrected",
		"group_id", groupID,
		"member_id", memberID,
		"delta_slices", correction.DeltaSlices,
		"clamped", clamped,
	)
	return correction, nil
}

// GetMeetings returns a group's meetings, oldest first.
func (s *Service) GetMeetings(ctx context.Context, groupID string) ([]*models.Meeting, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	meetings, err := s.store.ListMeetings(ctx, groupID)
	if err != nil {
		return nil, s.fail("GetMeetings", fromStore(err, "list meetings"), "group_id", groupID)
	}
	return meetings, nil
}

// GetCorrections returns a group's corrections, oldest first.
func (s *Service) GetCorrections(ctx context.Context, groupID string) ([]*models.Correction, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	corrections, err := s.store.ListCorrections(ctx, groupID)
	if err != nil {
		return nil, s.fail("GetCorrections", fromStore(err, "list corrections"), "group_id", groupID)
	}
	return corrections, nil
}

// GetHistory returns meetings and corrections merged, newest first.
// Items at the same instant list meetings before corrections.
func (s *Service) GetHistory(ctx context.Context, groupID string) ([]models.HistoryItem, error) {
	meetings, err := s.GetMeetings(ctx, groupID)
	if err != nil {
		return nil, err
	}
	corrections, err := s.store.ListCorrections(ctx, groupID)
	if err != nil {
		return nil, s.fail("GetHistory", fromStore(err, "list corrections"), "group_id", groupID)
	}

	items := make([]models.HistoryItem, 0, len(meetings)+len(corrections))
	for _, m := range meetings {
		items = append(items, models.HistoryItem{Kind: models.HistoryMeeting, At: m.At, Meeting: m})
	}
	for _, c := range corrections {
		items = append(items, models.HistoryItem{Kind: models.HistoryCorrection, At: c.At, Correction: c})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].At.After(items[j].At)
	})
	return items, nil
}

// validateMinutes rejects entries that cannot be turned into an award.
func validateMinutes(minutes map[string]float64) error {
	for id, m := range minutes {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return validationf("minutes for member %s must be a finite number", id)
		}
		if m > MaxMinutesLate {
			return validationf("minutes for member %s exceed %d", id, MaxMinutesLate)
		}
	}
	return nil
}

// correctionSlices rounds delta half away from zero.
func correctionSlices(delta float64) (int, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, validationf("correction must be a finite number")
	}
	rounded := math.Round(delta)
	if math.Abs(rounded) > math.MaxInt32 {
		return 0, validationf("correction of %v slices is out of range", delta)
	}
	return int(rounded), nil
}
