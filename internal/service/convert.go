package service

import (
	"time"

	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	if g == nil {
		return nil
	}
	members := make([]api.Member, len(g.Members))
	for i := range g.Members {
		members[i] = *toAPIMember(&g.Members[i])
	}
	return &api.Group{
		ID:                        g.ID,
		Name:                      g.Name,
		Color:                     g.Color,
		Emoji:                     g.Emoji,
		CreatedBy:                 g.CreatedBy,
		CreatedAt:                 g.CreatedAt,
		Version:                   g.Version,
		CurveShift:                g.Settings.CurveShift,
		AllowEveryoneEnterMinutes: g.Settings.AllowEveryoneEnterMinutes,
		AdminEmails:               append([]string{}, g.Settings.AdminEmails...),
		Members:                   members,
	}
}

func toAPIGroups(groups []*models.Group) []*api.Group {
	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return out
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		Initials:    m.Initials,
		Role:        string(m.Role),
		TotalPizzas: m.TotalPizzas,
		TotalSlices: m.TotalSlices,
	}
}

func toAPIMeeting(m *models.Meeting) *api.Meeting {
	entries := make([]api.MeetingEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = api.MeetingEntry{
			MemberID:      e.MemberID,
			MinutesLate:   e.MinutesLate,
			SlicesAwarded: e.SlicesAwarded,
		}
	}
	return &api.Meeting{
		ID:         m.ID,
		GroupID:    m.GroupID,
		At:         m.At,
		CurveShift: m.CurveShift,
		RecordedBy: m.RecordedBy,
		Entries:    entries,
	}
}

func toAPICorrection(c *models.Correction) *api.Correction {
	return &api.Correction{
		ID:          c.ID,
		GroupID:     c.GroupID,
		MemberID:    c.MemberID,
		DeltaSlices: c.DeltaSlices,
		Reason:      c.Reason,
		At:          c.At,
		By:          c.By,
	}
}

func toAPIHistory(items []models.HistoryItem) []api.HistoryItem {
	out := make([]api.HistoryItem, len(items))
	for i, item := range items {
		out[i] = api.HistoryItem{Kind: string(item.Kind), At: item.At}
		switch item.Kind {
		case models.HistoryMeeting:
			out[i].Meeting = toAPIMeeting(item.Meeting)
		case models.HistoryCorrection:
			out[i].Correction = toAPICorrection(item.Correction)
		}
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.Verified(),
		CreatedAt:     time.Unix(u.CreatedAt, 0).UTC(),
	}
}
