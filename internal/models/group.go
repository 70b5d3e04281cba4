package models

import "time"

// Group is a named collection of members sharing one slice formula configuration.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Design Crew").
	Name string

	// Color and Emoji are presentational only.
	Color string
	Emoji string

	// CreatedBy is the email of the creator. It is also AdminEmails[0].
	CreatedBy string

	// CreatedAt is when the group was created.
	CreatedAt time.Time

	// Version is incremented on every write and used for compare-and-swap.
	Version int64

	Settings GroupSettings

	// Members are ordered by the time they were added.
	Members []Member
}

// GroupSettings holds per-group configuration.
type GroupSettings struct {
	// CurveShift is the offset inside the logarithmic slice formula. Must be > -2.
	CurveShift float64

	// AllowEveryoneEnterMinutes lets any authenticated actor record meetings.
	AllowEveryoneEnterMinutes bool

	// AdminEmails is the flat authorization list. The first entry is the
	// creator and can never be removed.
	AdminEmails []string
}

// Member returns the member with the given ID and its index, or -1.
func (g *Group) Member(id string) (*Member, int) {
	for i := range g.Members {
		if g.Members[i].ID == id {
			return &g.Members[i], i
		}
	}
	return nil, -1
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Settings.AdminEmails = append([]string(nil), g.Settings.AdminEmails...)
	c.Members = append([]Member(nil), g.Members...)
	return &c
}
