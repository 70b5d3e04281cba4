package models

// Role is a presentational/authorization hint on a member. It is distinct from
// the group admin email list, which is what actually gates mutations.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleNormal
}

// Member is a participant tracked within exactly one group.
type Member struct {
	// ID is unique within the group (UUID format).
	ID string

	DisplayName string

	// Initials are derived from DisplayName; see ledger.Initials.
	Initials string

	Role Role

	// TotalPizzas is the number of whole pizzas owed. Never negative.
	TotalPizzas int

	// TotalSlices is the remainder, always in [0, 6).
	TotalSlices int
}
