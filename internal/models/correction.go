package models

import "time"

// Correction is an immutable admin-authored adjustment to one member's balance.
type Correction struct {
	// ID is the unique identifier for the correction (UUID format).
	ID string

	GroupID string

	// MemberID is a weak reference; the member may since have been removed.
	MemberID string

	// DeltaSlices is the signed adjustment, already rounded to an integer.
	DeltaSlices int

	// Reason is an optional free-text note.
	Reason string

	At time.Time

	// By is the email of the admin who applied the correction.
	By string
}
