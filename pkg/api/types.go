// Package api defines the wire messages of the latepizza Connect services.
// Messages are plain structs carried by the JSON codec in codec.go.
package api

import "time"

type Group struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	Color                     string    `json:"color,omitempty"`
	Emoji                     string    `json:"emoji,omitempty"`
	CreatedBy                 string    `json:"createdBy"`
	CreatedAt                 time.Time `json:"createdAt"`
	Version                   int64     `json:"version"`
	CurveShift                float64   `json:"curveShift"`
	AllowEveryoneEnterMinutes bool      `json:"allowEveryoneEnterMinutes"`
	AdminEmails               []string  `json:"adminEmails"`
	Members                   []Member  `json:"members"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Initials    string `json:"initials"`
	Role        string `json:"role"`
	TotalPizzas int    `json:"totalPizzas"`
	TotalSlices int    `json:"totalSlices"`
}

type Meeting struct {
	ID         string         `json:"id"`
	GroupID    string         `json:"groupId"`
	At         time.Time      `json:"at"`
	CurveShift float64        `json:"curveShift"`
	RecordedBy string         `json:"recordedBy"`
	Entries    []MeetingEntry `json:"entries"`
}

type MeetingEntry struct {
	MemberID      string `json:"memberId"`
	MinutesLate   int    `json:"minutesLate"`
	SlicesAwarded int    `json:"slicesAwarded"`
}

type Correction struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	MemberID    string    `json:"memberId"`
	DeltaSlices int       `json:"deltaSlices"`
	Reason      string    `json:"reason,omitempty"`
	At          time.Time `json:"at"`
	By          string    `json:"by"`
}

// HistoryItem carries exactly one of Meeting or Correction, named by Kind.
type HistoryItem struct {
	Kind       string      `json:"kind"`
	At         time.Time   `json:"at"`
	Meeting    *Meeting    `json:"meeting,omitempty"`
	Correction *Correction `json:"correction,omitempty"`
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Group requests

type CreateGroupRequest struct {
	Name string `json:"name"`
	// CurveShift defaults to 0.3 when omitted.
	CurveShift *float64 `json:"curveShift,omitempty"`
	Color      string   `json:"color,omitempty"`
	Emoji      string   `json:"emoji,omitempty"`
}

type GroupResponse struct {
	Group *Group `json:"group"`
}

type GroupIDRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupResponse struct{}

type UpdateGroupRequest struct {
	GroupID string  `json:"groupId"`
	Name    *string `json:"name,omitempty"`
	Color   *string `json:"color,omitempty"`
	Emoji   *string `json:"emoji,omitempty"`
}

type SetCurveShiftRequest struct {
	GroupID    string  `json:"groupId"`
	CurveShift float64 `json:"curveShift"`
}

type SetAllowEveryoneEnterMinutesRequest struct {
	GroupID string `json:"groupId"`
	Allow   bool   `json:"allow"`
}

type AdminEmailRequest struct {
	GroupID string `json:"groupId"`
	Email   string `json:"email"`
}

type AdminEmailsResponse struct {
	AdminEmails []string `json:"adminEmails"`
}

// Member requests

type AddMemberRequest struct {
	GroupID     string `json:"groupId"`
	DisplayName string `json:"displayName"`
}

type MemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
}

type RemoveMemberResponse struct{}

type RenameMemberRequest struct {
	GroupID     string `json:"groupId"`
	MemberID    string `json:"memberId"`
	DisplayName string `json:"displayName"`
}

type SetMemberRoleRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
	Role     string `json:"role"`
}

// Meeting and correction requests

type RecordMeetingRequest struct {
	GroupID string `json:"groupId"`
	// At defaults to the server's current time when omitted.
	At *time.Time `json:"at,omitempty"`
	// MinutesLate maps member IDs to minutes late. Members not listed were on time.
	MinutesLate map[string]float64 `json:"minutesLate"`
}

type RecordMeetingResponse struct {
	Meeting *Meeting `json:"meeting"`
}

type CorrectMemberRequest struct {
	GroupID     string  `json:"groupId"`
	MemberID    string  `json:"memberId"`
	DeltaSlices float64 `json:"deltaSlices"`
	Reason      string  `json:"reason,omitempty"`
}

type CorrectMemberResponse struct {
	Correction *Correction `json:"correction"`
}

type ListMeetingsResponse struct {
	Meetings []*Meeting `json:"meetings"`
}

type ListCorrectionsResponse struct {
	Corrections []*Correction `json:"corrections"`
}

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// WatchGroupEvent is one message of the WatchGroup stream. Deleted is set,
// with a nil Group, when the group goes away; the stream ends after it.
type WatchGroupEvent struct {
	Group   *Group `json:"group,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Auth requests

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// RegisterResponse carries the new, unverified account. No session token is
// issued until VerifyEmail succeeds.
type RegisterResponse struct {
	User *User `json:"user"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type ResendVerificationResponse struct{}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
