package api

const (
	LedgerServiceName = "latepizza.v1.LedgerService"
	AuthServiceName   = "latepizza.v1.AuthService"
)

// Fully-qualified procedure paths, as mounted on the HTTP router.
const (
	CreateGroupProcedure                  = "/" + LedgerServiceName + "/CreateGroup"
	GetGroupProcedure                     = "/" + LedgerServiceName + "/GetGroup"
	ListGroupsProcedure                   = "/" + LedgerServiceName + "/ListGroups"
	UpdateGroupProcedure                  = "/" + LedgerServiceName + "/UpdateGroup"
	DeleteGroupProcedure                  = "/" + LedgerServiceName + "/DeleteGroup"
	SetCurveShiftProcedure                = "/" + LedgerServiceName + "/SetCurveShift"
	SetAllowEveryoneEnterMinutesProcedure = "/" + LedgerServiceName + "/SetAllowEveryoneEnterMinutes"
	AddAdminEmailProcedure                = "/" + LedgerServiceName + "/AddAdminEmail"
	RemoveAdminEmailProcedure             = "/" + LedgerServiceName + "/RemoveAdminEmail"
	AddMemberProcedure                    = "/" + LedgerServiceName + "/AddMember"
	RemoveMemberProcedure                 = "/" + LedgerServiceName + "/RemoveMember"
	RenameMemberProcedure                 = "/" + LedgerServiceName + "/RenameMember"
	SetMemberRoleProcedure                = "/" + LedgerServiceName + "/SetMemberRole"
	RecordMeetingProcedure                = "/" + LedgerServiceName + "/RecordMeeting"
	CorrectMemberProcedure                = "/" + LedgerServiceName + "/CorrectMember"
	ListMeetingsProcedure                 = "/" + LedgerServiceName + "/ListMeetings"
	ListCorrectionsProcedure              = "/" + LedgerServiceName + "/ListCorrections"
	GetHistoryProcedure                   = "/" + LedgerServiceName + "/GetHistory"
	WatchGroupProcedure                   = "/" + LedgerServiceName + "/WatchGroup"

	RegisterProcedure           = "/" + AuthServiceName + "/Register"
	VerifyEmailProcedure        = "/" + AuthServiceName + "/VerifyEmail"
	ResendVerificationProcedure = "/" + AuthServiceName + "/ResendVerification"
	LoginProcedure              = "/" + AuthServiceName + "/Login"
	GetCurrentUserProcedure     = "/" + AuthServiceName + "/GetCurrentUser"
)
