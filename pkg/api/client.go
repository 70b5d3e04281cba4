package api

import (
	"context"

	"connectrpc.com/connect"
)

// LedgerClient calls LedgerService. Callers authenticate by setting the
// Authorization header on each request, or with a client interceptor.
type LedgerClient struct {
	CreateGroup                  *connect.Client[CreateGroupRequest, GroupResponse]
	GetGroup                     *connect.Client[GroupIDRequest, GroupResponse]
	ListGroups                   *connect.Client[ListGroupsRequest, ListGroupsResponse]
	UpdateGroup                  *connect.Client[UpdateGroupRequest, GroupResponse]
	DeleteGroup                  *connect.Client[GroupIDRequest, DeleteGroupResponse]
	SetCurveShift                *connect.Client[SetCurveShiftRequest, GroupResponse]
	SetAllowEveryoneEnterMinutes *connect.Client[SetAllowEveryoneEnterMinutesRequest, GroupResponse]
	AddAdminEmail                *connect.Client[AdminEmailRequest, AdminEmailsResponse]
	RemoveAdminEmail             *connect.Client[AdminEmailRequest, AdminEmailsResponse]
	AddMember                    *connect.Client[AddMemberRequest, MemberResponse]
	RemoveMember                 *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
	RenameMember                 *connect.Client[RenameMemberRequest, MemberResponse]
	SetMemberRole                *connect.Client[SetMemberRoleRequest, MemberResponse]
	RecordMeeting                *connect.Client[RecordMeetingRequest, RecordMeetingResponse]
	CorrectMember                *connect.Client[CorrectMemberRequest, CorrectMemberResponse]
	ListMeetings                 *connect.Client[GroupIDRequest, ListMeetingsResponse]
	ListCorrections              *connect.Client[GroupIDRequest, ListCorrectionsResponse]
	GetHistory                   *connect.Client[GroupIDRequest, HistoryResponse]
	WatchGroup                   *connect.Client[GroupIDRequest, WatchGroupEvent]
}

// NewLedgerClient builds a LedgerClient for the server at baseURL.
func NewLedgerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &LedgerClient{
		CreateGroup:                  connect.NewClient[CreateGroupRequest, GroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		GetGroup:                     connect.NewClient[GroupIDRequest, GroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		ListGroups:                   connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+ListGroupsProcedure, opts...),
		UpdateGroup:                  connect.NewClient[UpdateGroupRequest, GroupResponse](httpClient, baseURL+UpdateGroupProcedure, opts...),
		DeleteGroup:                  connect.NewClient[GroupIDRequest, DeleteGroupResponse](httpClient, baseURL+DeleteGroupProcedure, opts...),
		SetCurveShift:                connect.NewClient[SetCurveShiftRequest, GroupResponse](httpClient, baseURL+SetCurveShiftProcedure, opts...),
		SetAllowEveryoneEnterMinutes: connect.NewClient[SetAllowEveryoneEnterMinutesRequest, GroupResponse](httpClient, baseURL+SetAllowEveryoneEnterMinutesProcedure, opts...),
		AddAdminEmail:                connect.NewClient[AdminEmailRequest, AdminEmailsResponse](httpClient, baseURL+AddAdminEmailProcedure, opts...),
		RemoveAdminEmail:             connect.NewClient[AdminEmailRequest, AdminEmailsResponse](httpClient, baseURL+RemoveAdminEmailProcedure, opts...),
		AddMember:                    connect.NewClient[AddMemberRequest, MemberResponse](httpClient, baseURL+AddMemberProcedure, opts...),
		RemoveMember:                 connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+RemoveMemberProcedure, opts...),
		RenameMember:                 connect.NewClient[RenameMemberRequest, MemberResponse](httpClient, baseURL+RenameMemberProcedure, opts...),
		SetMemberRole:                connect.NewClient[SetMemberRoleRequest, MemberResponse](httpClient, baseURL+SetMemberRoleProcedure, opts...),
		RecordMeeting:                connect.NewClient[RecordMeetingRequest, RecordMeetingResponse](httpClient, baseURL+RecordMeetingProcedure, opts...),
		CorrectMember:                connect.NewClient[CorrectMemberRequest, CorrectMemberResponse](httpClient, baseURL+CorrectMemberProcedure, opts...),
		ListMeetings:                 connect.NewClient[GroupIDRequest, ListMeetingsResponse](httpClient, baseURL+ListMeetingsProcedure, opts...),
		ListCorrections:              connect.NewClient[GroupIDRequest, ListCorrectionsResponse](httpClient, baseURL+ListCorrectionsProcedure, opts...),
		GetHistory:                   connect.NewClient[GroupIDRequest, HistoryResponse](httpClient, baseURL+GetHistoryProcedure, opts...),
		WatchGroup:                   connect.NewClient[GroupIDRequest, WatchGroupEvent](httpClient, baseURL+WatchGroupProcedure, opts...),
	}
}

// AuthClient calls AuthService.
type AuthClient struct {
	Register           *connect.Client[RegisterRequest, RegisterResponse]
	VerifyEmail        *connect.Client[VerifyEmailRequest, AuthResponse]
	ResendVerification *connect.Client[ResendVerificationRequest, ResendVerificationResponse]
	Login              *connect.Client[LoginRequest, AuthResponse]
	GetCurrentUser     *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthClient builds an AuthClient for the server at baseURL.
func NewAuthClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &AuthClient{
		Register:           connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+RegisterProcedure, opts...),
		VerifyEmail:        connect.NewClient[VerifyEmailRequest, AuthResponse](httpClient, baseURL+VerifyEmailProcedure, opts...),
		ResendVerification: connect.NewClient[ResendVerificationRequest, ResendVerificationResponse](httpClient, baseURL+ResendVerificationProcedure, opts...),
		Login:              connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+LoginProcedure, opts...),
		GetCurrentUser:     connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+GetCurrentUserProcedure, opts...),
	}
}

// BearerToken returns a client interceptor that authenticates every call,
// unary and streaming, with token.
func BearerToken(token string) connect.Interceptor {
	return bearerInterceptor{header: "Bearer " + token}
}

type bearerInterceptor struct {
	header string
}

func (b bearerInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			req.Header().Set("Authorization", b.header)
		}
		return next(ctx, req)
	}
}

func (b bearerInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		conn.RequestHeader().Set("Authorization", b.header)
		return conn
	}
}

func (b bearerInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
