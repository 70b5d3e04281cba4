package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/ledger"
	"github.com/mmynk/latepizza/internal/middleware"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/pkg/api"
)

// LedgerService implements the Connect LedgerService on top of ledger.Service.
// Every handler takes the actor from the authenticated context; it must be
// mounted behind middleware.RequireAuth.
type LedgerService struct {
	ledger *ledger.Service
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(l *ledger.Service) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateGroup creates a new group administered by the caller.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	group, err := s.ledger.CreateGroup(ctx, ledger.CreateGroupInput{
		Name:       req.Msg.Name,
		CurveShift: req.Msg.CurveShift,
		Color:      req.Msg.Color,
		Emoji:      req.Msg.Emoji,
	}, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GroupIDRequest]) (*connect.Response[api.GroupResponse], error) {
	group, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context, _ *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.ledger.ListGroups(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: toAPIGroups(groups)}), nil
}

// UpdateGroup changes a group's name, color or emoji.
func (s *LedgerService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	group, err := s.ledger.UpdateGroup(ctx, req.Msg.GroupID, ledger.UpdateGroupInput{
		Name:  req.Msg.Name,
		Color: req.Msg.Color,
		Emoji: req.Msg.Emoji,
	}, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup deletes a group and everything recorded for it.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[api.GroupIDRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.ledger.DeleteGroup(ctx, req.Msg.GroupID, middleware.GetEmail(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// SetCurveShift changes the slice formula parameter for future meetings.
func (s *LedgerService) SetCurveShift(ctx context.Context, req *connect.Request[api.SetCurveShiftRequest]) (*connect.Response[api.GroupResponse], error) {
	if err := s.ledger.SetCurveShift(ctx, req.Msg.GroupID, req.Msg.CurveShift, middleware.GetEmail(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return s.GetGroup(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: req.Msg.GroupID}))
}

// SetAllowEveryoneEnterMinutes toggles whether non-admins may record meetings.
func (s *LedgerService) SetAllowEveryoneEnterMinutes(ctx context.Context, req *connect.Request[api.SetAllowEveryoneEnterMinutesRequest]) (*connect.Response[api.GroupResponse], error) {
	if err := s.ledger.SetAllowEveryoneEnterMinutes(ctx, req.Msg.GroupID, req.Msg.Allow, middleware.GetEmail(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return s.GetGroup(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: req.Msg.GroupID}))
}

// AddAdminEmail grants admin rights to an email.
func (s *LedgerService) AddAdminEmail(ctx context.Context, req *connect.Request[api.AdminEmailRequest]) (*connect.Response[api.AdminEmailsResponse], error) {
	emails, err := s.ledger.AddAdminEmail(ctx, req.Msg.GroupID, req.Msg.Email, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AdminEmailsResponse{AdminEmails: emails}), nil
}

// RemoveAdminEmail revokes admin rights from an email.
func (s *LedgerService) RemoveAdminEmail(ctx context.Context, req *connect.Request[api.AdminEmailRequest]) (*connect.Response[api.AdminEmailsResponse], error) {
	emails, err := s.ledger.RemoveAdminEmail(ctx, req.Msg.GroupID, req.Msg.Email, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AdminEmailsResponse{AdminEmails: emails}), nil
}

// AddMember adds a member with a zero balance.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.MemberResponse], error) {
	member, err := s.ledger.AddMember(ctx, req.Msg.GroupID, req.Msg.DisplayName, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MemberResponse{Member: toAPIMember(member)}), nil
}

// RemoveMember removes a member; its history stays.
func (s *LedgerService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	if err := s.ledger.RemoveMember(ctx, req.Msg.GroupID, req.Msg.MemberID, middleware.GetEmail(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// RenameMember changes a member's display name.
func (s *LedgerService) RenameMember(ctx context.Context, req *connect.Request[api.RenameMemberRequest]) (*connect.Response[api.MemberResponse], error) {
	member, err := s.ledger.RenameMember(ctx, req.Msg.GroupID, req.Msg.MemberID, req.Msg.DisplayName, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MemberResponse{Member: toAPIMember(member)}), nil
}

// SetMemberRole changes a member's role.
func (s *LedgerService) SetMemberRole(ctx context.Context, req *connect.Request[api.SetMemberRoleRequest]) (*connect.Response[api.MemberResponse], error) {
	member, err := s.ledger.SetMemberRole(ctx, req.Msg.GroupID, req.Msg.MemberID, models.Role(req.Msg.Role), middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.MemberResponse{Member: toAPIMember(member)}), nil
}
