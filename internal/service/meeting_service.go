package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/middleware"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/pkg/api"
)

// RecordMeeting awards slices for one meeting.
func (s *LedgerService) RecordMeeting(ctx context.Context, req *connect.Request[api.RecordMeetingRequest]) (*connect.Response[api.RecordMeetingResponse], error) {
	slog.Info("RecordMeeting request received",
		"group_id", req.Msg.GroupID,
		"entries", len(req.Msg.MinutesLate),
	)

	var at time.Time
	if req.Msg.At != nil {
		at = *req.Msg.At
	}
	meeting, err := s.ledger.RecordMeeting(ctx, req.Msg.GroupID, at, req.Msg.MinutesLate, middleware.GetEmail(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RecordMeetingResponse{Meeting: toAPIMeeting(meeting)}), nil
}

// CorrectMember applies a manual balance adjustment.
func (s *LedgerService) CorrectMember(ctx context.Context, req *connect.Request[api.CorrectMemberRequest]) (*connect.Response[api.CorrectMemberResponse], error) {
	slog.Info("CorrectMember request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"delta", req.Msg.DeltaSlices,
	)

	correction, err := s.ledger.CorrectMember(ctx, req.Msg.GroupID, req.Msg.MemberID, req.Msg.DeltaSlices, middleware.GetEmail(ctx), req.Msg.Reason)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CorrectMemberResponse{Correction: toAPICorrection(correction)}), nil
}

// ListMeetings returns a group's meetings, oldest first.
func (s *LedgerService) ListMeetings(ctx context.Context, req *connect.Request[api.GroupIDRequest]) (*connect.Response[api.ListMeetingsResponse], error) {
	meetings, err := s.ledger.GetMeetings(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Meeting, len(meetings))
	for i, m := range meetings {
		out[i] = toAPIMeeting(m)
	}
	return connect.NewResponse(&api.ListMeetingsResponse{Meetings: out}), nil
}

// ListCorrections returns a group's corrections, oldest first.
func (s *LedgerService) ListCorrections(ctx context.Context, req *connect.Request[api.GroupIDRequest]) (*connect.Response[api.ListCorrectionsResponse], error) {
	corrections, err := s.ledger.GetCorrections(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Correction, len(corrections))
	for i, c := range corrections {
		out[i] = toAPICorrection(c)
	}
	return connect.NewResponse(&api.ListCorrectionsResponse{Corrections: out}), nil
}

// GetHistory returns meetings and corrections merged, newest first.
func (s *LedgerService) GetHistory(ctx context.Context, req *connect.Request[api.GroupIDRequest]) (*connect.Response[api.HistoryResponse], error) {
	items, err := s.ledger.GetHistory(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.HistoryResponse{Items: toAPIHistory(items)}), nil
}

// WatchGroup streams the group's current state, then every change to it.
// A slow client only sees the latest state. The stream ends after the group
// is deleted or the client goes away.
func (s *LedgerService) WatchGroup(ctx context.Context, req *connect.Request[api.GroupIDRequest], stream *connect.ServerStream[api.WatchGroupEvent]) error {
	groupID := req.Msg.GroupID

	var mu sync.Mutex
	latest := make(chan *models.Group, 1)
	unsubscribe := s.ledger.SubscribeGroup(groupID, func(g *models.Group) {
		mu.Lock()
		defer mu.Unlock()
		select {
		case <-latest:
		default:
		}
		latest <- g
	})
	defer unsubscribe()

	group, err := s.ledger.GetGroup(ctx, groupID)
	if err != nil {
		return toConnectError(err)
	}
	if err := stream.Send(&api.WatchGroupEvent{Group: toAPIGroup(group)}); err != nil {
		return err
	}

	slog.Debug("Watching group", "group_id", groupID, "actor", middleware.GetEmail(ctx))
	for {
		select {
		case <-ctx.Done():
			return nil
		case g := <-latest:
			if g == nil {
				return stream.Send(&api.WatchGroupEvent{Deleted: true})
			}
			// Skip states older than the snapshot already sent.
			if g.Version <= group.Version {
				continue
			}
			group = g
			if err := stream.Send(&api.WatchGroupEvent{Group: toAPIGroup(g)}); err != nil {
				return err
			}
		}
	}
}
