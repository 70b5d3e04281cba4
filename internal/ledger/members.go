package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/latepizza/internal/models"
)

// AddMember adds a member with a zero balance.
func (s *Service) AddMember(ctx context.Context, groupID, displayName, actor string) (*models.Member, error) {
	var member models.Member
	_, err := s.update(ctx, "AddMember", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		name := strings.TrimSpace(displayName)
		initials := Initials(name)
		if initials == "" {
			return validationf("member display name is required")
		}
		member = models.Member{
			ID:          uuid.New().String(),
			DisplayName: name,
			Initials:    initials,
			Role:        models.RoleNormal,
		}
		g.Members = append(g.Members, member)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Member added", "group_id", groupID, "member_id", member.ID, "name", member.DisplayName)
	return &member, nil
}

// RemoveMember removes a member. Meetings and corrections that name it are kept.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID, actor string) error {
	_, err := s.update(ctx, "RemoveMember", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		_, idx := g.Member(memberID)
		if idx < 0 {
			return notFoundf("member %s in group %s", memberID, groupID)
		}
		g.Members = append(g.Members[:idx:idx], g.Members[idx+1:]...)
		return nil
	}, nil)
	if err != nil {
		return err
	}

	s.logger.Info("Member removed", "group_id", groupID, "member_id", memberID)
	return nil
}

// RenameMember changes a member's display name and re-derives its initials.
func (s *Service) RenameMember(ctx context.Context, groupID, memberID, displayName, actor string) (*models.Member, error) {
	var renamed models.Member
	_, err := s.update(ctx, "RenameMember", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		m, _ := g.Member(memberID)
		if m == nil {
			return notFoundf("member %s in group %s", memberID, groupID)
		}
		name := strings.TrimSpace(displayName)
		initials := Initials(name)
		if initials == "" {
			return validationf("member display name is required")
		}
		m.DisplayName = name
		m.Initials = initials
		renamed = *m
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return &renamed, nil
}

// SetMemberRole changes a member's role. Roles are informational; only the
// admin email list gates mutations.
func (s *Service) SetMemberRole(ctx context.Context, groupID, memberID string, role models.Role, actor string) (*models.Member, error) {
	var updated models.Member
	_, err := s.update(ctx, "SetMemberRole", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		if !role.Valid() {
			return validationf("unknown role %q", role)
		}
		m, _ := g.Member(memberID)
		if m == nil {
			return notFoundf("member %s in group %s", memberID, groupID)
		}
		m.Role = role
		updated = *m
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
