package ledger

import (
	"context"
	"net/mail"
	"strings"

	"github.com/mmynk/latepizza/internal/calculator"
	"github.com/mmynk/latepizza/internal/models"
)

// CreateGroupInput holds the fields for a new group. A nil CurveShift means
// calculator.DefaultCurveShift.
type CreateGroupInput struct {
	Name       string
	CurveShift *float64
	Color      string
	Emoji      string
}

// UpdateGroupInput holds the presentational fields an admin may change.
// Nil fields are left as they are.
type UpdateGroupInput struct {
	Name  *string
	Color *string
	Emoji *string
}

// CreateGroup creates a group whose only admin is the creator.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput, actor string) (*models.Group, error) {
	const op = "CreateGroup"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, s.fail(op, validationf("group name is required"))
	}
	creator := models.NormalizeEmail(actor)
	if creator == "" {
		return nil, s.fail(op, validationf("creator identity is required"))
	}
	shift := calculator.DefaultCurveShift
	if in.CurveShift != nil {
		shift = *in.CurveShift
	}
	if err := calculator.ValidateCurveShift(shift); err != nil {
		return nil, s.fail(op, validationf("%v", err))
	}

	g := &models.Group{
		Name:      name,
		Color:     in.Color,
		Emoji:     in.Emoji,
		CreatedBy: creator,
		CreatedAt: s.now().UTC(),
		Settings: models.GroupSettings{
			CurveShift:  shift,
			AdminEmails: []string{creator},
		},
	}
	if err := s.store.CreateGroup(context.WithoutCancel(ctx), g); err != nil {
		return nil, s.fail(op, fromStore(err, "create group"))
	}

	s.logger.Info("Group created", "group_id", g.ID, "name", g.Name, "created_by", creator)
	return g, nil
}

// DeleteGroup deletes a group with all of its members, meetings and corrections.
func (s *Service) DeleteGroup(ctx context.Context, groupID, actor string) error {
	const op = "DeleteGroup"

	unlock := s.locks.lock(groupID)
	defer unlock()

	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return s.fail(op, fromStore(err, "load group"), "group_id", groupID)
	}
	if err := requireAdmin(g, actor); err != nil {
		return s.fail(op, err, "group_id", groupID)
	}
	if err := s.store.DeleteGroup(context.WithoutCancel(ctx), groupID); err != nil {
		return s.fail(op, fromStore(err, "delete group"), "group_id", groupID)
	}

	s.logger.Info("Group deleted", "group_id", groupID, "by", actor)
	return nil
}

// UpdateGroup changes a group's name, color or emoji.
func (s *Service) UpdateGroup(ctx context.Context, groupID string, in UpdateGroupInput, actor string) (*models.Group, error) {
	g, err := s.update(ctx, "UpdateGroup", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return validationf("group name is required")
			}
			g.Name = name
		}
		if in.Color != nil {
			g.Color = *in.Color
		}
		if in.Emoji != nil {
			g.Emoji = *in.Emoji
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group updated", "group_id", groupID, "name", g.Name)
	return g, nil
}

// SetCurveShift changes the formula parameter for future meetings. Awards
// already recorded are not recomputed.
func (s *Service) SetCurveShift(ctx context.Context, groupID string, value float64, actor string) error {
	_, err := s.update(ctx, "SetCurveShift", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		if err := calculator.ValidateCurveShift(value); err != nil {
			return validationf("%v", err)
		}
		g.Settings.CurveShift = value
		return nil
	}, nil)
	if err != nil {
		return err
	}

	s.logger.Info("Curve shift updated", "group_id", groupID, "curve_shift", value)
	return nil
}

// SetAllowEveryoneEnterMinutes toggles whether non-admins may record meetings.
func (s *Service) SetAllowEveryoneEnterMinutes(ctx context.Context, groupID string, allow bool, actor string) error {
	_, err := s.update(ctx, "SetAllowEveryoneEnterMinutes", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		g.Settings.AllowEveryoneEnterMinutes = allow
		return nil
	}, nil)
	if err != nil {
		return err
	}

	s.logger.Info("Meeting entry permission updated", "group_id", groupID, "allow_everyone", allow)
	return nil
}

// AddAdminEmail grants admin rights to email and returns the new list.
// Adding an email that is already present (ignoring case) changes nothing
// and returns the list as it was.
func (s *Service) AddAdminEmail(ctx context.Context, groupID, email, actor string) ([]string, error) {
	const op = "AddAdminEmail"

	normalized := models.NormalizeEmail(email)
	added := false
	g, err := s.update(ctx, op, groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		if err := validateEmail(normalized); err != nil {
			return err
		}
		for _, existing := range g.Settings.AdminEmails {
			if models.NormalizeEmail(existing) == normalized {
				return nil
			}
		}
		g.Settings.AdminEmails = append(g.Settings.AdminEmails, normalized)
		added = true
		return nil
	}, func(ctx context.Context, g *models.Group) error {
		if !added {
			return nil
		}
		return s.store.SaveGroup(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	if added {
		s.logger.Info("Admin email added", "group_id", groupID, "email", normalized, "by", actor)
	}
	return g.Settings.AdminEmails, nil
}

// RemoveAdminEmail revokes admin rights from email and returns the new list.
// The creator (first entry) and the last remaining admin cannot be removed.
func (s *Service) RemoveAdminEmail(ctx context.Context, groupID, email, actor string) ([]string, error) {
	normalized := models.NormalizeEmail(email)
	g, err := s.update(ctx, "RemoveAdminEmail", groupID, func(g *models.Group) error {
		if err := requireAdmin(g, actor); err != nil {
			return err
		}
		emails := g.Settings.AdminEmails
		idx := -1
		for i, existing := range emails {
			if models.NormalizeEmail(existing) == normalized {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			return notFoundf("%q is not an admin of group %s", email, g.ID)
		case len(emails) == 1:
			return validationf("cannot remove the last admin")
		case idx == 0:
			return validationf("cannot remove the group creator %q", emails[0])
		}
		g.Settings.AdminEmails = append(emails[:idx:idx], emails[idx+1:]...)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin email removed", "group_id", groupID, "email", normalized, "by", actor)
	return g.Settings.AdminEmails, nil
}

// GetGroup returns one group.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail("GetGroup", fromStore(err, "load group"), "group_id", groupID)
	}
	return g, nil
}

// ListGroups returns every group.
func (s *Service) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, s.fail("ListGroups", fromStore(err, "list groups"))
	}
	return groups, nil
}

// SubscribeGroup calls fn with the group after every change, or nil once it
// is deleted. fn runs on the writer's goroutine and must not block.
func (s *Service) SubscribeGroup(groupID string, fn func(*models.Group)) (unsubscribe func()) {
	return s.store.SubscribeGroup(groupID, fn)
}

// SubscribeGroups calls fn with all groups after any group change.
func (s *Service) SubscribeGroups(fn func([]*models.Group)) (unsubscribe func()) {
	return s.store.SubscribeGroups(fn)
}

func validateEmail(email string) error {
	if email == "" {
		return validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationf("invalid email %q", email)
	}
	return nil
}
