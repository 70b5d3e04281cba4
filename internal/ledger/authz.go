package ledger

import (
	"fmt"

	"github.com/mmynk/latepizza/internal/models"
)

// IsAdmin reports whether actor is in the group's admin email list.
// Comparison ignores case and surrounding whitespace.
func IsAdmin(group *models.Group, actor string) bool {
	actor = models.NormalizeEmail(actor)
	if group == nil || actor == "" {
		return false
	}
	for _, email := range group.Settings.AdminEmails {
		if models.NormalizeEmail(email) == actor {
			return true
		}
	}
	return false
}

// CanRecordMeeting reports whether actor may record a meeting for group:
// admins always can, anyone with an identity can when the group allows it.
func CanRecordMeeting(group *models.Group, actor string) bool {
	if IsAdmin(group, actor) {
		return true
	}
	return group != nil && group.Settings.AllowEveryoneEnterMinutes && models.NormalizeEmail(actor) != ""
}

func requireAdmin(group *models.Group, actor string) error {
	if !IsAdmin(group, actor) {
		return fmt.Errorf("%w: %q is not an admin of group %s", ErrUnauthorized, actor, group.ID)
	}
	return nil
}
