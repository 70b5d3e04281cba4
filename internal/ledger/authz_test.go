package ledger

import (
	"testing"

	"github.com/mmynk/latepizza/internal/models"
)

func TestIsAdmin(t *testing.T) {
	g := &models.Group{Settings: models.GroupSettings{AdminEmails: []string{"owner@example.com", "Ops@Example.com"}}}

	tests := []struct {
		actor string
		want  bool
	}{
		{"owner@example.com", true},
		{"  OWNER@example.com ", true},
		{"ops@example.com", true},
		{"other@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAdmin(g, tt.actor); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.actor, got, tt.want)
		}
	}

	if IsAdmin(nil, "owner@example.com") {
		t.Error("IsAdmin(nil group) = true")
	}
}

func TestCanRecordMeeting(t *testing.T) {
	g := &models.Group{Settings: models.GroupSettings{AdminEmails: []string{"owner@example.com"}}}

	if CanRecordMeeting(g, "guest@example.com") {
		t.Error("guest allowed while AllowEveryoneEnterMinutes is off")
	}
	g.Settings.AllowEveryoneEnterMinutes = true
	if !CanRecordMeeting(g, "guest@example.com") {
		t.Error("guest rejected while AllowEveryoneEnterMinutes is on")
	}
	if CanRecordMeeting(g, " ") {
		t.Error("anonymous actor allowed")
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"alex doe smith": "AD",
		"  sam  ":        "S",
		"":               "",
		"   ":            "",
		"élodie martin":  "ÉM",
	}
	for name, want := range tests {
		if got := Initials(name); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}
