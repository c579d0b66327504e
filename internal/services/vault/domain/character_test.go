package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
)

func TestVaultCharacterValidate(t *testing.T) {
	t.Parallel()

	valid := VaultCharacter{ID: "v1", UserID: "u1", Name: "Wren", ContentMode: ContentModeActive}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid character: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*VaultCharacter)
	}{
		{"missing id", func(v *VaultCharacter) { v.ID = "" }},
		{"missing user", func(v *VaultCharacter) { v.UserID = " " }},
		{"missing name", func(v *VaultCharacter) { v.Name = "" }},
		{"bad content mode", func(v *VaultCharacter) { v.ContentMode = "paused" }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			character := valid
			tc.mutate(&character)
			err := character.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperrors.New(apperrors.CodeInvalidArgument, "")) {
				t.Fatalf("expected invalid argument code, got %v", err)
			}
		})
	}
}

func TestDesignatedFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		character CampaignCharacter
		userID    string
		email     string
		want      bool
	}{
		{
			name:      "by user id",
			character: CampaignCharacter{ControlledByUserID: strptr("u1")},
			userID:    "u1",
			want:      true,
		},
		{
			name:      "by email case-insensitive",
			character: CampaignCharacter{ControlledByEmail: strptr("Player@Example.COM")},
			userID:    "u2",
			email:     "player@example.com",
			want:      true,
		},
		{
			name:      "designated for someone else",
			character: CampaignCharacter{ControlledByUserID: strptr("u1")},
			userID:    "u2",
			email:     "other@example.com",
			want:      false,
		},
		{
			name:      "no designation",
			character: CampaignCharacter{},
			userID:    "u1",
			email:     "a@b.c",
			want:      false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.character.DesignatedFor(tc.userID, tc.email); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsDM(t *testing.T) {
	t.Parallel()

	campaign := Campaign{ID: "c1", OwnerUserID: "owner", Name: "The Long Road"}

	if !IsDM(campaign, nil, "owner") {
		t.Fatal("expected owner to be DM")
	}
	coDM := &CampaignMembership{UserID: "helper", Role: RoleCoDM}
	if !IsDM(campaign, coDM, "helper") {
		t.Fatal("expected co_dm member to be DM")
	}
	player := &CampaignMembership{UserID: "p1", Role: RolePlayer}
	if IsDM(campaign, player, "p1") {
		t.Fatal("expected player not to be DM")
	}
	if IsDM(campaign, coDM, "someone-else") {
		t.Fatal("expected mismatched membership not to grant DM")
	}
}

func TestCopyPresentationFields(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{
		Name:             "Wren",
		Pronouns:         strptr("she/her"),
		ShortDescription: strptr("a quiet ranger"),
		ImageURL:         strptr("https://img.example/wren.png"),
	}
	campaign := &CampaignCharacter{Name: "Placeholder", Notes: strptr("dm notes stay")}

	CopyPresentationFields(campaign, vault)

	if campaign.Name != "Wren" {
		t.Fatalf("expected name copied, got %q", campaign.Name)
	}
	if campaign.ShortDescription == nil || *campaign.ShortDescription != "a quiet ranger" {
		t.Fatalf("expected short description copied, got %v", campaign.ShortDescription)
	}
	if campaign.Notes == nil || *campaign.Notes != "dm notes stay" {
		t.Fatal("expected non-presentation fields untouched")
	}
}

func TestNewSessionZeroSnapshot(t *testing.T) {
	t.Parallel()

	vault := VaultCharacter{ID: "v1", UserID: "u1", Name: "Wren", ContentMode: ContentModeActive}
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	snapshot, err := NewSessionZeroSnapshot("snap-1", vault, "camp-1", "char-1", "u1", at)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}
	if snapshot.Type != SnapshotTypeSessionZero {
		t.Fatalf("expected session_0 type, got %s", snapshot.Type)
	}
	if snapshot.CampaignID != "camp-1" || snapshot.CampaignCharacterID != "char-1" {
		t.Fatalf("unexpected link identifiers %+v", snapshot)
	}
	if snapshot.Data == "" {
		t.Fatal("expected snapshot data")
	}
}

func TestParseUnlinkMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"leave", "memory", "merge"} {
		if _, err := ParseUnlinkMode(mode); err != nil {
			t.Fatalf("mode %s: %v", mode, err)
		}
	}
	if _, err := ParseUnlinkMode("vanish"); err == nil {
		t.Fatal("expected invalid mode error")
	}
}

func TestMemoryInactiveReason(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	reason := MemoryInactiveReason("camp-1", at)
	want := `Campaign memory from "camp-1" - stopped syncing on 2026-03-14`
	if reason != want {
		t.Fatalf("expected %q, got %q", want, reason)
	}
}
