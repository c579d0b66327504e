package domain

import (
	"testing"
)

func strptr(s string) *string { return &s }

func TestParseSyncDirection(t *testing.T) {
	t.Parallel()

	if _, err := ParseSyncDirection("vault_to_campaign"); err != nil {
		t.Fatalf("vault_to_campaign: %v", err)
	}
	if _, err := ParseSyncDirection("campaign_to_vault"); err != nil {
		t.Fatalf("campaign_to_vault: %v", err)
	}
	if _, err := ParseSyncDirection("sideways"); err == nil {
		t.Fatal("expected invalid direction error")
	}
}

func TestApplySyncVaultToCampaign(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{
		Name:     "Wren",
		Pronouns: strptr("she/her"),
		Fears:    strptr("deep water"),
	}
	campaign := &CampaignCharacter{
		Name:     "Old Name",
		Pronouns: strptr("they/them"),
		Ideals:   strptr("justice"),
	}

	updated := ApplySync(vault, campaign, SyncVaultToCampaign)

	if campaign.Name != "Wren" {
		t.Fatalf("expected name synced, got %q", campaign.Name)
	}
	if campaign.Pronouns == nil || *campaign.Pronouns != "she/her" {
		t.Fatalf("expected pronouns synced, got %v", campaign.Pronouns)
	}
	if campaign.Fears == nil || *campaign.Fears != "deep water" {
		t.Fatalf("expected fears synced, got %v", campaign.Fears)
	}
	// Null vault values overwrite campaign values; the allow-list copy is
	// unconditional per field.
	if campaign.Ideals != nil {
		t.Fatalf("expected nil vault ideals to clear campaign ideals, got %v", campaign.Ideals)
	}
	if len(updated) != len(SyncFields) {
		t.Fatalf("expected %d updated fields, got %d", len(SyncFields), len(updated))
	}
}

func TestApplySyncDoesNotAliasPointers(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{Name: "Wren", Fears: strptr("spiders")}
	campaign := &CampaignCharacter{Name: "Wren"}

	ApplySync(vault, campaign, SyncVaultToCampaign)

	*campaign.Fears = "mutated"
	if *vault.Fears != "spiders" {
		t.Fatal("expected synced values to be copies, not shared pointers")
	}
}

func TestBackstoryFieldMappingRoundTrip(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{Name: "Wren", BackstorySummary: strptr("X")}
	campaign := &CampaignCharacter{Name: "Wren"}

	updated := ApplySync(vault, campaign, SyncVaultToCampaign)
	if campaign.Backstory == nil || *campaign.Backstory != "X" {
		t.Fatalf("expected campaign backstory X, got %v", campaign.Backstory)
	}
	if updated[len(updated)-1] != "backstory" {
		t.Fatalf("expected backstory in updated fields, got %v", updated)
	}

	campaign.Backstory = strptr("Y")
	updated = ApplySync(vault, campaign, SyncCampaignToVault)
	if vault.BackstorySummary == nil || *vault.BackstorySummary != "Y" {
		t.Fatalf("expected vault backstory_summary Y, got %v", vault.BackstorySummary)
	}
	if updated[len(updated)-1] != "backstory_summary" {
		t.Fatalf("expected backstory_summary in updated fields, got %v", updated)
	}
}

func TestApplySyncSkipsEmptyBackstory(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{Name: "Wren", BackstorySummary: strptr("")}
	campaign := &CampaignCharacter{Name: "Wren", Backstory: strptr("kept")}

	ApplySync(vault, campaign, SyncVaultToCampaign)
	if campaign.Backstory == nil || *campaign.Backstory != "kept" {
		t.Fatalf("expected empty backstory_summary to leave campaign backstory, got %v", campaign.Backstory)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		vault      VaultCharacter
		campaign   CampaignCharacter
		wantFields []string
	}{
		{
			name:       "identical",
			vault:      VaultCharacter{Name: "Wren"},
			campaign:   CampaignCharacter{Name: "Wren"},
			wantFields: nil,
		},
		{
			name:       "name differs",
			vault:      VaultCharacter{Name: "Wren"},
			campaign:   CampaignCharacter{Name: "Raven"},
			wantFields: []string{"name"},
		},
		{
			name:       "nil both sides is equal",
			vault:      VaultCharacter{Name: "Wren", Fears: nil},
			campaign:   CampaignCharacter{Name: "Wren", Fears: nil},
			wantFields: nil,
		},
		{
			name:       "nil versus empty differs",
			vault:      VaultCharacter{Name: "Wren", Fears: strptr("")},
			campaign:   CampaignCharacter{Name: "Wren", Fears: nil},
			wantFields: []string{"fears"},
		},
		{
			name:       "backstory special case",
			vault:      VaultCharacter{Name: "Wren", BackstorySummary: strptr("a")},
			campaign:   CampaignCharacter{Name: "Wren", Backstory: strptr("b")},
			wantFields: []string{"backstory"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			diffs := Diff(&tc.vault, &tc.campaign)
			if len(diffs) != len(tc.wantFields) {
				t.Fatalf("expected %d diffs, got %d: %+v", len(tc.wantFields), len(diffs), diffs)
			}
			for i, want := range tc.wantFields {
				if diffs[i].Field != want {
					t.Fatalf("expected diff field %q, got %q", want, diffs[i].Field)
				}
			}
		})
	}
}

func TestSyncableFieldNames(t *testing.T) {
	t.Parallel()

	names := SyncableFieldNames()
	if len(names) != 16 {
		t.Fatalf("expected 16 syncable fields, got %d", len(names))
	}
	if names[0] != "name" || names[len(names)-1] != "goals_motivations" {
		t.Fatalf("unexpected field order: %v", names)
	}
}
