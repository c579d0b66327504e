package domain

import "testing"

func TestApplyMergeCampaignValuesWin(t *testing.T) {
	t.Parallel()

	vault := &VaultCharacter{
		Name:           "Wren",
		Status:         strptr("Healthy"),
		Notes:          strptr("old notes"),
		ContentMode:    ContentModeInactive,
		InactiveReason: strptr("was archived"),
	}
	campaign := &CampaignCharacter{
		Name:   "Wren the Scarred",
		Status: strptr("Injured"),
		Level:  intptr(5),
	}

	merged := ApplyMerge(vault, campaign)

	if vault.Status == nil || *vault.Status != "Injured" {
		t.Fatalf("expected campaign status to win, got %v", vault.Status)
	}
	if vault.Name != "Wren the Scarred" {
		t.Fatalf("expected name merged, got %q", vault.Name)
	}
	if vault.Level == nil || *vault.Level != 5 {
		t.Fatalf("expected level merged, got %v", vault.Level)
	}
	// Null campaign values must not clobber vault fields.
	if vault.Notes == nil || *vault.Notes != "old notes" {
		t.Fatalf("expected nil campaign notes to preserve vault notes, got %v", vault.Notes)
	}
	if vault.ContentMode != ContentModeActive {
		t.Fatalf("expected merge to reactivate, got %s", vault.ContentMode)
	}
	if vault.InactiveReason != nil {
		t.Fatalf("expected inactive reason cleared, got %v", vault.InactiveReason)
	}

	if len(merged) == 0 {
		t.Fatal("expected merged field names")
	}
	for _, name := range merged {
		if name == "notes" {
			t.Fatal("notes was nil on the campaign side and must not be reported merged")
		}
	}
}

func intptr(i int) *int { return &i }

func TestNewVaultFromCampaign(t *testing.T) {
	t.Parallel()

	campaign := &CampaignCharacter{
		ID:         "char-1",
		CampaignID: "camp-1",
		Kind:       KindPC,
		Name:       "Brambles",
		Pronouns:   strptr("he/him"),
		Backstory:  strptr("raised by wolves"),
		Status:     strptr("alive"),
		Level:      intptr(3),
	}

	vault := NewVaultFromCampaign("vault-1", "user-1", campaign, campaign.CreatedAt)

	if vault.ID != "vault-1" || vault.UserID != "user-1" {
		t.Fatalf("unexpected identity %q/%q", vault.ID, vault.UserID)
	}
	if vault.Name != "Brambles" {
		t.Fatalf("expected name copied, got %q", vault.Name)
	}
	if vault.Pronouns == nil || *vault.Pronouns != "he/him" {
		t.Fatalf("expected pronouns copied, got %v", vault.Pronouns)
	}
	if vault.BackstorySummary == nil || *vault.BackstorySummary != "raised by wolves" {
		t.Fatalf("expected backstory mapped to backstory_summary, got %v", vault.BackstorySummary)
	}
	if vault.Level == nil || *vault.Level != 3 {
		t.Fatalf("expected level copied, got %v", vault.Level)
	}
	if vault.ContentMode != ContentModeActive {
		t.Fatalf("expected active content mode, got %s", vault.ContentMode)
	}
}
