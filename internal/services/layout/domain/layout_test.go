package domain

import "testing"

func TestDefaultPreference(t *testing.T) {
	t.Parallel()

	pref := DefaultPreference("u1", "c1")
	if pref.ID != "" {
		t.Fatalf("expected empty id before first write, got %q", pref.ID)
	}
	if len(pref.CompletedSectionOrder) != 4 || pref.CompletedSectionOrder[0] != "dm_notes" {
		t.Fatalf("unexpected completed order %v", pref.CompletedSectionOrder)
	}
	if len(pref.PrepModuleOrder) != 7 || pref.PrepModuleOrder[0] != "checklist" {
		t.Fatalf("unexpected prep order %v", pref.PrepModuleOrder)
	}

	// Defaults must not alias the package-level slices.
	pref.CompletedSectionOrder[0] = "mutated"
	if DefaultCompletedSectionOrder[0] != "dm_notes" {
		t.Fatal("default order was mutated through a preference")
	}
}

func TestIsSectionLocked(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"session_notes", "share_toggle", "attendance"} {
		if !IsSectionLocked(id) {
			t.Fatalf("expected %s locked", id)
		}
	}
	if IsSectionLocked("dm_notes") {
		t.Fatal("expected dm_notes unlocked")
	}
}

func TestCampaignSettingsOverrides(t *testing.T) {
	t.Parallel()

	settings := CampaignSettings{
		CampaignID:          "c1",
		DisabledPrepModules: []string{"random_tables"},
	}
	if !settings.IsModuleDisabled("random_tables") {
		t.Fatal("expected named module disabled")
	}
	if settings.IsModuleDisabled("checklist") {
		t.Fatal("expected unnamed module enabled")
	}

	settings.AllOptionalSectionsHidden = true
	if !settings.IsModuleDisabled("checklist") || !settings.IsSectionDisabled("dm_notes") {
		t.Fatal("expected everything optional disabled under global hide")
	}
	if settings.IsSectionDisabled("attendance") {
		t.Fatal("locked sections are structural and never disabled")
	}
}

func TestPreferenceClone(t *testing.T) {
	t.Parallel()

	pref := DefaultPreference("u1", "c1")
	pref.CollapsedSections["dm_notes"] = true
	pref.HiddenSections = []string{"player_notes"}

	clone := pref.Clone()
	clone.CollapsedSections["dm_notes"] = false
	clone.HiddenSections[0] = "mutated"
	clone.PrepModuleOrder[0] = "mutated"

	if !pref.CollapsedSections["dm_notes"] {
		t.Fatal("clone shares collapsed map")
	}
	if pref.HiddenSections[0] != "player_notes" {
		t.Fatal("clone shares hidden slice")
	}
	if pref.PrepModuleOrder[0] != "checklist" {
		t.Fatal("clone shares order slice")
	}
}
