package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fenwick-games/lorekeeper/internal/services/layout/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "layout.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPreferenceRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	preference := domain.DefaultPreference("u1", "c1")
	preference.ID = "pref-1"
	preference.CollapsedSections["dm_notes"] = true
	preference.HiddenSections = []string{"player_notes"}
	preference.CreatedAt = now
	preference.UpdatedAt = now

	if err := store.PutPreference(ctx, preference); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, err := store.GetPreference(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ID != "pref-1" {
		t.Fatalf("unexpected id %q", loaded.ID)
	}
	if len(loaded.CompletedSectionOrder) != 4 || loaded.CompletedSectionOrder[0] != "dm_notes" {
		t.Fatalf("unexpected order %v", loaded.CompletedSectionOrder)
	}
	if !loaded.CollapsedSections["dm_notes"] {
		t.Fatalf("expected collapsed map preserved, got %v", loaded.CollapsedSections)
	}
	if len(loaded.HiddenSections) != 1 || loaded.HiddenSections[0] != "player_notes" {
		t.Fatalf("unexpected hidden sections %v", loaded.HiddenSections)
	}

	// Update in place by remembered id.
	loaded.PrepModuleOrder = []string{"references", "checklist"}
	loaded.UpdatedAt = now.Add(time.Minute)
	if err := store.PutPreference(ctx, loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := store.GetPreference(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if len(updated.PrepModuleOrder) != 2 || updated.PrepModuleOrder[0] != "references" {
		t.Fatalf("unexpected updated order %v", updated.PrepModuleOrder)
	}

	if _, err := store.GetPreference(ctx, "u1", "other"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	settings := domain.CampaignSettings{
		CampaignID:                "c1",
		AllOptionalSectionsHidden: true,
		DisabledPrepModules:       []string{"random_tables"},
		UpdatedAt:                 now,
	}
	if err := store.PutCampaignSettings(ctx, settings); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, err := store.GetCampaignSettings(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !loaded.AllOptionalSectionsHidden {
		t.Fatal("expected global hide flag preserved")
	}
	if len(loaded.DisabledPrepModules) != 1 || loaded.DisabledPrepModules[0] != "random_tables" {
		t.Fatalf("unexpected disabled modules %v", loaded.DisabledPrepModules)
	}

	settings.AllOptionalSectionsHidden = false
	settings.UpdatedAt = now.Add(time.Minute)
	if err := store.PutCampaignSettings(ctx, settings); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err = store.GetCampaignSettings(ctx, "c1")
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if loaded.AllOptionalSectionsHidden {
		t.Fatal("expected global hide flag cleared")
	}

	if _, err := store.GetCampaignSettings(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
