package vaulthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fenwick-games/lorekeeper/internal/services/shared/authctx"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/app"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage/sqlite"
)

func strp(s string) *string { return &s }

func newTestMux(t *testing.T) (*http.ServeMux, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	mux := http.NewServeMux()
	NewHandler(app.NewService(store)).Register(mux)
	return mux, store
}

func seed(t *testing.T, store *sqlite.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := store.PutCampaign(ctx, domain.Campaign{
		ID: "camp-1", OwnerUserID: "dm-1", Name: "The Long Road",
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put campaign: %v", err)
	}
	if err := store.PutMembership(ctx, domain.CampaignMembership{
		ID: "mem-1", CampaignID: "camp-1", UserID: "player-1",
		Role: domain.RolePlayer, Email: strp("player@example.com"),
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put membership: %v", err)
	}
	if err := store.PutCampaignCharacter(ctx, domain.CampaignCharacter{
		ID: "char-1", CampaignID: "camp-1", Kind: domain.KindPC, Name: "Placeholder",
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put character: %v", err)
	}
	if err := store.PutVaultCharacter(ctx, domain.VaultCharacter{
		ID: "vault-1", UserID: "player-1", Name: "Wren",
		ContentMode: domain.ContentModeActive, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put vault character: %v", err)
	}
}

func authedRequest(method, target, body string, user authctx.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(authctx.WithUser(req.Context(), user))
}

func TestLinkEndpoint(t *testing.T) {
	t.Parallel()
	mux, store := newTestMux(t)
	seed(t, store)

	req := authedRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/link",
		`{"vaultCharacterId":"vault-1"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["vaultCharacterId"] != "vault-1" || body["characterId"] != "char-1" {
		t.Fatalf("unexpected body %v", body)
	}

	// A second link attempt conflicts.
	req = authedRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/link",
		`{"vaultCharacterId":"vault-1"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 conflict, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLinkRequiresAuthentication(t *testing.T) {
	t.Parallel()
	mux, store := newTestMux(t)
	seed(t, store)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/link",
		strings.NewReader(`{"vaultCharacterId":"vault-1"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSyncEndpointForbiddenDirection(t *testing.T) {
	t.Parallel()
	mux, store := newTestMux(t)
	seed(t, store)

	req := authedRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/link",
		`{"vaultCharacterId":"vault-1"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("link failed: %d %s", rec.Code, rec.Body.String())
	}

	// The DM must not pull into the player's vault.
	req = authedRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/sync",
		`{"direction":"campaign_to_vault"}`,
		authctx.User{ID: "dm-1", Email: "dm@example.com"})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDiffEndpoint(t *testing.T) {
	t.Parallel()
	mux, store := newTestMux(t)
	seed(t, store)

	req := authedRequest(http.MethodGet, "/campaigns/camp-1/characters/char-1/sync", "",
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		IsLinked       bool     `json:"isLinked"`
		SyncableFields []string `json:"syncableFields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.IsLinked {
		t.Fatal("expected unlinked character")
	}
	if len(body.SyncableFields) != 16 {
		t.Fatalf("expected 16 syncable fields, got %d", len(body.SyncableFields))
	}
}

func TestUnlinkWithModeEndpoint(t *testing.T) {
	t.Parallel()
	mux, store := newTestMux(t)
	seed(t, store)

	req := authedRequest(http.MethodPost, "/campaigns/camp-1/characters/char-1/link",
		`{"vaultCharacterId":"vault-1"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("link failed: %d %s", rec.Code, rec.Body.String())
	}

	req = authedRequest(http.MethodPost, "/vault/unlink",
		`{"vaultCharacterId":"vault-1","campaignId":"camp-1","action":"memory"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	vault, err := store.GetVaultCharacter(context.Background(), "vault-1")
	if err != nil {
		t.Fatalf("get vault: %v", err)
	}
	if vault.ContentMode != domain.ContentModeInactive {
		t.Fatalf("expected inactive after memory unlink, got %s", vault.ContentMode)
	}

	// Bad action strings are rejected before any lookup.
	req = authedRequest(http.MethodPost, "/vault/unlink",
		`{"vaultCharacterId":"vault-1","campaignId":"camp-1","action":"vanish"}`,
		authctx.User{ID: "player-1", Email: "player@example.com"})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
