package storage

import (
	"context"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// LinkWrite carries every row touched when a vault character links to a
// campaign character. The store applies all of it in one transaction.
type LinkWrite struct {
	// NewVault, when set, inserts a vault character created by a claim
	// before the link rows are written.
	NewVault *domain.VaultCharacter

	Campaign domain.CampaignCharacter
	Link     domain.CampaignLink

	// MembershipID, when non-empty, points the caller's membership rows at
	// the newly linked pair.
	MembershipID     string
	VaultCharacterID string

	// LinkedCampaignID is stamped onto the vault character row.
	LinkedCampaignID string
	UpdatedAt        time.Time
}

// UnlinkWrite carries every row touched when a link is severed. The store
// applies all of it in one transaction.
type UnlinkWrite struct {
	// Vault holds the post-unlink vault character state (merge results,
	// memory archival, cleared link pointer).
	Vault domain.VaultCharacter

	CampaignID  string
	CharacterID string

	// RemoveMembership deletes the caller's membership row (leave). When
	// false and MembershipID is set, the membership survives with its
	// character pointers cleared. An empty MembershipID leaves the
	// membership row untouched entirely (memory/merge).
	RemoveMembership bool
	MembershipID     string
}

// Store persists vault characters, campaign characters, memberships, links,
// and snapshots for the character vault service.
type Store interface {
	// Vault characters.
	PutVaultCharacter(ctx context.Context, character domain.VaultCharacter) error
	GetVaultCharacter(ctx context.Context, id string) (domain.VaultCharacter, error)
	ListVaultCharactersByUser(ctx context.Context, userID string) ([]domain.VaultCharacter, error)

	// Campaigns and memberships.
	PutCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	PutMembership(ctx context.Context, membership domain.CampaignMembership) error
	GetMembership(ctx context.Context, campaignID, userID string) (domain.CampaignMembership, error)

	// Campaign characters.
	PutCampaignCharacter(ctx context.Context, character domain.CampaignCharacter) error
	GetCampaignCharacter(ctx context.Context, campaignID, id string) (domain.CampaignCharacter, error)
	ListCampaignCharacters(ctx context.Context, campaignID string) ([]domain.CampaignCharacter, error)

	// Links.
	GetLink(ctx context.Context, vaultCharacterID, campaignID string) (domain.CampaignLink, error)
	ListLinksByVaultCharacter(ctx context.Context, vaultCharacterID string) ([]domain.CampaignLink, error)

	// ApplyLink atomically writes the campaign character, the link row, the
	// vault link pointer, and the membership pointers.
	ApplyLink(ctx context.Context, write LinkWrite) error

	// ApplyUnlink atomically writes the vault character, removes the link
	// row, and updates or removes the membership.
	ApplyUnlink(ctx context.Context, write UnlinkWrite) error

	// Private notes, keyed by (vault character, campaign).
	PutPrivateNote(ctx context.Context, note domain.PrivateNote) error
	GetPrivateNote(ctx context.Context, vaultCharacterID, campaignID string) (domain.PrivateNote, error)

	// Snapshots. PutSnapshot ignores duplicate (campaign, character, type)
	// rows so retried link calls stay idempotent.
	PutSnapshot(ctx context.Context, snapshot domain.CharacterSnapshot) error
	ListSnapshots(ctx context.Context, campaignID, campaignCharacterID string) ([]domain.CharacterSnapshot, error)
}
