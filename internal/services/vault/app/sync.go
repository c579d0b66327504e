package app

import (
	"context"
	"errors"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// SyncInput selects the linked pair and direction of one sync call.
type SyncInput struct {
	UserID      string
	CampaignID  string
	CharacterID string
	Direction   domain.SyncDirection
}

// SyncResult reports the fields a sync wrote.
type SyncResult struct {
	Direction     domain.SyncDirection
	FieldsUpdated []string
}

// SyncCharacter copies the allow-listed field set across a linked pair in one
// direction.
//
// The permission asymmetry is deliberate: a DM may push the player's latest
// sheet into the game state, but only the vault owner may overwrite their own
// master record.
func (s *Service) SyncCharacter(ctx context.Context, input SyncInput) (SyncResult, error) {
	vault, campaign, membership, character, err := s.loadLinkedPair(ctx, input.CampaignID, input.CharacterID, input.UserID)
	if err != nil {
		return SyncResult{}, err
	}

	isOwner := vault.UserID == input.UserID
	isDM := domain.IsDM(campaign, membership, input.UserID)
	switch input.Direction {
	case domain.SyncVaultToCampaign:
		if !isOwner && !isDM {
			return SyncResult{}, apperrors.New(apperrors.CodeSyncDirectionDenied, "only the vault owner or a DM may sync to the campaign")
		}
	case domain.SyncCampaignToVault:
		if !isOwner {
			return SyncResult{}, apperrors.New(apperrors.CodeSyncDirectionDenied, "only the vault owner may sync to the vault")
		}
	default:
		return SyncResult{}, apperrors.New(apperrors.CodeSyncInvalidDirection, "sync direction must be vault_to_campaign or campaign_to_vault")
	}

	updated := domain.ApplySync(&vault, &character, input.Direction)
	now := s.now().UTC()

	switch input.Direction {
	case domain.SyncVaultToCampaign:
		character.UpdatedAt = now
		if err := s.store.PutCampaignCharacter(ctx, character); err != nil {
			return SyncResult{}, err
		}
	case domain.SyncCampaignToVault:
		vault.UpdatedAt = now
		if err := s.store.PutVaultCharacter(ctx, vault); err != nil {
			return SyncResult{}, err
		}
	}

	return SyncResult{Direction: input.Direction, FieldsUpdated: updated}, nil
}

// DiffResult previews a sync without mutating either side.
type DiffResult struct {
	IsLinked         bool
	VaultCharacterID string
	InSync           bool
	Differences      []domain.FieldDiff
	SyncableFields   []string
}

// DiffCharacter compares the linked pair field-by-field. A caller who can see
// the campaign character may preview the diff.
func (s *Service) DiffCharacter(ctx context.Context, userID, campaignID, characterID string) (DiffResult, error) {
	_, _, character, err := s.loadCampaignContext(ctx, campaignID, characterID, userID)
	if err != nil {
		return DiffResult{}, err
	}
	if character.VaultCharacterID == nil {
		return DiffResult{IsLinked: false, SyncableFields: domain.SyncableFieldNames()}, nil
	}

	vault, err := s.store.GetVaultCharacter(ctx, *character.VaultCharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DiffResult{}, apperrors.New(apperrors.CodeVaultLinkMissing, "linked vault character is missing")
		}
		return DiffResult{}, err
	}

	differences := domain.Diff(&vault, &character)
	return DiffResult{
		IsLinked:         true,
		VaultCharacterID: vault.ID,
		InSync:           len(differences) == 0,
		Differences:      differences,
		SyncableFields:   domain.SyncableFieldNames(),
	}, nil
}

// loadLinkedPair resolves both sides of a linked pair plus campaign context.
func (s *Service) loadLinkedPair(ctx context.Context, campaignID, characterID, userID string) (domain.VaultCharacter, domain.Campaign, *domain.CampaignMembership, domain.CampaignCharacter, error) {
	campaign, membership, character, err := s.loadCampaignContext(ctx, campaignID, characterID, userID)
	if err != nil {
		return domain.VaultCharacter{}, domain.Campaign{}, nil, domain.CampaignCharacter{}, err
	}
	if character.VaultCharacterID == nil {
		return domain.VaultCharacter{}, domain.Campaign{}, nil, domain.CampaignCharacter{},
			apperrors.New(apperrors.CodeCharacterNotLinked, "character is not linked")
	}

	vault, err := s.store.GetVaultCharacter(ctx, *character.VaultCharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.VaultCharacter{}, domain.Campaign{}, nil, domain.CampaignCharacter{},
				apperrors.New(apperrors.CodeVaultLinkMissing, "linked vault character is missing")
		}
		return domain.VaultCharacter{}, domain.Campaign{}, nil, domain.CampaignCharacter{}, err
	}

	return vault, campaign, membership, character, nil
}
