package app

import (
	"context"
	"fmt"
	"log"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// ClaimInput identifies the campaign character a member claims as their own.
type ClaimInput struct {
	UserID      string
	UserEmail   string
	CampaignID  string
	CharacterID string
}

// ClaimResult reports the vault character created by the claim.
type ClaimResult struct {
	VaultCharacterID string
	CharacterID      string
}

// ClaimCharacter lets the designated player take over a DM-created campaign
// character: a new vault master copy is built from the in-play state and the
// two are linked in the same write.
func (s *Service) ClaimCharacter(ctx context.Context, input ClaimInput) (ClaimResult, error) {
	campaign, membership, character, err := s.loadCampaignContext(ctx, input.CampaignID, input.CharacterID, input.UserID)
	if err != nil {
		return ClaimResult{}, err
	}

	if character.VaultCharacterID != nil {
		return ClaimResult{}, apperrors.New(apperrors.CodeCharacterAlreadyLinked, "character is already linked to a vault character")
	}
	if character.Kind != domain.KindPC {
		return ClaimResult{}, apperrors.New(apperrors.CodeCharacterNotClaimable, "only player characters can be claimed")
	}
	if !character.DesignatedFor(input.UserID, input.UserEmail) {
		if character.HasDesignation() {
			return ClaimResult{}, apperrors.New(apperrors.CodeCharacterDesignatedElsewhere, "character is designated for another player")
		}
		return ClaimResult{}, apperrors.New(apperrors.CodeCharacterNotClaimable, "character has no designation for this player")
	}

	vaultID, err := s.newID()
	if err != nil {
		return ClaimResult{}, fmt.Errorf("generate vault character id: %w", err)
	}
	now := s.now().UTC()
	vault := domain.NewVaultFromCampaign(vaultID, input.UserID, &character, now)

	if snapshotID, idErr := s.newID(); idErr == nil {
		snapshot, snapErr := domain.NewSessionZeroSnapshot(snapshotID, vault, campaign.ID, character.ID, input.UserID, now)
		if snapErr == nil {
			snapErr = s.store.PutSnapshot(ctx, snapshot)
		}
		if snapErr != nil {
			log.Printf("session zero snapshot for %s/%s failed: %v", campaign.ID, character.ID, snapErr)
		}
	}

	character.VaultCharacterID = &vault.ID
	character.ControlledByUserID = &input.UserID
	character.UpdatedAt = now

	write := storage.LinkWrite{
		NewVault: &vault,
		Campaign: character,
		Link: domain.CampaignLink{
			VaultCharacterID: vault.ID,
			CampaignID:       campaign.ID,
			CharacterID:      character.ID,
			JoinedAt:         now,
		},
		VaultCharacterID: vault.ID,
		LinkedCampaignID: campaign.ID,
		UpdatedAt:        now,
	}
	if membership != nil {
		write.MembershipID = membership.ID
	}
	if err := s.store.ApplyLink(ctx, write); err != nil {
		return ClaimResult{}, err
	}

	return ClaimResult{VaultCharacterID: vault.ID, CharacterID: character.ID}, nil
}
