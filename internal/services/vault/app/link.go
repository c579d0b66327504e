package app

import (
	"context"
	"errors"
	"log"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// LinkInput identifies the pair a link operation joins.
type LinkInput struct {
	UserID           string
	UserEmail        string
	CampaignID       string
	CharacterID      string
	VaultCharacterID string
}

// LinkResult reports the joined pair.
type LinkResult struct {
	VaultCharacterID string
	CharacterID      string
}

// LinkCharacter associates a caller-owned vault character with an unlinked
// campaign character. The session-0 snapshot is best-effort; the link itself
// is the primary effect and is written atomically.
func (s *Service) LinkCharacter(ctx context.Context, input LinkInput) (LinkResult, error) {
	vault, err := s.ownedVaultCharacter(ctx, input.VaultCharacterID, input.UserID)
	if err != nil {
		return LinkResult{}, err
	}

	campaign, membership, character, err := s.loadCampaignContext(ctx, input.CampaignID, input.CharacterID, input.UserID)
	if err != nil {
		return LinkResult{}, err
	}

	if character.VaultCharacterID != nil {
		return LinkResult{}, apperrors.New(apperrors.CodeCharacterAlreadyLinked, "character is already linked to a vault character")
	}

	isDM := domain.IsDM(campaign, membership, input.UserID)
	designated := character.DesignatedFor(input.UserID, input.UserEmail)
	if character.HasDesignation() && !designated && !isDM {
		return LinkResult{}, apperrors.New(apperrors.CodeCharacterDesignatedElsewhere, "character is designated for another player")
	}
	if membership == nil && !designated && !isDM {
		return LinkResult{}, apperrors.New(apperrors.CodeCampaignMembershipMissing, "caller is not a campaign member")
	}

	now := s.now().UTC()

	// Best-effort audit trail. The link proceeds even when the snapshot
	// write fails.
	if snapshotID, idErr := s.newID(); idErr == nil {
		snapshot, snapErr := domain.NewSessionZeroSnapshot(snapshotID, vault, campaign.ID, character.ID, input.UserID, now)
		if snapErr == nil {
			snapErr = s.store.PutSnapshot(ctx, snapshot)
		}
		if snapErr != nil {
			log.Printf("session zero snapshot for %s/%s failed: %v", campaign.ID, character.ID, snapErr)
		}
	} else {
		log.Printf("session zero snapshot id for %s/%s failed: %v", campaign.ID, character.ID, idErr)
	}

	character.VaultCharacterID = &vault.ID
	character.ControlledByUserID = &input.UserID
	domain.CopyPresentationFields(&character, &vault)
	character.UpdatedAt = now

	write := storage.LinkWrite{
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
		return LinkResult{}, err
	}

	if input.UserEmail != "" {
		if mailErr := s.mailer.SendLinkConfirmation(ctx, input.UserEmail, vault.Name, campaign.Name); mailErr != nil {
			log.Printf("link confirmation email for %s failed: %v", input.UserEmail, mailErr)
		}
	}

	return LinkResult{VaultCharacterID: vault.ID, CharacterID: character.ID}, nil
}

// UnlinkCharacter severs a link without any retention policy. Allowed for the
// vault owner, the character's controller, or a DM.
func (s *Service) UnlinkCharacter(ctx context.Context, userID, userEmail, campaignID, characterID string) error {
	campaign, membership, character, err := s.loadCampaignContext(ctx, campaignID, characterID, userID)
	if err != nil {
		return err
	}
	if character.VaultCharacterID == nil {
		return apperrors.New(apperrors.CodeCharacterNotLinked, "character is not linked")
	}

	vault, err := s.store.GetVaultCharacter(ctx, *character.VaultCharacterID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return apperrors.New(apperrors.CodeVaultLinkMissing, "linked vault character is missing")
	}

	isOwner := vault.UserID == userID
	isController := character.DesignatedFor(userID, userEmail)
	if !isOwner && !isController && !domain.IsDM(campaign, membership, userID) {
		return apperrors.New(apperrors.CodePermissionDenied, "caller may not unlink this character")
	}

	now := s.now().UTC()
	vault.UpdatedAt = now
	write := storage.UnlinkWrite{
		Vault:       vault,
		CampaignID:  campaignID,
		CharacterID: characterID,
	}
	if membership != nil {
		write.MembershipID = membership.ID
	}
	return s.store.ApplyUnlink(ctx, write)
}
