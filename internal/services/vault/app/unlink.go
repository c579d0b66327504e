package app

import (
	"context"
	"errors"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// UnlinkWithModeInput selects the link to sever and the retention policy.
type UnlinkWithModeInput struct {
	UserID           string
	VaultCharacterID string
	CampaignID       string
	Mode             domain.UnlinkMode
}

// UnlinkWithMode severs a vault/campaign link applying the mode's retention
// policy. Only the vault owner may invoke it; the vault character itself is
// never deleted by any mode.
func (s *Service) UnlinkWithMode(ctx context.Context, input UnlinkWithModeInput) error {
	vault, err := s.ownedVaultCharacter(ctx, input.VaultCharacterID, input.UserID)
	if err != nil {
		return err
	}

	link, err := s.store.GetLink(ctx, vault.ID, input.CampaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeVaultLinkMissing, "vault character is not linked to this campaign")
		}
		return err
	}

	character, err := s.store.GetCampaignCharacter(ctx, input.CampaignID, link.CharacterID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	characterExists := err == nil

	var membership *domain.CampaignMembership
	found, err := s.store.GetMembership(ctx, input.CampaignID, input.UserID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err == nil {
		membership = &found
	}

	now := s.now().UTC()
	write := storage.UnlinkWrite{
		CampaignID:  input.CampaignID,
		CharacterID: link.CharacterID,
	}

	switch input.Mode {
	case domain.UnlinkLeave:
		// Sever and forget: the caller's membership goes with the link.
		// Private notes stay; nothing on the vault side is deleted.
		write.RemoveMembership = true
		if membership != nil {
			write.MembershipID = membership.ID
		}

	case domain.UnlinkMemory:
		reason := domain.MemoryInactiveReason(input.CampaignID, now)
		vault.ContentMode = domain.ContentModeInactive
		vault.InactiveReason = &reason

	case domain.UnlinkMerge:
		if !characterExists {
			return apperrors.New(apperrors.CodeUnlinkMergeMissing, "cannot merge: campaign character no longer exists")
		}
		domain.ApplyMerge(&vault, &character)

	default:
		return apperrors.New(apperrors.CodeUnlinkInvalidMode, "unlink action must be leave, memory, or merge")
	}

	vault.UpdatedAt = now
	write.Vault = vault
	return s.store.ApplyUnlink(ctx, write)
}
