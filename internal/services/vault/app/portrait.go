package app

import (
	"context"
	"fmt"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
)

// PortraitInput carries one portrait upload for a campaign character.
type PortraitInput struct {
	UserID      string
	UserEmail   string
	CampaignID  string
	CharacterID string
	Blob        []byte
	ContentType string
}

// UploadPortrait stores a character portrait in object storage and records
// its public URL on the campaign character. Allowed for the character's
// controller or a DM.
func (s *Service) UploadPortrait(ctx context.Context, input PortraitInput) (string, error) {
	if s.images == nil {
		return "", apperrors.New(apperrors.CodeUnknown, "image storage is not configured")
	}
	if len(input.Blob) == 0 {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "portrait image is required")
	}

	campaign, membership, character, err := s.loadCampaignContext(ctx, input.CampaignID, input.CharacterID, input.UserID)
	if err != nil {
		return "", err
	}
	if !character.DesignatedFor(input.UserID, input.UserEmail) && !domain.IsDM(campaign, membership, input.UserID) {
		return "", apperrors.New(apperrors.CodePermissionDenied, "caller may not change this character's portrait")
	}

	path := fmt.Sprintf("campaigns/%s/characters/%s/portrait", campaign.ID, character.ID)
	url, err := s.images.Upload(ctx, path, input.Blob, input.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload portrait: %w", err)
	}

	character.ImageURL = &url
	character.UpdatedAt = s.now().UTC()
	if err := s.store.PutCampaignCharacter(ctx, character); err != nil {
		return "", err
	}
	return url, nil
}
