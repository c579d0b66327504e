package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// PutCampaign upserts one campaign projection row.
func (s *Store) PutCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := campaign.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO campaigns (id, owner_user_id, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    owner_user_id = excluded.owner_user_id,
    name = excluded.name,
    updated_at = excluded.updated_at
`, campaign.ID, campaign.OwnerUserID, campaign.Name,
		toMillis(campaign.CreatedAt), toMillis(campaign.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put campaign: %w", err)
	}
	return nil
}

// GetCampaign loads one campaign by id.
func (s *Store) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Campaign{}, fmt.Errorf("storage is not configured")
	}
	if id == "" {
		return domain.Campaign{}, storage.ErrNotFound
	}

	var (
		campaign  domain.Campaign
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, owner_user_id, name, created_at, updated_at
FROM campaigns
WHERE id = ?
`, id).Scan(&campaign.ID, &campaign.OwnerUserID, &campaign.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	campaign.CreatedAt = fromMillis(createdAt)
	campaign.UpdatedAt = fromMillis(updatedAt)
	return campaign, nil
}

// PutMembership upserts one campaign membership row.
func (s *Store) PutMembership(ctx context.Context, membership domain.CampaignMembership) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := membership.Validate(); err != nil {
		return err
	}
	return putMembershipExec(ctx, s.sqlDB, membership)
}

func putMembershipExec(ctx context.Context, db execer, membership domain.CampaignMembership) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO campaign_members (id, campaign_id, user_id, role, email, character_id, vault_character_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    role = excluded.role,
    email = excluded.email,
    character_id = excluded.character_id,
    vault_character_id = excluded.vault_character_id,
    updated_at = excluded.updated_at
`, membership.ID, membership.CampaignID, membership.UserID, string(membership.Role),
		nullString(membership.Email), nullString(membership.CharacterID),
		nullString(membership.VaultCharacterID),
		toMillis(membership.CreatedAt), toMillis(membership.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put membership: %w", err)
	}
	return nil
}

// GetMembership loads one campaign membership by campaign and user.
func (s *Store) GetMembership(ctx context.Context, campaignID, userID string) (domain.CampaignMembership, error) {
	if err := ctx.Err(); err != nil {
		return domain.CampaignMembership{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.CampaignMembership{}, fmt.Errorf("storage is not configured")
	}
	if campaignID == "" || userID == "" {
		return domain.CampaignMembership{}, storage.ErrNotFound
	}

	var (
		membership       domain.CampaignMembership
		role             string
		email            sql.NullString
		characterID      sql.NullString
		vaultCharacterID sql.NullString
		createdAt        int64
		updatedAt        int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, campaign_id, user_id, role, email, character_id, vault_character_id, created_at, updated_at
FROM campaign_members
WHERE campaign_id = ? AND user_id = ?
`, campaignID, userID).Scan(&membership.ID, &membership.CampaignID, &membership.UserID,
		&role, &email, &characterID, &vaultCharacterID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CampaignMembership{}, storage.ErrNotFound
		}
		return domain.CampaignMembership{}, fmt.Errorf("get membership: %w", err)
	}
	membership.Role = domain.Role(role)
	membership.Email = stringPtr(email)
	membership.CharacterID = stringPtr(characterID)
	membership.VaultCharacterID = stringPtr(vaultCharacterID)
	membership.CreatedAt = fromMillis(createdAt)
	membership.UpdatedAt = fromMillis(updatedAt)
	return membership, nil
}
