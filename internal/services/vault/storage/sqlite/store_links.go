package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// GetLink loads one (vault character, campaign) link row.
func (s *Store) GetLink(ctx context.Context, vaultCharacterID, campaignID string) (domain.CampaignLink, error) {
	if err := ctx.Err(); err != nil {
		return domain.CampaignLink{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.CampaignLink{}, fmt.Errorf("storage is not configured")
	}
	if vaultCharacterID == "" || campaignID == "" {
		return domain.CampaignLink{}, storage.ErrNotFound
	}

	var (
		link     domain.CampaignLink
		joinedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT vault_character_id, campaign_id, character_id, joined_at
FROM vault_campaign_links
WHERE vault_character_id = ? AND campaign_id = ?
`, vaultCharacterID, campaignID).Scan(&link.VaultCharacterID, &link.CampaignID, &link.CharacterID, &joinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CampaignLink{}, storage.ErrNotFound
		}
		return domain.CampaignLink{}, fmt.Errorf("get link: %w", err)
	}
	link.JoinedAt = fromMillis(joinedAt)
	return link, nil
}

// ListLinksByVaultCharacter lists every campaign a vault character joined.
func (s *Store) ListLinksByVaultCharacter(ctx context.Context, vaultCharacterID string) ([]domain.CampaignLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if vaultCharacterID == "" {
		return nil, fmt.Errorf("vault character id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT vault_character_id, campaign_id, character_id, joined_at
FROM vault_campaign_links
WHERE vault_character_id = ?
ORDER BY joined_at ASC, campaign_id ASC
`, vaultCharacterID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []domain.CampaignLink
	for rows.Next() {
		var (
			link     domain.CampaignLink
			joinedAt int64
		)
		if scanErr := rows.Scan(&link.VaultCharacterID, &link.CampaignID, &link.CharacterID, &joinedAt); scanErr != nil {
			return nil, fmt.Errorf("scan link: %w", scanErr)
		}
		link.JoinedAt = fromMillis(joinedAt)
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}

// ApplyLink atomically persists everything a link operation touches: the
// optional claimed vault character, the updated in-play character, the link
// row, the vault link pointer, and the membership pointers.
func (s *Store) ApplyLink(ctx context.Context, write storage.LinkWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := write.Campaign.Validate(); err != nil {
		return err
	}
	if write.Link.VaultCharacterID == "" || write.Link.CampaignID == "" || write.Link.CharacterID == "" {
		return fmt.Errorf("link row is incomplete")
	}
	if write.NewVault != nil {
		if err := write.NewVault.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin link write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback link write: %v", cause, rollbackErr)
		}
		return cause
	}

	if write.NewVault != nil {
		if err := putVaultCharacterExec(ctx, tx, *write.NewVault); err != nil {
			return rollbackWith(err)
		}
	}
	if err := putCampaignCharacterExec(ctx, tx, write.Campaign); err != nil {
		return rollbackWith(err)
	}

	// INSERT OR IGNORE keeps a retried link call from failing on the
	// primary key; the row's content is identical either way.
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO vault_campaign_links (vault_character_id, campaign_id, character_id, joined_at)
VALUES (?, ?, ?, ?)
`, write.Link.VaultCharacterID, write.Link.CampaignID, write.Link.CharacterID, toMillis(write.Link.JoinedAt)); err != nil {
		return rollbackWith(fmt.Errorf("insert link: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE vault_characters SET linked_campaign_id = ?, updated_at = ? WHERE id = ?
`, write.LinkedCampaignID, toMillis(write.UpdatedAt), write.Link.VaultCharacterID); err != nil {
		return rollbackWith(fmt.Errorf("update vault link pointer: %w", err))
	}

	if write.MembershipID != "" {
		if _, err := tx.ExecContext(ctx, `
UPDATE campaign_members SET character_id = ?, vault_character_id = ?, updated_at = ? WHERE id = ?
`, write.Link.CharacterID, write.VaultCharacterID, toMillis(write.UpdatedAt), write.MembershipID); err != nil {
			return rollbackWith(fmt.Errorf("update membership pointers: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit link write: %w", err)
	}
	return nil
}

// ApplyUnlink atomically severs one link: writes the post-unlink vault state,
// removes the link row, clears the in-play character's vault pointer, and,
// when a membership id is given, updates or removes that membership. Private
// notes are never touched; no retention policy deletes vault-side data.
func (s *Store) ApplyUnlink(ctx context.Context, write storage.UnlinkWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := write.Vault.Validate(); err != nil {
		return err
	}
	if write.CampaignID == "" || write.CharacterID == "" {
		return fmt.Errorf("unlink target is incomplete")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unlink write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback unlink write: %v", cause, rollbackErr)
		}
		return cause
	}

	if err := putVaultCharacterExec(ctx, tx, write.Vault); err != nil {
		return rollbackWith(err)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM vault_campaign_links WHERE vault_character_id = ? AND campaign_id = ?
`, write.Vault.ID, write.CampaignID); err != nil {
		return rollbackWith(fmt.Errorf("delete link: %w", err))
	}

	// The pointer invariant is enforced here rather than trusted from the
	// caller: linked_campaign_id only clears once the last link is gone.
	var remaining int
	if err := tx.QueryRowContext(ctx, `
SELECT COUNT(1) FROM vault_campaign_links WHERE vault_character_id = ?
`, write.Vault.ID).Scan(&remaining); err != nil {
		return rollbackWith(fmt.Errorf("count remaining links: %w", err))
	}
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `
UPDATE vault_characters SET linked_campaign_id = NULL, updated_at = ? WHERE id = ?
`, toMillis(write.Vault.UpdatedAt), write.Vault.ID); err != nil {
			return rollbackWith(fmt.Errorf("clear vault link pointer: %w", err))
		}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE characters SET vault_character_id = NULL, updated_at = ? WHERE campaign_id = ? AND id = ?
`, toMillis(write.Vault.UpdatedAt), write.CampaignID, write.CharacterID); err != nil {
		return rollbackWith(fmt.Errorf("clear character vault pointer: %w", err))
	}

	if write.RemoveMembership && write.MembershipID != "" {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM campaign_members WHERE id = ?
`, write.MembershipID); err != nil {
			return rollbackWith(fmt.Errorf("delete membership: %w", err))
		}
	} else if write.MembershipID != "" {
		if _, err := tx.ExecContext(ctx, `
UPDATE campaign_members SET character_id = NULL, vault_character_id = NULL, updated_at = ? WHERE id = ?
`, toMillis(write.Vault.UpdatedAt), write.MembershipID); err != nil {
			return rollbackWith(fmt.Errorf("clear membership pointers: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unlink write: %w", err)
	}
	return nil
}
