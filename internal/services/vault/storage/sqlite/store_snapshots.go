package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// PutSnapshot persists one immutable character snapshot. A duplicate
// (campaign, character, type) row is ignored so retried link calls stay
// idempotent.
func (s *Store) PutSnapshot(ctx context.Context, snapshot domain.CharacterSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(snapshot.ID) == "" {
		return fmt.Errorf("snapshot id is required")
	}
	if snapshot.CampaignID == "" || snapshot.CampaignCharacterID == "" {
		return fmt.Errorf("snapshot link identifiers are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR IGNORE INTO character_snapshots
    (id, vault_character_id, campaign_id, campaign_character_id, snapshot_type, name, data, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, snapshot.ID, snapshot.VaultCharacterID, snapshot.CampaignID, snapshot.CampaignCharacterID,
		string(snapshot.Type), snapshot.Name, snapshot.Data, snapshot.CreatedBy,
		toMillis(snapshot.CreatedAt))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// ListSnapshots lists a character's snapshots oldest-first.
func (s *Store) ListSnapshots(ctx context.Context, campaignID, campaignCharacterID string) ([]domain.CharacterSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if campaignID == "" || campaignCharacterID == "" {
		return nil, fmt.Errorf("snapshot link identifiers are required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, vault_character_id, campaign_id, campaign_character_id, snapshot_type, name, data, created_by, created_at
FROM character_snapshots
WHERE campaign_id = ? AND campaign_character_id = ?
ORDER BY created_at ASC, id ASC
`, campaignID, campaignCharacterID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.CharacterSnapshot
	for rows.Next() {
		var (
			snapshot     domain.CharacterSnapshot
			snapshotType string
			createdAt    int64
		)
		if scanErr := rows.Scan(&snapshot.ID, &snapshot.VaultCharacterID, &snapshot.CampaignID,
			&snapshot.CampaignCharacterID, &snapshotType, &snapshot.Name, &snapshot.Data,
			&snapshot.CreatedBy, &createdAt); scanErr != nil {
			return nil, fmt.Errorf("scan snapshot: %w", scanErr)
		}
		snapshot.Type = domain.SnapshotType(snapshotType)
		snapshot.CreatedAt = fromMillis(createdAt)
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// PutPrivateNote upserts the vault owner's note for one campaign.
func (s *Store) PutPrivateNote(ctx context.Context, note domain.PrivateNote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if note.VaultCharacterID == "" || note.CampaignID == "" {
		return fmt.Errorf("private note keys are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO vault_private_notes (vault_character_id, campaign_id, body, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(vault_character_id, campaign_id) DO UPDATE SET
    body = excluded.body,
    updated_at = excluded.updated_at
`, note.VaultCharacterID, note.CampaignID, note.Body,
		toMillis(note.CreatedAt), toMillis(note.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put private note: %w", err)
	}
	return nil
}

// GetPrivateNote loads the vault owner's note for one campaign.
func (s *Store) GetPrivateNote(ctx context.Context, vaultCharacterID, campaignID string) (domain.PrivateNote, error) {
	if err := ctx.Err(); err != nil {
		return domain.PrivateNote{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.PrivateNote{}, fmt.Errorf("storage is not configured")
	}
	if vaultCharacterID == "" || campaignID == "" {
		return domain.PrivateNote{}, storage.ErrNotFound
	}

	var (
		note      domain.PrivateNote
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT vault_character_id, campaign_id, body, created_at, updated_at
FROM vault_private_notes
WHERE vault_character_id = ? AND campaign_id = ?
`, vaultCharacterID, campaignID).Scan(&note.VaultCharacterID, &note.CampaignID, &note.Body, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PrivateNote{}, storage.ErrNotFound
		}
		return domain.PrivateNote{}, fmt.Errorf("get private note: %w", err)
	}
	note.CreatedAt = fromMillis(createdAt)
	note.UpdatedAt = fromMillis(updatedAt)
	return note, nil
}
