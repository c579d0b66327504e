package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotType tags a character snapshot with its purpose.
type SnapshotType string

// SnapshotTypeSessionZero is taken once, at link time, preserving the vault
// character's pre-campaign state.
const SnapshotTypeSessionZero SnapshotType = "session_0"

// CharacterSnapshot is an immutable point-in-time copy of a vault character's
// full field set. It belongs to the campaign for DM visibility but originates
// from the vault character's state. Created once, never mutated.
type CharacterSnapshot struct {
	ID                  string
	VaultCharacterID    string
	CampaignID          string
	CampaignCharacterID string
	Type                SnapshotType
	Name                string
	Data                string // JSON encoding of the vault character
	CreatedBy           string
	CreatedAt           time.Time
}

// NewSessionZeroSnapshot captures the vault character's current state for the
// given link.
func NewSessionZeroSnapshot(id string, vault VaultCharacter, campaignID, characterID, createdBy string, at time.Time) (CharacterSnapshot, error) {
	data, err := json.Marshal(vault)
	if err != nil {
		return CharacterSnapshot{}, fmt.Errorf("encode snapshot data: %w", err)
	}
	return CharacterSnapshot{
		ID:                  id,
		VaultCharacterID:    vault.ID,
		CampaignID:          campaignID,
		CampaignCharacterID: characterID,
		Type:                SnapshotTypeSessionZero,
		Name:                "Session 0 - Character Linked",
		Data:                string(data),
		CreatedBy:           createdBy,
		CreatedAt:           at,
	}, nil
}
