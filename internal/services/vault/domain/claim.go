package domain

import "time"

// NewVaultFromCampaign builds a fresh vault master copy from an in-play
// campaign character, preserving full fidelity for every shared field. Used
// when a player claims a character the DM created for them.
func NewVaultFromCampaign(id, userID string, src *CampaignCharacter, at time.Time) VaultCharacter {
	vault := VaultCharacter{
		ID:          id,
		UserID:      userID,
		Name:        src.Name,
		ContentMode: ContentModeActive,
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	for _, field := range SyncFields {
		field.SetVault(&vault, field.GetCampaign(src))
	}
	for _, field := range mergeFields {
		field.apply(&vault, src)
	}
	// Campaign backstory lands in the vault's summary slot, mirroring the
	// sync special case.
	vault.BackstorySummary = cloneString(src.Backstory)

	return vault
}
