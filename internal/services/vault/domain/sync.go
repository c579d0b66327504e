package domain

import (
	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
)

// SyncDirection selects which side of a linked pair is the source.
type SyncDirection string

const (
	SyncVaultToCampaign SyncDirection = "vault_to_campaign"
	SyncCampaignToVault SyncDirection = "campaign_to_vault"
)

// ParseSyncDirection validates a wire-format direction string.
func ParseSyncDirection(value string) (SyncDirection, error) {
	switch SyncDirection(value) {
	case SyncVaultToCampaign, SyncCampaignToVault:
		return SyncDirection(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeSyncInvalidDirection,
			"sync direction must be vault_to_campaign or campaign_to_vault",
			map[string]string{"direction": value})
	}
}

// SyncField binds one allow-listed field on both character schemas. The
// accessor pairs keep the mapping compile-checked instead of stringly-typed.
type SyncField struct {
	Name        string
	GetVault    func(*VaultCharacter) *string
	SetVault    func(*VaultCharacter, *string)
	GetCampaign func(*CampaignCharacter) *string
	SetCampaign func(*CampaignCharacter, *string)
}

// SyncFields is the fixed allow-list of bidirectionally synced fields.
// The backstory pair is intentionally absent: vault backstory_summary maps
// to campaign backstory and is handled as a special case by ApplySync/Diff.
var SyncFields = []SyncField{
	{
		Name: "name",
		GetVault: func(v *VaultCharacter) *string {
			name := v.Name
			return &name
		},
		SetVault: func(v *VaultCharacter, s *string) {
			if s != nil {
				v.Name = *s
			}
		},
		GetCampaign: func(c *CampaignCharacter) *string {
			name := c.Name
			return &name
		},
		SetCampaign: func(c *CampaignCharacter, s *string) {
			if s != nil {
				c.Name = *s
			}
		},
	},
	{
		Name:        "pronouns",
		GetVault:    func(v *VaultCharacter) *string { return v.Pronouns },
		SetVault:    func(v *VaultCharacter, s *string) { v.Pronouns = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Pronouns },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Pronouns = cloneString(s) },
	},
	{
		Name:        "age",
		GetVault:    func(v *VaultCharacter) *string { return v.Age },
		SetVault:    func(v *VaultCharacter, s *string) { v.Age = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Age },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Age = cloneString(s) },
	},
	{
		Name:        "occupation",
		GetVault:    func(v *VaultCharacter) *string { return v.Occupation },
		SetVault:    func(v *VaultCharacter, s *string) { v.Occupation = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Occupation },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Occupation = cloneString(s) },
	},
	{
		Name:        "species",
		GetVault:    func(v *VaultCharacter) *string { return v.Species },
		SetVault:    func(v *VaultCharacter, s *string) { v.Species = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Species },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Species = cloneString(s) },
	},
	{
		Name:        "short_description",
		GetVault:    func(v *VaultCharacter) *string { return v.ShortDescription },
		SetVault:    func(v *VaultCharacter, s *string) { v.ShortDescription = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.ShortDescription },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.ShortDescription = cloneString(s) },
	},
	{
		Name:        "description",
		GetVault:    func(v *VaultCharacter) *string { return v.Description },
		SetVault:    func(v *VaultCharacter, s *string) { v.Description = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Description },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Description = cloneString(s) },
	},
	{
		Name:        "image_url",
		GetVault:    func(v *VaultCharacter) *string { return v.ImageURL },
		SetVault:    func(v *VaultCharacter, s *string) { v.ImageURL = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.ImageURL },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.ImageURL = cloneString(s) },
	},
	{
		Name:        "thumbnail_url",
		GetVault:    func(v *VaultCharacter) *string { return v.ThumbnailURL },
		SetVault:    func(v *VaultCharacter, s *string) { v.ThumbnailURL = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.ThumbnailURL },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.ThumbnailURL = cloneString(s) },
	},
	{
		Name:        "personality_traits",
		GetVault:    func(v *VaultCharacter) *string { return v.PersonalityTraits },
		SetVault:    func(v *VaultCharacter, s *string) { v.PersonalityTraits = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.PersonalityTraits },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.PersonalityTraits = cloneString(s) },
	},
	{
		Name:        "ideals",
		GetVault:    func(v *VaultCharacter) *string { return v.Ideals },
		SetVault:    func(v *VaultCharacter, s *string) { v.Ideals = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Ideals },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Ideals = cloneString(s) },
	},
	{
		Name:        "bonds",
		GetVault:    func(v *VaultCharacter) *string { return v.Bonds },
		SetVault:    func(v *VaultCharacter, s *string) { v.Bonds = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Bonds },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Bonds = cloneString(s) },
	},
	{
		Name:        "flaws",
		GetVault:    func(v *VaultCharacter) *string { return v.Flaws },
		SetVault:    func(v *VaultCharacter, s *string) { v.Flaws = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Flaws },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Flaws = cloneString(s) },
	},
	{
		Name:        "mannerisms",
		GetVault:    func(v *VaultCharacter) *string { return v.Mannerisms },
		SetVault:    func(v *VaultCharacter, s *string) { v.Mannerisms = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Mannerisms },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Mannerisms = cloneString(s) },
	},
	{
		Name:        "fears",
		GetVault:    func(v *VaultCharacter) *string { return v.Fears },
		SetVault:    func(v *VaultCharacter, s *string) { v.Fears = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.Fears },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.Fears = cloneString(s) },
	},
	{
		Name:        "goals_motivations",
		GetVault:    func(v *VaultCharacter) *string { return v.GoalsMotivations },
		SetVault:    func(v *VaultCharacter, s *string) { v.GoalsMotivations = cloneString(s) },
		GetCampaign: func(c *CampaignCharacter) *string { return c.GoalsMotivations },
		SetCampaign: func(c *CampaignCharacter, s *string) { c.GoalsMotivations = cloneString(s) },
	},
}

// SyncableFieldNames lists the allow-listed field names in table order.
func SyncableFieldNames() []string {
	names := make([]string, 0, len(SyncFields))
	for _, field := range SyncFields {
		names = append(names, field.Name)
	}
	return names
}

// ApplySync copies every allow-listed field from the source side to the
// target side, in place, and returns the names of the fields written.
//
// The backstory special case preserves the original schema quirk: vault
// backstory_summary and campaign backstory carry the same content under
// different names, and are only copied when the source value is non-empty.
func ApplySync(vault *VaultCharacter, campaign *CampaignCharacter, direction SyncDirection) []string {
	updated := make([]string, 0, len(SyncFields)+1)

	for _, field := range SyncFields {
		if direction == SyncVaultToCampaign {
			field.SetCampaign(campaign, field.GetVault(vault))
		} else {
			field.SetVault(vault, field.GetCampaign(campaign))
		}
		updated = append(updated, field.Name)
	}

	switch direction {
	case SyncVaultToCampaign:
		if vault.BackstorySummary != nil && *vault.BackstorySummary != "" {
			campaign.Backstory = cloneString(vault.BackstorySummary)
			updated = append(updated, "backstory")
		}
	case SyncCampaignToVault:
		if campaign.Backstory != nil && *campaign.Backstory != "" {
			vault.BackstorySummary = cloneString(campaign.Backstory)
			updated = append(updated, "backstory_summary")
		}
	}

	return updated
}

// FieldDiff reports one allow-listed field whose values differ between the
// vault and campaign sides.
type FieldDiff struct {
	Field         string  `json:"field"`
	VaultValue    *string `json:"vaultValue"`
	CampaignValue *string `json:"campaignValue"`
}

// Diff compares every allow-listed field plus the backstory special case.
// Nil on both sides counts as equal; nil versus empty string does not.
func Diff(vault *VaultCharacter, campaign *CampaignCharacter) []FieldDiff {
	var diffs []FieldDiff

	for _, field := range SyncFields {
		vaultValue := field.GetVault(vault)
		campaignValue := field.GetCampaign(campaign)
		if !nullableEqual(vaultValue, campaignValue) {
			diffs = append(diffs, FieldDiff{
				Field:         field.Name,
				VaultValue:    cloneString(vaultValue),
				CampaignValue: cloneString(campaignValue),
			})
		}
	}

	if !nullableEqual(vault.BackstorySummary, campaign.Backstory) {
		diffs = append(diffs, FieldDiff{
			Field:         "backstory",
			VaultValue:    cloneString(vault.BackstorySummary),
			CampaignValue: cloneString(campaign.Backstory),
		})
	}

	return diffs
}

func nullableEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
