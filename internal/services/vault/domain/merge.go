package domain

// mergeField copies one campaign-side value into the vault master copy when
// the campaign value is present.
type mergeField struct {
	name  string
	apply func(dst *VaultCharacter, src *CampaignCharacter) bool
}

func mergeString(name string, get func(*CampaignCharacter) *string, set func(*VaultCharacter, *string)) mergeField {
	return mergeField{
		name: name,
		apply: func(dst *VaultCharacter, src *CampaignCharacter) bool {
			value := get(src)
			if value == nil {
				return false
			}
			set(dst, cloneString(value))
			return true
		},
	}
}

// mergeFields is the fixed field set folded back into the vault character on
// an unlink with the merge policy. Campaign values win when non-null.
var mergeFields = []mergeField{
	{
		name: "name",
		apply: func(dst *VaultCharacter, src *CampaignCharacter) bool {
			dst.Name = src.Name
			return true
		},
	},
	mergeString("summary",
		func(c *CampaignCharacter) *string { return c.Summary },
		func(v *VaultCharacter, s *string) { v.Summary = s }),
	mergeString("description",
		func(c *CampaignCharacter) *string { return c.Description },
		func(v *VaultCharacter, s *string) { v.Description = s }),
	mergeString("notes",
		func(c *CampaignCharacter) *string { return c.Notes },
		func(v *VaultCharacter, s *string) { v.Notes = s }),
	mergeString("image_url",
		func(c *CampaignCharacter) *string { return c.ImageURL },
		func(v *VaultCharacter, s *string) { v.ImageURL = s }),
	mergeString("race",
		func(c *CampaignCharacter) *string { return c.Race },
		func(v *VaultCharacter, s *string) { v.Race = s }),
	mergeString("class",
		func(c *CampaignCharacter) *string { return c.Class },
		func(v *VaultCharacter, s *string) { v.Class = s }),
	mergeString("subclass",
		func(c *CampaignCharacter) *string { return c.Subclass },
		func(v *VaultCharacter, s *string) { v.Subclass = s }),
	{
		name: "level",
		apply: func(dst *VaultCharacter, src *CampaignCharacter) bool {
			if src.Level == nil {
				return false
			}
			dst.Level = cloneInt(src.Level)
			return true
		},
	},
	mergeString("background",
		func(c *CampaignCharacter) *string { return c.Background },
		func(v *VaultCharacter, s *string) { v.Background = s }),
	mergeString("status",
		func(c *CampaignCharacter) *string { return c.Status },
		func(v *VaultCharacter, s *string) { v.Status = s }),
	mergeString("status_color",
		func(c *CampaignCharacter) *string { return c.StatusColor },
		func(v *VaultCharacter, s *string) { v.StatusColor = s }),
}

// ApplyMerge folds the campaign character's state back into the vault master
// copy: non-null campaign values overwrite, null values leave the vault field
// untouched. The vault character is reactivated. Returns the names of the
// fields written.
func ApplyMerge(dst *VaultCharacter, src *CampaignCharacter) []string {
	merged := make([]string, 0, len(mergeFields))
	for _, field := range mergeFields {
		if field.apply(dst, src) {
			merged = append(merged, field.name)
		}
	}
	dst.ContentMode = ContentModeActive
	dst.InactiveReason = nil
	return merged
}
