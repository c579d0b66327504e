// Package domain models per-user session layout preferences and the
// campaign-level overrides layered on top of them.
package domain

import "time"

// Section and module ids are plain strings chosen by the UI; the engine only
// cares about ordering, visibility, and the locked set.

// DefaultCompletedSectionOrder is the fixed default ordering of completed
// session sections.
var DefaultCompletedSectionOrder = []string{
	"dm_notes",
	"session_content",
	"player_notes",
	"thoughts_for_next",
}

// DefaultPrepModuleOrder is the fixed default ordering of prep modules.
var DefaultPrepModuleOrder = []string{
	"checklist",
	"references",
	"session_goals",
	"key_npcs",
	"session_opener",
	"random_tables",
	"music_ambiance",
}

// lockedSections are structurally mandatory and can never be user-hidden.
var lockedSections = map[string]bool{
	"session_notes": true,
	"share_toggle":  true,
	"attendance":    true,
}

// IsSectionLocked reports whether a section is structurally mandatory.
func IsSectionLocked(sectionID string) bool {
	return lockedSections[sectionID]
}

// Preference is one user's layout state for one campaign.
type Preference struct {
	ID         string
	UserID     string
	CampaignID string

	CompletedSectionOrder []string
	PrepModuleOrder       []string
	CollapsedSections     map[string]bool
	HiddenSections        []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPreference builds the defaulted layout state for a pair that has no
// persisted record yet. The ID stays empty until the first write.
func DefaultPreference(userID, campaignID string) Preference {
	return Preference{
		UserID:                userID,
		CampaignID:            campaignID,
		CompletedSectionOrder: append([]string(nil), DefaultCompletedSectionOrder...),
		PrepModuleOrder:       append([]string(nil), DefaultPrepModuleOrder...),
		CollapsedSections:     map[string]bool{},
		HiddenSections:        nil,
	}
}

// Clone deep-copies the preference so callers never share slice or map state.
func (p Preference) Clone() Preference {
	copied := p
	copied.CompletedSectionOrder = append([]string(nil), p.CompletedSectionOrder...)
	copied.PrepModuleOrder = append([]string(nil), p.PrepModuleOrder...)
	copied.HiddenSections = append([]string(nil), p.HiddenSections...)
	copied.CollapsedSections = make(map[string]bool, len(p.CollapsedSections))
	for k, v := range p.CollapsedSections {
		copied.CollapsedSections[k] = v
	}
	return copied
}

// IsHidden reports whether the user hid the section.
func (p Preference) IsHidden(sectionID string) bool {
	for _, id := range p.HiddenSections {
		if id == sectionID {
			return true
		}
	}
	return false
}

// CampaignSettings are DM-owned visibility overrides. They layer on top of
// user preferences read-only: the user's own state is preserved underneath
// and reactivates the moment the campaign re-enables a module.
type CampaignSettings struct {
	CampaignID                string
	AllOptionalSectionsHidden bool
	DisabledPrepModules       []string
	DisabledCompletedSections []string
	UpdatedAt                 time.Time
}

// IsModuleDisabled reports whether campaign policy disables a prep module.
func (s CampaignSettings) IsModuleDisabled(moduleID string) bool {
	if s.AllOptionalSectionsHidden {
		return true
	}
	for _, id := range s.DisabledPrepModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

// IsSectionDisabled reports whether campaign policy disables a completed
// section. Locked sections are structural and never disabled.
func (s CampaignSettings) IsSectionDisabled(sectionID string) bool {
	if IsSectionLocked(sectionID) {
		return false
	}
	if s.AllOptionalSectionsHidden {
		return true
	}
	for _, id := range s.DisabledCompletedSections {
		if id == sectionID {
			return true
		}
	}
	return false
}
