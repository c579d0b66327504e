package domain

import (
	"strings"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
)

// ContentMode marks whether a vault character is an active profile or an
// archived memory.
type ContentMode string

const (
	ContentModeActive   ContentMode = "active"
	ContentModeInactive ContentMode = "inactive"
)

// Kind distinguishes player characters from NPCs.
type Kind string

const (
	KindPC  Kind = "pc"
	KindNPC Kind = "npc"
)

// VaultCharacter is a user's reusable character profile, independent of any
// single campaign. Narrative fields are nullable; absence and emptiness are
// distinct states the sync rules care about.
type VaultCharacter struct {
	ID     string
	UserID string
	Name   string

	Pronouns          *string
	Age               *string
	Occupation        *string
	Species           *string
	ShortDescription  *string
	Description       *string
	Summary           *string
	Notes             *string
	BackstorySummary  *string
	ImageURL          *string
	ThumbnailURL      *string
	PersonalityTraits *string
	Ideals            *string
	Bonds             *string
	Flaws             *string
	Mannerisms        *string
	Fears             *string
	GoalsMotivations  *string
	Race              *string
	Class             *string
	Subclass          *string
	Background        *string
	Status            *string
	StatusColor       *string
	Level             *int

	ContentMode    ContentMode
	InactiveReason *string

	// LinkedCampaignID is a convenience pointer to the single campaign a
	// character is linked to. It must be cleared when the last campaign link
	// is removed.
	LinkedCampaignID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants every persisted vault character must hold.
func (v VaultCharacter) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "vault character id is required")
	}
	if strings.TrimSpace(v.UserID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "vault character user id is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "vault character name is required")
	}
	switch v.ContentMode {
	case ContentModeActive, ContentModeInactive:
	default:
		return apperrors.New(apperrors.CodeInvalidArgument, "vault character content mode is invalid")
	}
	return nil
}

// CampaignCharacter is the in-play copy exposed to a campaign's cast. It may
// reference a vault character; unlinked characters exist standalone.
type CampaignCharacter struct {
	ID         string
	CampaignID string

	// VaultCharacterID is nil for standalone characters. At most one vault
	// character maps to a campaign character at any time.
	VaultCharacterID *string

	Kind Kind
	Name string

	Pronouns          *string
	Age               *string
	Occupation        *string
	Species           *string
	ShortDescription  *string
	Description       *string
	Summary           *string
	Notes             *string
	Backstory         *string
	ImageURL          *string
	ThumbnailURL      *string
	PersonalityTraits *string
	Ideals            *string
	Bonds             *string
	Flaws             *string
	Mannerisms        *string
	Fears             *string
	GoalsMotivations  *string
	Race              *string
	Class             *string
	Subclass          *string
	Background        *string
	Status            *string
	StatusColor       *string
	Level             *int

	// Designation of who may claim or play the character.
	ControlledByUserID *string
	ControlledByEmail  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants every persisted campaign character must hold.
func (c CampaignCharacter) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "character id is required")
	}
	if strings.TrimSpace(c.CampaignID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "character campaign id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "character name is required")
	}
	switch c.Kind {
	case KindPC, KindNPC:
	default:
		return apperrors.New(apperrors.CodeInvalidArgument, "character kind is invalid")
	}
	return nil
}

// DesignatedFor reports whether the character is designated for the given
// user, either by user id or by case-insensitive email match.
func (c CampaignCharacter) DesignatedFor(userID, email string) bool {
	if c.ControlledByUserID != nil && *c.ControlledByUserID == userID {
		return true
	}
	if c.ControlledByEmail != nil && email != "" &&
		strings.EqualFold(*c.ControlledByEmail, email) {
		return true
	}
	return false
}

// HasDesignation reports whether anyone at all has been designated.
func (c CampaignCharacter) HasDesignation() bool {
	return c.ControlledByUserID != nil || c.ControlledByEmail != nil
}

// CampaignLink records one campaign a vault character participates in.
// Links are unique per (vault character, campaign).
type CampaignLink struct {
	VaultCharacterID string
	CampaignID       string
	CharacterID      string
	JoinedAt         time.Time
}

// PrivateNote is a vault owner's per-campaign note about their character.
// Notes live on the vault side and are never visible to the campaign's cast.
type PrivateNote struct {
	VaultCharacterID string
	CampaignID       string
	Body             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// cloneString copies a nullable string so linked records never alias memory.
func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// cloneInt copies a nullable int.
func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// CopyPresentationFields copies the small fixed set of presentation fields
// from the vault master into the in-play copy at link time.
func CopyPresentationFields(dst *CampaignCharacter, src *VaultCharacter) {
	dst.Name = src.Name
	dst.Pronouns = cloneString(src.Pronouns)
	dst.Age = cloneString(src.Age)
	dst.ShortDescription = cloneString(src.ShortDescription)
	dst.Description = cloneString(src.Description)
	dst.ImageURL = cloneString(src.ImageURL)
	dst.ThumbnailURL = cloneString(src.ThumbnailURL)
}
