package domain

import (
	"strings"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
)

// Role is a campaign member's role.
type Role string

const (
	RoleCoDM   Role = "co_dm"
	RolePlayer Role = "player"
)

// Campaign is the minimal campaign projection the vault service needs:
// ownership for DM checks plus display metadata.
type Campaign struct {
	ID          string
	OwnerUserID string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks required campaign fields.
func (c Campaign) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "campaign id is required")
	}
	if strings.TrimSpace(c.OwnerUserID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "campaign owner is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "campaign name is required")
	}
	return nil
}

// CampaignMembership joins a user to a campaign, optionally pointing at the
// character pair the member plays.
type CampaignMembership struct {
	ID         string
	CampaignID string
	UserID     string
	Role       Role
	Email      *string

	// Pointers kept consistent with the campaign character's own link state.
	CharacterID      *string
	VaultCharacterID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required membership fields.
func (m CampaignMembership) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "membership id is required")
	}
	if strings.TrimSpace(m.CampaignID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "membership campaign id is required")
	}
	if strings.TrimSpace(m.UserID) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "membership user id is required")
	}
	switch m.Role {
	case RoleCoDM, RolePlayer:
	default:
		return apperrors.New(apperrors.CodeInvalidArgument, "membership role is invalid")
	}
	return nil
}

// IsDM reports whether the user runs the campaign: the owner, or a member
// holding the elevated co-DM role.
func IsDM(campaign Campaign, membership *CampaignMembership, userID string) bool {
	if campaign.OwnerUserID == userID {
		return true
	}
	return membership != nil && membership.UserID == userID && membership.Role == RoleCoDM
}
