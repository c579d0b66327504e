// Package storage defines the persistence contracts for layout preferences.
package storage

import (
	"context"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/domain"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Store persists layout preferences and campaign session settings.
type Store interface {
	// GetPreference loads one (user, campaign) preference record.
	GetPreference(ctx context.Context, userID, campaignID string) (domain.Preference, error)
	// PutPreference upserts one preference record by its id.
	PutPreference(ctx context.Context, preference domain.Preference) error

	// GetCampaignSettings loads DM-owned campaign overrides.
	GetCampaignSettings(ctx context.Context, campaignID string) (domain.CampaignSettings, error)
	// PutCampaignSettings upserts campaign overrides.
	PutCampaignSettings(ctx context.Context, settings domain.CampaignSettings) error
}
