// Package sqlite implements layout storage on a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/fenwick-games/lorekeeper/internal/platform/storage/sqlitemigrate"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/storage"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for layout preference state.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a layout SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode layout field: %w", err)
	}
	return string(data), nil
}

// GetPreference loads one (user, campaign) preference record.
func (s *Store) GetPreference(ctx context.Context, userID, campaignID string) (domain.Preference, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preference{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Preference{}, fmt.Errorf("storage is not configured")
	}
	if userID == "" || campaignID == "" {
		return domain.Preference{}, storage.ErrNotFound
	}

	var (
		preference     domain.Preference
		completedOrder string
		prepOrder      string
		collapsed      string
		hidden         string
		createdAt      int64
		updatedAt      int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, user_id, campaign_id, completed_section_order, prep_module_order,
       collapsed_sections, hidden_sections, created_at, updated_at
FROM user_campaign_preferences
WHERE user_id = ? AND campaign_id = ?
`, userID, campaignID).Scan(&preference.ID, &preference.UserID, &preference.CampaignID,
		&completedOrder, &prepOrder, &collapsed, &hidden, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Preference{}, storage.ErrNotFound
		}
		return domain.Preference{}, fmt.Errorf("get preference: %w", err)
	}

	if err := json.Unmarshal([]byte(completedOrder), &preference.CompletedSectionOrder); err != nil {
		return domain.Preference{}, fmt.Errorf("decode completed section order: %w", err)
	}
	if err := json.Unmarshal([]byte(prepOrder), &preference.PrepModuleOrder); err != nil {
		return domain.Preference{}, fmt.Errorf("decode prep module order: %w", err)
	}
	if err := json.Unmarshal([]byte(collapsed), &preference.CollapsedSections); err != nil {
		return domain.Preference{}, fmt.Errorf("decode collapsed sections: %w", err)
	}
	if err := json.Unmarshal([]byte(hidden), &preference.HiddenSections); err != nil {
		return domain.Preference{}, fmt.Errorf("decode hidden sections: %w", err)
	}
	preference.CreatedAt = fromMillis(createdAt)
	preference.UpdatedAt = fromMillis(updatedAt)
	return preference, nil
}

// PutPreference upserts one preference record by its id.
func (s *Store) PutPreference(ctx context.Context, preference domain.Preference) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if preference.ID == "" || preference.UserID == "" || preference.CampaignID == "" {
		return fmt.Errorf("preference identity is required")
	}

	if preference.HiddenSections == nil {
		preference.HiddenSections = []string{}
	}
	if preference.CollapsedSections == nil {
		preference.CollapsedSections = map[string]bool{}
	}
	completedOrder, err := encodeJSON(preference.CompletedSectionOrder)
	if err != nil {
		return err
	}
	prepOrder, err := encodeJSON(preference.PrepModuleOrder)
	if err != nil {
		return err
	}
	collapsed, err := encodeJSON(preference.CollapsedSections)
	if err != nil {
		return err
	}
	hidden, err := encodeJSON(preference.HiddenSections)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO user_campaign_preferences
    (id, user_id, campaign_id, completed_section_order, prep_module_order, collapsed_sections, hidden_sections, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    completed_section_order = excluded.completed_section_order,
    prep_module_order = excluded.prep_module_order,
    collapsed_sections = excluded.collapsed_sections,
    hidden_sections = excluded.hidden_sections,
    updated_at = excluded.updated_at
`, preference.ID, preference.UserID, preference.CampaignID,
		completedOrder, prepOrder, collapsed, hidden,
		toMillis(preference.CreatedAt), toMillis(preference.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

// GetCampaignSettings loads DM-owned campaign overrides.
func (s *Store) GetCampaignSettings(ctx context.Context, campaignID string) (domain.CampaignSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.CampaignSettings{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.CampaignSettings{}, fmt.Errorf("storage is not configured")
	}
	if campaignID == "" {
		return domain.CampaignSettings{}, storage.ErrNotFound
	}

	var (
		settings         domain.CampaignSettings
		allHidden        int
		disabledModules  string
		disabledSections string
		updatedAt        int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT campaign_id, all_optional_sections_hidden, disabled_prep_modules, disabled_completed_sections, updated_at
FROM campaign_session_settings
WHERE campaign_id = ?
`, campaignID).Scan(&settings.CampaignID, &allHidden, &disabledModules, &disabledSections, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CampaignSettings{}, storage.ErrNotFound
		}
		return domain.CampaignSettings{}, fmt.Errorf("get campaign settings: %w", err)
	}

	settings.AllOptionalSectionsHidden = allHidden == 1
	if err := json.Unmarshal([]byte(disabledModules), &settings.DisabledPrepModules); err != nil {
		return domain.CampaignSettings{}, fmt.Errorf("decode disabled prep modules: %w", err)
	}
	if err := json.Unmarshal([]byte(disabledSections), &settings.DisabledCompletedSections); err != nil {
		return domain.CampaignSettings{}, fmt.Errorf("decode disabled completed sections: %w", err)
	}
	settings.UpdatedAt = fromMillis(updatedAt)
	return settings, nil
}

// PutCampaignSettings upserts campaign overrides.
func (s *Store) PutCampaignSettings(ctx context.Context, settings domain.CampaignSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if settings.CampaignID == "" {
		return fmt.Errorf("campaign id is required")
	}

	if settings.DisabledPrepModules == nil {
		settings.DisabledPrepModules = []string{}
	}
	if settings.DisabledCompletedSections == nil {
		settings.DisabledCompletedSections = []string{}
	}
	disabledModules, err := encodeJSON(settings.DisabledPrepModules)
	if err != nil {
		return err
	}
	disabledSections, err := encodeJSON(settings.DisabledCompletedSections)
	if err != nil {
		return err
	}

	allHidden := 0
	if settings.AllOptionalSectionsHidden {
		allHidden = 1
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO campaign_session_settings
    (campaign_id, all_optional_sections_hidden, disabled_prep_modules, disabled_completed_sections, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(campaign_id) DO UPDATE SET
    all_optional_sections_hidden = excluded.all_optional_sections_hidden,
    disabled_prep_modules = excluded.disabled_prep_modules,
    disabled_completed_sections = excluded.disabled_completed_sections,
    updated_at = excluded.updated_at
`, settings.CampaignID, allHidden, disabledModules, disabledSections, toMillis(settings.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put campaign settings: %w", err)
	}
	return nil
}
