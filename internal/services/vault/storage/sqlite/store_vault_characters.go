package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

const vaultCharacterColumns = `id, user_id, name, pronouns, age, occupation, species,
short_description, description, summary, notes, backstory_summary, image_url,
thumbnail_url, personality_traits, ideals, bonds, flaws, mannerisms, fears,
goals_motivations, race, class, subclass, background, status, status_color,
level, content_mode, inactive_reason, linked_campaign_id, created_at, updated_at`

// PutVaultCharacter upserts one vault character row.
func (s *Store) PutVaultCharacter(ctx context.Context, character domain.VaultCharacter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := character.Validate(); err != nil {
		return err
	}
	return putVaultCharacterExec(ctx, s.sqlDB, character)
}

func putVaultCharacterExec(ctx context.Context, db execer, character domain.VaultCharacter) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO vault_characters (`+vaultCharacterColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    user_id = excluded.user_id,
    name = excluded.name,
    pronouns = excluded.pronouns,
    age = excluded.age,
    occupation = excluded.occupation,
    species = excluded.species,
    short_description = excluded.short_description,
    description = excluded.description,
    summary = excluded.summary,
    notes = excluded.notes,
    backstory_summary = excluded.backstory_summary,
    image_url = excluded.image_url,
    thumbnail_url = excluded.thumbnail_url,
    personality_traits = excluded.personality_traits,
    ideals = excluded.ideals,
    bonds = excluded.bonds,
    flaws = excluded.flaws,
    mannerisms = excluded.mannerisms,
    fears = excluded.fears,
    goals_motivations = excluded.goals_motivations,
    race = excluded.race,
    class = excluded.class,
    subclass = excluded.subclass,
    background = excluded.background,
    status = excluded.status,
    status_color = excluded.status_color,
    level = excluded.level,
    content_mode = excluded.content_mode,
    inactive_reason = excluded.inactive_reason,
    linked_campaign_id = excluded.linked_campaign_id,
    updated_at = excluded.updated_at
`,
		character.ID,
		character.UserID,
		character.Name,
		nullString(character.Pronouns),
		nullString(character.Age),
		nullString(character.Occupation),
		nullString(character.Species),
		nullString(character.ShortDescription),
		nullString(character.Description),
		nullString(character.Summary),
		nullString(character.Notes),
		nullString(character.BackstorySummary),
		nullString(character.ImageURL),
		nullString(character.ThumbnailURL),
		nullString(character.PersonalityTraits),
		nullString(character.Ideals),
		nullString(character.Bonds),
		nullString(character.Flaws),
		nullString(character.Mannerisms),
		nullString(character.Fears),
		nullString(character.GoalsMotivations),
		nullString(character.Race),
		nullString(character.Class),
		nullString(character.Subclass),
		nullString(character.Background),
		nullString(character.Status),
		nullString(character.StatusColor),
		nullInt(character.Level),
		string(character.ContentMode),
		nullString(character.InactiveReason),
		nullString(character.LinkedCampaignID),
		toMillis(character.CreatedAt),
		toMillis(character.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put vault character: %w", err)
	}
	return nil
}

// GetVaultCharacter loads one vault character by id.
func (s *Store) GetVaultCharacter(ctx context.Context, id string) (domain.VaultCharacter, error) {
	if err := ctx.Err(); err != nil {
		return domain.VaultCharacter{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.VaultCharacter{}, fmt.Errorf("storage is not configured")
	}
	if id == "" {
		return domain.VaultCharacter{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+vaultCharacterColumns+`
FROM vault_characters
WHERE id = ?
`, id)
	character, err := scanVaultCharacter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VaultCharacter{}, storage.ErrNotFound
		}
		return domain.VaultCharacter{}, fmt.Errorf("get vault character: %w", err)
	}
	return character, nil
}

// ListVaultCharactersByUser lists a user's vault characters newest-first.
func (s *Store) ListVaultCharactersByUser(ctx context.Context, userID string) ([]domain.VaultCharacter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+vaultCharacterColumns+`
FROM vault_characters
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list vault characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.VaultCharacter
	for rows.Next() {
		character, scanErr := scanVaultCharacter(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan vault character: %w", scanErr)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vault characters: %w", err)
	}
	return characters, nil
}

func scanVaultCharacter(scan func(...any) error) (domain.VaultCharacter, error) {
	var (
		character         domain.VaultCharacter
		pronouns          sql.NullString
		age               sql.NullString
		occupation        sql.NullString
		species           sql.NullString
		shortDescription  sql.NullString
		description       sql.NullString
		summary           sql.NullString
		notes             sql.NullString
		backstorySummary  sql.NullString
		imageURL          sql.NullString
		thumbnailURL      sql.NullString
		personalityTraits sql.NullString
		ideals            sql.NullString
		bonds             sql.NullString
		flaws             sql.NullString
		mannerisms        sql.NullString
		fears             sql.NullString
		goalsMotivations  sql.NullString
		race              sql.NullString
		class             sql.NullString
		subclass          sql.NullString
		background        sql.NullString
		status            sql.NullString
		statusColor       sql.NullString
		level             sql.NullInt64
		contentMode       string
		inactiveReason    sql.NullString
		linkedCampaignID  sql.NullString
		createdAt         int64
		updatedAt         int64
	)

	if err := scan(
		&character.ID, &character.UserID, &character.Name,
		&pronouns, &age, &occupation, &species, &shortDescription, &description,
		&summary, &notes, &backstorySummary, &imageURL, &thumbnailURL,
		&personalityTraits, &ideals, &bonds, &flaws, &mannerisms, &fears,
		&goalsMotivations, &race, &class, &subclass, &background, &status,
		&statusColor, &level, &contentMode, &inactiveReason, &linkedCampaignID,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.VaultCharacter{}, err
	}

	character.Pronouns = stringPtr(pronouns)
	character.Age = stringPtr(age)
	character.Occupation = stringPtr(occupation)
	character.Species = stringPtr(species)
	character.ShortDescription = stringPtr(shortDescription)
	character.Description = stringPtr(description)
	character.Summary = stringPtr(summary)
	character.Notes = stringPtr(notes)
	character.BackstorySummary = stringPtr(backstorySummary)
	character.ImageURL = stringPtr(imageURL)
	character.ThumbnailURL = stringPtr(thumbnailURL)
	character.PersonalityTraits = stringPtr(personalityTraits)
	character.Ideals = stringPtr(ideals)
	character.Bonds = stringPtr(bonds)
	character.Flaws = stringPtr(flaws)
	character.Mannerisms = stringPtr(mannerisms)
	character.Fears = stringPtr(fears)
	character.GoalsMotivations = stringPtr(goalsMotivations)
	character.Race = stringPtr(race)
	character.Class = stringPtr(class)
	character.Subclass = stringPtr(subclass)
	character.Background = stringPtr(background)
	character.Status = stringPtr(status)
	character.StatusColor = stringPtr(statusColor)
	character.Level = intPtr(level)
	character.ContentMode = domain.ContentMode(contentMode)
	character.InactiveReason = stringPtr(inactiveReason)
	character.LinkedCampaignID = stringPtr(linkedCampaignID)
	character.CreatedAt = fromMillis(createdAt)
	character.UpdatedAt = fromMillis(updatedAt)
	return character, nil
}
