package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

const campaignCharacterColumns = `id, campaign_id, vault_character_id, kind, name,
pronouns, age, occupation, species, short_description, description, summary,
notes, backstory, image_url, thumbnail_url, personality_traits, ideals, bonds,
flaws, mannerisms, fears, goals_motivations, race, class, subclass, background,
status, status_color, level, controlled_by_user_id, controlled_by_email,
created_at, updated_at`

// PutCampaignCharacter upserts one in-play character row.
func (s *Store) PutCampaignCharacter(ctx context.Context, character domain.CampaignCharacter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := character.Validate(); err != nil {
		return err
	}
	return putCampaignCharacterExec(ctx, s.sqlDB, character)
}

func putCampaignCharacterExec(ctx context.Context, db execer, character domain.CampaignCharacter) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO characters (`+campaignCharacterColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    vault_character_id = excluded.vault_character_id,
    kind = excluded.kind,
    name = excluded.name,
    pronouns = excluded.pronouns,
    age = excluded.age,
    occupation = excluded.occupation,
    species = excluded.species,
    short_description = excluded.short_description,
    description = excluded.description,
    summary = excluded.summary,
    notes = excluded.notes,
    backstory = excluded.backstory,
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
    controlled_by_user_id = excluded.controlled_by_user_id,
    controlled_by_email = excluded.controlled_by_email,
    updated_at = excluded.updated_at
`,
		character.ID,
		character.CampaignID,
		nullString(character.VaultCharacterID),
		string(character.Kind),
		character.Name,
		nullString(character.Pronouns),
		nullString(character.Age),
		nullString(character.Occupation),
		nullString(character.Species),
		nullString(character.ShortDescription),
		nullString(character.Description),
		nullString(character.Summary),
		nullString(character.Notes),
		nullString(character.Backstory),
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
		nullString(character.ControlledByUserID),
		nullString(character.ControlledByEmail),
		toMillis(character.CreatedAt),
		toMillis(character.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put campaign character: %w", err)
	}
	return nil
}

// GetCampaignCharacter loads one in-play character scoped to its campaign.
func (s *Store) GetCampaignCharacter(ctx context.Context, campaignID, id string) (domain.CampaignCharacter, error) {
	if err := ctx.Err(); err != nil {
		return domain.CampaignCharacter{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.CampaignCharacter{}, fmt.Errorf("storage is not configured")
	}
	if campaignID == "" || id == "" {
		return domain.CampaignCharacter{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+campaignCharacterColumns+`
FROM characters
WHERE campaign_id = ? AND id = ?
`, campaignID, id)
	character, err := scanCampaignCharacter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CampaignCharacter{}, storage.ErrNotFound
		}
		return domain.CampaignCharacter{}, fmt.Errorf("get campaign character: %w", err)
	}
	return character, nil
}

// ListCampaignCharacters lists a campaign's cast in creation order.
func (s *Store) ListCampaignCharacters(ctx context.Context, campaignID string) ([]domain.CampaignCharacter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if campaignID == "" {
		return nil, fmt.Errorf("campaign id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+campaignCharacterColumns+`
FROM characters
WHERE campaign_id = ?
ORDER BY created_at ASC, id ASC
`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.CampaignCharacter
	for rows.Next() {
		character, scanErr := scanCampaignCharacter(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan campaign character: %w", scanErr)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign characters: %w", err)
	}
	return characters, nil
}

func scanCampaignCharacter(scan func(...any) error) (domain.CampaignCharacter, error) {
	var (
		character          domain.CampaignCharacter
		vaultCharacterID   sql.NullString
		kind               string
		pronouns           sql.NullString
		age                sql.NullString
		occupation         sql.NullString
		species            sql.NullString
		shortDescription   sql.NullString
		description        sql.NullString
		summary            sql.NullString
		notes              sql.NullString
		backstory          sql.NullString
		imageURL           sql.NullString
		thumbnailURL       sql.NullString
		personalityTraits  sql.NullString
		ideals             sql.NullString
		bonds              sql.NullString
		flaws              sql.NullString
		mannerisms         sql.NullString
		fears              sql.NullString
		goalsMotivations   sql.NullString
		race               sql.NullString
		class              sql.NullString
		subclass           sql.NullString
		background         sql.NullString
		status             sql.NullString
		statusColor        sql.NullString
		level              sql.NullInt64
		controlledByUserID sql.NullString
		controlledByEmail  sql.NullString
		createdAt          int64
		updatedAt          int64
	)

	if err := scan(
		&character.ID, &character.CampaignID, &vaultCharacterID, &kind, &character.Name,
		&pronouns, &age, &occupation, &species, &shortDescription, &description,
		&summary, &notes, &backstory, &imageURL, &thumbnailURL,
		&personalityTraits, &ideals, &bonds, &flaws, &mannerisms, &fears,
		&goalsMotivations, &race, &class, &subclass, &background, &status,
		&statusColor, &level, &controlledByUserID, &controlledByEmail,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.CampaignCharacter{}, err
	}

	character.VaultCharacterID = stringPtr(vaultCharacterID)
	character.Kind = domain.Kind(kind)
	character.Pronouns = stringPtr(pronouns)
	character.Age = stringPtr(age)
	character.Occupation = stringPtr(occupation)
	character.Species = stringPtr(species)
	character.ShortDescription = stringPtr(shortDescription)
	character.Description = stringPtr(description)
	character.Summary = stringPtr(summary)
	character.Notes = stringPtr(notes)
	character.Backstory = stringPtr(backstory)
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
	character.ControlledByUserID = stringPtr(controlledByUserID)
	character.ControlledByEmail = stringPtr(controlledByEmail)
	character.CreatedAt = fromMillis(createdAt)
	character.UpdatedAt = fromMillis(updatedAt)
	return character, nil
}
