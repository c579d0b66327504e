// Package app orchestrates vault character use-cases on top of storage.
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fenwick-games/lorekeeper/internal/platform/assets/imagestore"
	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/platform/id"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/storage"
)

// Mailer delivers best-effort transactional email. Failures are logged and
// never abort the operation that triggered them.
type Mailer interface {
	SendLinkConfirmation(ctx context.Context, email, characterName, campaignName string) error
}

// LogMailer writes would-be emails to the process log. Used when no email
// provider is configured.
type LogMailer struct{}

// SendLinkConfirmation logs the confirmation instead of delivering it.
func (LogMailer) SendLinkConfirmation(_ context.Context, email, characterName, campaignName string) error {
	log.Printf("link confirmation for %s: %s joined %s", email, characterName, campaignName)
	return nil
}

// Service orchestrates link, sync, unlink, and claim behavior.
type Service struct {
	store  storage.Store
	images imagestore.Store
	mailer Mailer
	now    func() time.Time
	newID  func() (string, error)
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithImages wires an image store for portrait uploads.
func WithImages(images imagestore.Store) Option {
	return func(s *Service) { s.images = images }
}

// WithMailer overrides the default log-only mailer.
func WithMailer(mailer Mailer) Option {
	return func(s *Service) { s.mailer = mailer }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService constructs vault use-cases.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		mailer: LogMailer{},
		now:    time.Now,
		newID:  id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadCampaignContext resolves the campaign, the caller's membership if any,
// and the campaign character, translating storage misses into the taxonomy
// errors each operation reports.
func (s *Service) loadCampaignContext(ctx context.Context, campaignID, characterID, userID string) (domain.Campaign, *domain.CampaignMembership, domain.CampaignCharacter, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, nil, domain.CampaignCharacter{},
				apperrors.New(apperrors.CodeCampaignNotFound, "campaign not found")
		}
		return domain.Campaign{}, nil, domain.CampaignCharacter{}, err
	}

	var membership *domain.CampaignMembership
	found, err := s.store.GetMembership(ctx, campaignID, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return domain.Campaign{}, nil, domain.CampaignCharacter{}, err
	}
	if err == nil {
		membership = &found
	}

	character, err := s.store.GetCampaignCharacter(ctx, campaignID, characterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, nil, domain.CampaignCharacter{},
				apperrors.New(apperrors.CodeCharacterNotFound, "character not found")
		}
		return domain.Campaign{}, nil, domain.CampaignCharacter{}, err
	}

	return campaign, membership, character, nil
}

// ownedVaultCharacter loads a vault character and enforces ownership. A vault
// character owned by someone else reads as not found, never as forbidden, so
// the response does not leak its existence.
func (s *Service) ownedVaultCharacter(ctx context.Context, vaultCharacterID, userID string) (domain.VaultCharacter, error) {
	vault, err := s.store.GetVaultCharacter(ctx, vaultCharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.VaultCharacter{}, apperrors.New(apperrors.CodeVaultCharacterNotFound, "vault character not found")
		}
		return domain.VaultCharacter{}, err
	}
	if vault.UserID != userID {
		return domain.VaultCharacter{}, apperrors.New(apperrors.CodeVaultCharacterNotFound, "vault character not found")
	}
	return vault, nil
}
