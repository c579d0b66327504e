// Package app hosts the layout preference engine: an in-memory working copy
// of one user's layout for one campaign, persisted through a debounced write.
package app

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/fenwick-games/lorekeeper/internal/platform/id"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/storage"
)

// DefaultDebounce is the delay between the last mutation and its write.
const DefaultDebounce = 500 * time.Millisecond

// ListName selects which order list a reorder targets.
type ListName string

const (
	ListCompletedSections ListName = "completed_sections"
	ListPrepModules       ListName = "prep_modules"
)

// Manager owns the working copy for one (user, campaign) pair. Every
// mutating call schedules a single debounced write; rapid mutations within
// the window coalesce into one upsert carrying the final state.
//
// The manager owns exactly one timer. It is never package-level state.
type Manager struct {
	mu sync.Mutex

	store    storage.Store
	pref     domain.Preference
	settings domain.CampaignSettings

	delay time.Duration
	timer *time.Timer
	dirty bool

	now   func() time.Time
	newID func() (string, error)
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithDebounce overrides the write delay.
func WithDebounce(delay time.Duration) ManagerOption {
	return func(m *Manager) { m.delay = delay }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() (string, error)) ManagerOption {
	return func(m *Manager) { m.newID = newID }
}

// NewManager loads the pair's persisted preference, or defaults when no
// record exists yet, plus the campaign's visibility overrides.
func NewManager(ctx context.Context, store storage.Store, userID, campaignID string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		store: store,
		delay: DefaultDebounce,
		now:   time.Now,
		newID: id.NewID,
	}
	for _, opt := range opts {
		opt(m)
	}

	pref, err := store.GetPreference(ctx, userID, campaignID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		pref = domain.DefaultPreference(userID, campaignID)
	}
	m.pref = pref

	settings, err := store.GetCampaignSettings(ctx, campaignID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	m.settings = settings
	m.settings.CampaignID = campaignID

	return m, nil
}

// Preference returns a deep copy of the current working state.
func (m *Manager) Preference() domain.Preference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pref.Clone()
}

// Reorder replaces one of the two order lists and schedules a write.
func (m *Manager) Reorder(list ListName, order []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch list {
	case ListCompletedSections:
		m.pref.CompletedSectionOrder = append([]string(nil), order...)
	case ListPrepModules:
		m.pref.PrepModuleOrder = append([]string(nil), order...)
	default:
		return
	}
	m.scheduleWriteLocked()
}

// AutoArrange reorders a list by descending content count, sinking entries
// with no content to the end. Entries with equal counts keep their current
// relative order.
func (m *Manager) AutoArrange(list ListName, counts map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var order []string
	switch list {
	case ListCompletedSections:
		order = m.pref.CompletedSectionOrder
	case ListPrepModules:
		order = m.pref.PrepModuleOrder
	default:
		return
	}
	arranged := append([]string(nil), order...)
	sort.SliceStable(arranged, func(i, j int) bool {
		return counts[arranged[i]] > counts[arranged[j]]
	})
	switch list {
	case ListCompletedSections:
		m.pref.CompletedSectionOrder = arranged
	case ListPrepModules:
		m.pref.PrepModuleOrder = arranged
	}
	m.scheduleWriteLocked()
}

// ToggleCollapsed flips a section's collapsed flag and schedules a write.
func (m *Manager) ToggleCollapsed(sectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pref.CollapsedSections == nil {
		m.pref.CollapsedSections = map[string]bool{}
	}
	m.pref.CollapsedSections[sectionID] = !m.pref.CollapsedSections[sectionID]
	m.scheduleWriteLocked()
}

// ToggleHidden flips a section's hidden state and schedules a write. Locked
// sections are a strict no-op: no state change and no write, for any prior
// state.
func (m *Manager) ToggleHidden(sectionID string) {
	if domain.IsSectionLocked(sectionID) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pref.IsHidden(sectionID) {
		kept := m.pref.HiddenSections[:0]
		for _, hiddenID := range m.pref.HiddenSections {
			if hiddenID != sectionID {
				kept = append(kept, hiddenID)
			}
		}
		m.pref.HiddenSections = kept
	} else {
		m.pref.HiddenSections = append(m.pref.HiddenSections, sectionID)
	}
	m.scheduleWriteLocked()
}

// ResetToDefaults restores both order lists and clears collapsed and hidden
// state, then schedules a write.
func (m *Manager) ResetToDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defaults := domain.DefaultPreference(m.pref.UserID, m.pref.CampaignID)
	m.pref.CompletedSectionOrder = defaults.CompletedSectionOrder
	m.pref.PrepModuleOrder = defaults.PrepModuleOrder
	m.pref.CollapsedSections = defaults.CollapsedSections
	m.pref.HiddenSections = defaults.HiddenSections
	m.scheduleWriteLocked()
}

// IsModuleDisabledByCampaign layers campaign policy over user preference.
func (m *Manager) IsModuleDisabledByCampaign(moduleID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.IsModuleDisabled(moduleID)
}

// IsSectionDisabledByCampaign layers campaign policy over user preference.
func (m *Manager) IsSectionDisabledByCampaign(sectionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.IsSectionDisabled(sectionID)
}

// SetCampaignSettings replaces the override layer, as when the campaign's DM
// changes policy mid-session. The user's own preference is untouched.
func (m *Manager) SetCampaignSettings(settings domain.CampaignSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// scheduleWriteLocked resets the single debounce timer. A later mutation
// within the window silently supersedes the pending write.
func (m *Manager) scheduleWriteLocked() {
	m.dirty = true
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.delay, func() {
		if err := m.Flush(context.Background()); err != nil {
			log.Printf("layout preference write for %s/%s failed: %v", m.pref.UserID, m.pref.CampaignID, err)
		}
	})
}

// Flush persists the current state immediately, cancelling any pending
// debounced write. A manager with no unsaved mutations writes nothing. The
// first flush for a never-persisted pair creates the record; later flushes
// update it by the remembered id. A failed write keeps the manager dirty so
// the state is retried on the next flush instead of being dropped.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if !m.dirty {
		m.mu.Unlock()
		return nil
	}
	if m.pref.ID == "" {
		newID, err := m.newID()
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.pref.ID = newID
		m.pref.CreatedAt = m.now().UTC()
	}
	m.pref.UpdatedAt = m.now().UTC()
	m.dirty = false
	pref := m.pref.Clone()
	m.mu.Unlock()

	if err := m.store.PutPreference(ctx, pref); err != nil {
		m.mu.Lock()
		m.dirty = true
		m.mu.Unlock()
		return err
	}
	return nil
}

// Close flushes pending state, as on navigation away.
func (m *Manager) Close(ctx context.Context) error {
	return m.Flush(ctx)
}
