// Package layouthttp exposes session layout preferences over JSON HTTP.
// The debounced manager is the embeddable engine; this surface loads and
// persists whole records for clients that manage their own state.
package layouthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/platform/id"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/domain"
	"github.com/fenwick-games/lorekeeper/internal/services/layout/storage"
	"github.com/fenwick-games/lorekeeper/internal/services/shared/authctx"
)

// Handler serves the layout HTTP API.
type Handler struct {
	store storage.Store
	now   func() time.Time
	newID func() (string, error)
}

// NewHandler constructs the layout HTTP handler.
func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store, now: time.Now, newID: id.NewID}
}

// Register wires layout routes into the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /campaigns/{campaignID}/layout", h.handleGet)
	mux.HandleFunc("PUT /campaigns/{campaignID}/layout", h.handlePut)
}

type layoutBody struct {
	CompletedSectionOrder []string        `json:"completedSectionOrder"`
	PrepModuleOrder       []string        `json:"prepModuleOrder"`
	CollapsedSections     map[string]bool `json:"collapsedSections"`
	HiddenSections        []string        `json:"hiddenSections"`
}

type settingsBody struct {
	AllOptionalSectionsHidden bool     `json:"allOptionalSectionsHidden"`
	DisabledPrepModules       []string `json:"disabledPrepModules"`
	DisabledCompletedSections []string `json:"disabledCompletedSections"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code.HTTPStatus(), map[string]any{"error": appErr.Message, "code": appErr.Code})
		return
	}
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error", "code": apperrors.CodeUnknown})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
		return
	}
	campaignID := r.PathValue("campaignID")

	pref, err := h.store.GetPreference(r.Context(), user.ID, campaignID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			writeError(w, err)
			return
		}
		pref = domain.DefaultPreference(user.ID, campaignID)
	}

	settings, err := h.store.GetCampaignSettings(r.Context(), campaignID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeError(w, err)
		return
	}

	hidden := pref.HiddenSections
	if hidden == nil {
		hidden = []string{}
	}
	disabledModules := settings.DisabledPrepModules
	if disabledModules == nil {
		disabledModules = []string{}
	}
	disabledSections := settings.DisabledCompletedSections
	if disabledSections == nil {
		disabledSections = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"layout": layoutBody{
			CompletedSectionOrder: pref.CompletedSectionOrder,
			PrepModuleOrder:       pref.PrepModuleOrder,
			CollapsedSections:     pref.CollapsedSections,
			HiddenSections:        hidden,
		},
		"campaignSettings": settingsBody{
			AllOptionalSectionsHidden: settings.AllOptionalSectionsHidden,
			DisabledPrepModules:       disabledModules,
			DisabledCompletedSections: disabledSections,
		},
	})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
		return
	}
	campaignID := r.PathValue("campaignID")

	var body layoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "request body is not valid JSON"))
		return
	}
	for _, sectionID := range body.HiddenSections {
		if domain.IsSectionLocked(sectionID) {
			writeError(w, apperrors.WithMetadata(apperrors.CodeLayoutSectionLocked,
				"locked sections cannot be hidden",
				map[string]string{"section": sectionID}))
			return
		}
	}

	now := h.now().UTC()
	pref, err := h.store.GetPreference(r.Context(), user.ID, campaignID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			writeError(w, err)
			return
		}
		newID, idErr := h.newID()
		if idErr != nil {
			writeError(w, fmt.Errorf("generate preference id: %w", idErr))
			return
		}
		pref = domain.DefaultPreference(user.ID, campaignID)
		pref.ID = newID
		pref.CreatedAt = now
	}

	pref.CompletedSectionOrder = body.CompletedSectionOrder
	pref.PrepModuleOrder = body.PrepModuleOrder
	pref.CollapsedSections = body.CollapsedSections
	pref.HiddenSections = body.HiddenSections
	pref.UpdatedAt = now

	if err := h.store.PutPreference(r.Context(), pref); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "layout saved"})
}
