// Package vaulthttp exposes vault operations as JSON-over-HTTP endpoints.
package vaulthttp

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
	"github.com/fenwick-games/lorekeeper/internal/services/shared/authctx"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/app"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/domain"
)

// maxPortraitBytes bounds portrait uploads to 5 MiB.
const maxPortraitBytes = 5 << 20

// Handler serves the vault HTTP API.
type Handler struct {
	service *app.Service
}

// NewHandler constructs the vault HTTP handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register wires vault routes into the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /campaigns/{campaignID}/characters/{characterID}/link", h.handleLink)
	mux.HandleFunc("DELETE /campaigns/{campaignID}/characters/{characterID}/link", h.handleUnlink)
	mux.HandleFunc("POST /campaigns/{campaignID}/characters/{characterID}/sync", h.handleSync)
	mux.HandleFunc("GET /campaigns/{campaignID}/characters/{characterID}/sync", h.handleDiff)
	mux.HandleFunc("POST /campaigns/{campaignID}/characters/{characterID}/claim", h.handleClaim)
	mux.HandleFunc("POST /campaigns/{campaignID}/characters/{characterID}/portrait", h.handlePortrait)
	mux.HandleFunc("POST /vault/unlink", h.handleUnlinkWithMode)
}

func requireUser(w http.ResponseWriter, r *http.Request) (authctx.User, bool) {
	user, ok := authctx.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
		return authctx.User{}, false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

type errorBody struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code.HTTPStatus(), errorBody{Error: appErr.Message, Code: appErr.Code})
		return
	}
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: apperrors.CodeUnknown})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "request body is not valid JSON"))
		return false
	}
	return true
}

func (h *Handler) handleLink(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		VaultCharacterID string `json:"vaultCharacterId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.VaultCharacterID == "" {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "vaultCharacterId is required"))
		return
	}

	result, err := h.service.LinkCharacter(r.Context(), app.LinkInput{
		UserID:           user.ID,
		UserEmail:        user.Email,
		CampaignID:       r.PathValue("campaignID"),
		CharacterID:      r.PathValue("characterID"),
		VaultCharacterID: body.VaultCharacterID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "character linked",
		"vaultCharacterId": result.VaultCharacterID,
		"characterId":      result.CharacterID,
	})
}

func (h *Handler) handleUnlink(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	err := h.service.UnlinkCharacter(r.Context(), user.ID, user.Email,
		r.PathValue("campaignID"), r.PathValue("characterID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "character unlinked"})
}

func (h *Handler) handleUnlinkWithMode(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		VaultCharacterID string `json:"vaultCharacterId"`
		CampaignID       string `json:"campaignId"`
		Action           string `json:"action"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	mode, err := domain.ParseUnlinkMode(body.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.service.UnlinkWithMode(r.Context(), app.UnlinkWithModeInput{
		UserID:           user.ID,
		VaultCharacterID: body.VaultCharacterID,
		CampaignID:       body.CampaignID,
		Mode:             mode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "character unlinked", "action": string(mode)})
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Direction string `json:"direction"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	direction, err := domain.ParseSyncDirection(body.Direction)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.SyncCharacter(r.Context(), app.SyncInput{
		UserID:      user.ID,
		CampaignID:  r.PathValue("campaignID"),
		CharacterID: r.PathValue("characterID"),
		Direction:   direction,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "characters synced",
		"direction":     string(result.Direction),
		"fieldsUpdated": result.FieldsUpdated,
	})
}

func (h *Handler) handleDiff(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.DiffCharacter(r.Context(), user.ID,
		r.PathValue("campaignID"), r.PathValue("characterID"))
	if err != nil {
		writeError(w, err)
		return
	}
	differences := result.Differences
	if differences == nil {
		differences = []domain.FieldDiff{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isLinked":         result.IsLinked,
		"vaultCharacterId": result.VaultCharacterID,
		"inSync":           result.InSync,
		"differences":      differences,
		"syncableFields":   result.SyncableFields,
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.ClaimCharacter(r.Context(), app.ClaimInput{
		UserID:      user.ID,
		UserEmail:   user.Email,
		CampaignID:  r.PathValue("campaignID"),
		CharacterID: r.PathValue("characterID"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "character claimed",
		"vaultCharacterId": result.VaultCharacterID,
		"characterId":      result.CharacterID,
	})
}

func (h *Handler) handlePortrait(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPortraitBytes))
	if err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "portrait exceeds the size limit"))
		return
	}

	url, err := h.service.UploadPortrait(r.Context(), app.PortraitInput{
		UserID:      user.ID,
		UserEmail:   user.Email,
		CampaignID:  r.PathValue("campaignID"),
		CharacterID: r.PathValue("characterID"),
		Blob:        blob,
		ContentType: r.Header.Get("Content-Type"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "portrait uploaded", "imageUrl": url})
}
