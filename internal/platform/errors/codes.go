// Package errors provides structured error handling with machine-readable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Campaign errors
	CodeCampaignNotFound          Code = "CAMPAIGN_NOT_FOUND"
	CodeCampaignMembershipMissing Code = "CAMPAIGN_MEMBERSHIP_MISSING"

	// Vault character errors
	CodeVaultCharacterNotFound Code = "VAULT_CHARACTER_NOT_FOUND"
	CodeVaultCharacterNotOwned Code = "VAULT_CHARACTER_NOT_OWNED"
	CodeVaultLinkMissing       Code = "VAULT_LINK_MISSING"

	// Campaign character errors
	CodeCharacterNotFound            Code = "CHARACTER_NOT_FOUND"
	CodeCharacterAlreadyLinked       Code = "CHARACTER_ALREADY_LINKED"
	CodeCharacterNotLinked           Code = "CHARACTER_NOT_LINKED"
	CodeCharacterDesignatedElsewhere Code = "CHARACTER_DESIGNATED_ELSEWHERE"
	CodeCharacterNotClaimable        Code = "CHARACTER_NOT_CLAIMABLE"

	// Sync errors
	CodeSyncInvalidDirection Code = "SYNC_INVALID_DIRECTION"
	CodeSyncDirectionDenied  Code = "SYNC_DIRECTION_DENIED"

	// Unlink errors
	CodeUnlinkInvalidMode  Code = "UNLINK_INVALID_MODE"
	CodeUnlinkMergeMissing Code = "UNLINK_MERGE_TARGET_MISSING"

	// Layout errors
	CodeLayoutSectionLocked Code = "LAYOUT_SECTION_LOCKED"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps the error code to an HTTP status code.
//
// Conflict-style precondition failures (already linked, invalid mode) map to
// 400 rather than 409 to match the public API contract.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied,
		CodeCampaignMembershipMissing,
		CodeCharacterDesignatedElsewhere,
		CodeSyncDirectionDenied:
		return http.StatusForbidden
	case CodeNotFound,
		CodeCampaignNotFound,
		CodeVaultCharacterNotFound,
		CodeVaultCharacterNotOwned,
		CodeCharacterNotFound,
		CodeUnlinkMergeMissing:
		return http.StatusNotFound
	case CodeInvalidArgument,
		CodeCharacterAlreadyLinked,
		CodeCharacterNotLinked,
		CodeCharacterNotClaimable,
		CodeVaultLinkMissing,
		CodeSyncInvalidDirection,
		CodeUnlinkInvalidMode,
		CodeLayoutSectionLocked:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
