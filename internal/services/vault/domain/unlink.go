package domain

import (
	"fmt"
	"time"

	apperrors "github.com/fenwick-games/lorekeeper/internal/platform/errors"
)

// UnlinkMode selects the data-retention policy applied when severing a
// vault/campaign link.
//
//   - leave:  the vault character forgets the campaign entirely and the
//     caller's membership is removed.
//   - memory: the link is severed but the vault character is archived as a
//     read-mostly record of the campaign.
//   - merge:  the campaign character's state is folded back into the vault
//     master copy before the link is severed.
//
// No mode ever deletes the vault character itself.
type UnlinkMode string

const (
	UnlinkLeave  UnlinkMode = "leave"
	UnlinkMemory UnlinkMode = "memory"
	UnlinkMerge  UnlinkMode = "merge"
)

// ParseUnlinkMode validates a wire-format unlink action string.
func ParseUnlinkMode(value string) (UnlinkMode, error) {
	switch UnlinkMode(value) {
	case UnlinkLeave, UnlinkMemory, UnlinkMerge:
		return UnlinkMode(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeUnlinkInvalidMode,
			"unlink action must be leave, memory, or merge",
			map[string]string{"action": value})
	}
}

// MemoryInactiveReason builds the archived-state marker recorded when a
// character becomes a campaign memory. The stop date is ISO-8601.
func MemoryInactiveReason(campaignID string, at time.Time) string {
	return fmt.Sprintf("Campaign memory from %q - stopped syncing on %s",
		campaignID, at.UTC().Format("2006-01-02"))
}
