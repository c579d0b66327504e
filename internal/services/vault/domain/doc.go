// Package domain defines the vault and campaign character entities and the
// pure rules that govern linking, syncing, merging, and unlinking them.
//
// A vault character is a player's persistent master copy. A campaign
// character is the in-play copy owned by one campaign, optionally linked back
// to a vault character. All field copying between the two schemas goes
// through the typed mapping tables in sync.go and merge.go so the allow-list
// is checked at compile time.
package domain
