// Package storage defines the persistence contracts for vault and campaign
// character state. Implementations live in subpackages.
package storage
