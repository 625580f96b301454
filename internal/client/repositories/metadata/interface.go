// Package metadata is the client's key/value table. It holds the session and
// the serialised contact ledger.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
	KeyContacts  = "bitnet_contacts"
	// KeyLegacyContacts is read when KeyContacts is absent.
	KeyLegacyContacts = "savedContacts"
	// KeyContactsBackup keeps the last undecodable ledger blob so it is not
	// lost when the next write replaces it.
	KeyContactsBackup = "bitnet_contacts_corrupt"
)

// Repository reads and writes raw values. Get returns an error wrapping
// common.ErrNotFound for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
