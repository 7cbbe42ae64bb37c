package identifier

import "github.com/google/uuid"

// NewBatchID returns a time-ordered, collision-free batch identifier.
// UUIDv7 keeps batch listings roughly insertion-ordered without relying on
// wall-clock-plus-random schemes; the unique index remains the final guard
// and callers retry with fresh IDs on conflict.
func NewBatchID() string {
	return "bat_" + mustV7()
}

// NewEntryID returns a time-ordered, collision-free ledger entry identifier.
func NewEntryID() string {
	return "ent_" + mustV7()
}

// NewWalletID returns a new wallet identifier.
func NewWalletID() string {
	return "wal_" + mustV7()
}

func mustV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source fails; fall back to v4,
		// which reads the same source and will panic identically if it is
		// truly unavailable.
		return uuid.NewString()
	}
	return id.String()
}
