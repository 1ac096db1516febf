// bytesByHarsh | 2026
// entity.go

package auth

import (
	"time"
)

// BlacklistEntry records a token revoked before its natural expiry. Entries
// are keyed by the sha256 of the raw token and are never updated; rows whose
// ExpiresAt has passed are prunable because an expired token already fails
// verification on its own.
type BlacklistEntry struct {
	ID        string    `db:"id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	RevokedAt time.Time `db:"revoked_at"`
}

func (e *BlacklistEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}
