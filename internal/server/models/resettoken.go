package models

import "time"

// ResetToken is a single-use password reset grant bound to an email.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
