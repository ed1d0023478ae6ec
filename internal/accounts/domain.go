package accounts

import (
	"strings"
	"time"
)

// Account represents a registered identity.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Timezone     string
	CreatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// writes go through the normalized form, so "User@X" and "user@x" are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Location resolves the account's time zone, falling back to the given
// default when the account has none configured.
func (a *Account) Location(fallback *time.Location) *time.Location {
	if a == nil || a.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
