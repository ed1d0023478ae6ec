package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tallybook/internal/shared"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndValidate(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService("secret", time.Hour, fixedClock(issuedAt))

	raw, expiresAt, err := svc.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	accountID, err := svc.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accountID)
}

func TestValidateExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewService("secret", time.Hour, fixedClock(issuedAt))
	raw, _, err := issuer.Issue(7)
	require.NoError(t, err)

	cases := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just issued", issuedAt.Add(time.Second), nil},
		{"just before expiry", issuedAt.Add(time.Hour - time.Second), nil},
		{"exactly at expiry", issuedAt.Add(time.Hour), shared.ErrTokenExpired},
		{"after expiry", issuedAt.Add(2 * time.Hour), shared.ErrTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := NewService("secret", time.Hour, fixedClock(tc.at))
			_, err := verifier.Validate(raw)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService("secret", time.Hour, fixedClock(now))
	raw, _, err := svc.Issue(9)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService("other-secret", time.Hour, fixedClock(now))
		_, err := other.Validate(raw)
		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		mangled := []byte(raw)
		mangled[len(mangled)/2] ^= 0x01
		_, err := svc.Validate(string(mangled))
		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Validate("")
		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})
}

func TestExpiredAndForgedAreDistinctInternally(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewService("secret", time.Minute, fixedClock(issuedAt))
	raw, _, err := issuer.Issue(1)
	require.NoError(t, err)

	later := NewService("secret", time.Minute, fixedClock(issuedAt.Add(time.Hour)))
	_, expiredErr := later.Validate(raw)
	_, forgedErr := later.Validate(raw + "x")

	assert.ErrorIs(t, expiredErr, shared.ErrTokenExpired)
	assert.ErrorIs(t, forgedErr, shared.ErrInvalidSignature)
	assert.NotErrorIs(t, expiredErr, shared.ErrInvalidSignature)
}
