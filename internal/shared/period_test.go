package shared

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	p := Month(2026, time.February, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.End)

	t.Run("december rolls into next year", func(t *testing.T) {
		p := Month(2026, time.December, time.UTC)
		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), p.End)
	})
}

func TestContainsHalfOpen(t *testing.T) {
	p := Month(2026, time.February, time.UTC)
	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End.Add(-time.Nanosecond)))
	assert.False(t, p.Contains(p.End), "end boundary belongs to the next period")
	assert.False(t, p.Contains(p.Start.Add(-time.Nanosecond)))
	assert.True(t, p.Next().Contains(p.End))
}

func TestParseMonth(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	p, err := ParseMonth("2026-02", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, loc), p.Start)

	_, err = ParseMonth("February", loc)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPeriodFromQuery(t *testing.T) {
	t.Run("month shorthand", func(t *testing.T) {
		p, err := PeriodFromQuery(url.Values{"period": {"2026-02"}}, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, Month(2026, time.February, time.UTC), p)
	})

	t.Run("explicit range", func(t *testing.T) {
		p, err := PeriodFromQuery(url.Values{
			"start": {"2026-02-01T00:00:00Z"},
			"end":   {"2026-02-15T00:00:00Z"},
		}, time.UTC)
		require.NoError(t, err)
		assert.True(t, p.Valid())
	})

	t.Run("missing values", func(t *testing.T) {
		_, err := PeriodFromQuery(url.Values{}, time.UTC)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := PeriodFromQuery(url.Values{
			"start": {"2026-02-15T00:00:00Z"},
			"end":   {"2026-02-01T00:00:00Z"},
		}, time.UTC)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
