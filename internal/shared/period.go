package shared

import (
	"fmt"
	"net/url"
	"time"
)

// Period is a half-open time window [Start, End). An instant equal to End
// falls outside the period and into the next one.
type Period struct {
	Start time.Time
	End   time.Time
}

// Month builds the period covering one calendar month in the given zone.
func Month(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth parses a "YYYY-MM" value into a calendar-month period in loc.
func ParseMonth(value string, loc *time.Location) (Period, error) {
	t, err := time.ParseInLocation("2006-01", value, loc)
	if err != nil {
		return Period{}, fmt.Errorf("parse month %q: %w", value, ErrValidation)
	}
	return Month(t.Year(), t.Month(), loc), nil
}

// PeriodFromQuery resolves a period from request query values: either
// period=YYYY-MM (a calendar month in loc) or explicit RFC3339 start/end.
func PeriodFromQuery(q url.Values, loc *time.Location) (Period, error) {
	if month := q.Get("period"); month != "" {
		return ParseMonth(month, loc)
	}
	startRaw, endRaw := q.Get("start"), q.Get("end")
	if startRaw == "" || endRaw == "" {
		return Period{}, fmt.Errorf("period or start/end required: %w", ErrValidation)
	}
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return Period{}, fmt.Errorf("parse start: %w", ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return Period{}, fmt.Errorf("parse end: %w", ErrValidation)
	}
	p := Period{Start: start, End: end}
	if !p.Valid() {
		return Period{}, fmt.Errorf("end must be after start: %w", ErrValidation)
	}
	return p, nil
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Next returns the adjacent period of equal calendar shape. For month
// periods this is the following month.
func (p Period) Next() Period {
	d := p.End.Sub(p.Start)
	if p.Start.AddDate(0, 1, 0).Equal(p.End) {
		return Period{Start: p.End, End: p.End.AddDate(0, 1, 0)}
	}
	return Period{Start: p.End, End: p.End.Add(d)}
}

// Valid reports whether the window is non-empty.
func (p Period) Valid() bool {
	return p.End.After(p.Start)
}
