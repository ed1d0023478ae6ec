// Package budget derives period summaries from the transaction ledger. A
// summary is a pure function of ledger state at call time and is never
// persisted or cached.
package budget

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/shared"
)

// CategoryTotal is one slice of the breakdown: the signed sum of a
// category's entries in the period.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary aggregates one account's entries over a period.
type Summary struct {
	Period       shared.Period
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	Breakdown    []CategoryTotal
}

// LedgerReader reads ledger entries for aggregation.
type LedgerReader interface {
	List(ctx context.Context, ownerID int64, period shared.Period) ([]ledger.Entry, error)
}

// Service computes budget summaries.
type Service struct {
	ledger LedgerReader
}

// NewService constructs a new Service.
func NewService(reader LedgerReader) *Service {
	return &Service{ledger: reader}
}

// Summarize groups the period's entries by category, sums each group, and
// totals income (positive entries), expense (absolute sum of negatives) and
// net. The breakdown is ordered by descending absolute magnitude so charts
// show the largest contributors first; equal magnitudes order by category
// name.
func (s *Service) Summarize(ctx context.Context, ownerID int64, period shared.Period) (*Summary, error) {
	entries, err := s.ledger.List(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	income := decimal.Zero
	expense := decimal.Zero
	for _, entry := range entries {
		totals[entry.Category] = totals[entry.Category].Add(entry.Amount)
		if entry.Amount.IsPositive() {
			income = income.Add(entry.Amount)
		} else {
			expense = expense.Add(entry.Amount.Abs())
		}
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		breakdown = append(breakdown, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		mi, mj := breakdown[i].Total.Abs(), breakdown[j].Total.Abs()
		if !mi.Equal(mj) {
			return mi.GreaterThan(mj)
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return &Summary{
		Period:       period,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		Breakdown:    breakdown,
	}, nil
}
