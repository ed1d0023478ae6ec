package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a single signed monetary record owned by one account. Negative
// amounts are expenses, positive are income. Entries are immutable once
// recorded; the only mutation in scope is deletion by the owner.
type Entry struct {
	ID         uuid.UUID
	AccountID  int64
	Amount     decimal.Decimal
	Category   string
	OccurredAt time.Time
	Seq        int64
	CreatedAt  time.Time
}

// IsExpense reports whether the entry reduces the balance.
func (e Entry) IsExpense() bool {
	return e.Amount.IsNegative()
}
