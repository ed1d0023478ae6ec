package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/shared"
)

// Service wraps ledger business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an immutable entry and returns its id. The amount must be
// non-zero and the category non-blank; the caller-supplied timestamp is event
// time used for period bucketing, not insertion order.
func (s *Service) Record(ctx context.Context, ownerID int64, amount decimal.Decimal, category string, occurredAt time.Time) (uuid.UUID, error) {
	category = strings.TrimSpace(category)
	if amount.IsZero() {
		return uuid.Nil, fmt.Errorf("amount must be non-zero: %w", shared.ErrValidation)
	}
	if category == "" {
		return uuid.Nil, fmt.Errorf("category must not be blank: %w", shared.ErrValidation)
	}
	if occurredAt.IsZero() {
		return uuid.Nil, fmt.Errorf("timestamp required: %w", shared.ErrValidation)
	}

	entry := Entry{
		ID:         uuid.New(),
		AccountID:  ownerID,
		Amount:     amount,
		Category:   category,
		OccurredAt: occurredAt,
	}
	err := s.repo.WithAccountLock(ctx, ownerID, func(tx TxRepository) error {
		return tx.InsertEntry(ctx, &entry)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return entry.ID, nil
}

// List returns the owner's entries within the half-open period window,
// ordered by event time descending, most recently recorded first on ties.
func (s *Service) List(ctx context.Context, ownerID int64, period shared.Period) ([]Entry, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("period end must be after start: %w", shared.ErrValidation)
	}
	return s.repo.ListEntries(ctx, ownerID, period)
}

// Delete removes the owner's entry. A missing id yields shared.ErrNotFound;
// an entry owned by another account yields shared.ErrNotOwner. The HTTP
// boundary reports both as not found so owners cannot probe the existence of
// others' entries.
func (s *Service) Delete(ctx context.Context, ownerID int64, entryID uuid.UUID) error {
	return s.repo.WithAccountLock(ctx, ownerID, func(tx TxRepository) error {
		entry, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.AccountID != ownerID {
			return shared.ErrNotOwner
		}
		return tx.DeleteEntry(ctx, entryID)
	})
}
