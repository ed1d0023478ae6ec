package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook/internal/platform/db"
	"github.com/tallybook/tallybook/internal/shared"
)

// Repository defines persistence operations for the ledger.
type Repository interface {
	// WithAccountLock runs fn inside a transaction that holds an exclusive
	// lock for the account, serializing mutations of one account's ledger
	// while leaving other accounts unblocked.
	WithAccountLock(ctx context.Context, accountID int64, fn func(TxRepository) error) error
	ListEntries(ctx context.Context, accountID int64, period shared.Period) ([]Entry, error)
}

// TxRepository exposes mutations available while the account lock is held.
type TxRepository interface {
	InsertEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// WithAccountLock wraps fn in a transaction holding an advisory lock keyed
// by the account id.
func (r *PGRepository) WithAccountLock(ctx context.Context, accountID int64, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, accountID); err != nil {
			return fmt.Errorf("ledger: account lock: %w", err)
		}
		return fn(&txRepository{tx: tx})
	})
}

// ListEntries returns the account's entries inside the half-open period
// window, newest event time first, insertion order breaking ties.
func (r *PGRepository) ListEntries(ctx context.Context, accountID int64, period shared.Period) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, amount::text, category, occurred_at, seq, created_at
		   FROM transactions
		  WHERE account_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		  ORDER BY occurred_at DESC, seq DESC`,
		accountID, period.Start, period.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type txRepository struct {
	tx pgx.Tx
}

// InsertEntry appends an entry and fills its database-assigned sequence and
// creation timestamp.
func (r *txRepository) InsertEntry(ctx context.Context, entry *Entry) error {
	return r.tx.QueryRow(ctx,
		`INSERT INTO transactions (id, account_id, amount, category, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING seq, created_at`,
		entry.ID, entry.AccountID, entry.Amount.String(), entry.Category, entry.OccurredAt,
	).Scan(&entry.Seq, &entry.CreatedAt)
}

// GetEntry fetches an entry by id regardless of owner.
func (r *txRepository) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	entry, err := scanEntry(r.tx.QueryRow(ctx,
		`SELECT id, account_id, amount::text, category, occurred_at, seq, created_at
		   FROM transactions WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry by id.
func (r *txRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry      Entry
		amountText string
		occurredAt time.Time
	)
	if err := row.Scan(&entry.ID, &entry.AccountID, &amountText, &entry.Category, &occurredAt, &entry.Seq, &entry.CreatedAt); err != nil {
		return Entry{}, err
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: parse amount %q: %w", amountText, err)
	}
	entry.Amount = amount
	entry.OccurredAt = occurredAt
	return entry, nil
}

var _ Repository = (*PGRepository)(nil)
var _ TxRepository = (*txRepository)(nil)
