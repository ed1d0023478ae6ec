package ledger

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tallybook/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	entries map[uuid.UUID]*Entry
	nextSeq int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		locks:   make(map[int64]*sync.Mutex),
		entries: make(map[uuid.UUID]*Entry),
		nextSeq: 1,
	}
}

func (m *mockRepository) accountLock(accountID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[accountID] = lock
	}
	return lock
}

func (m *mockRepository) WithAccountLock(ctx context.Context, accountID int64, fn func(TxRepository) error) error {
	lock := m.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()
	return fn(&mockTxRepo{mock: m})
}

func (m *mockRepository) ListEntries(ctx context.Context, accountID int64, period shared.Period) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []Entry
	for _, entry := range m.entries {
		if entry.AccountID == accountID && period.Contains(entry.OccurredAt) {
			result = append(result, *entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].OccurredAt.After(result[j].OccurredAt)
		}
		return result[i].Seq > result[j].Seq
	})
	return result, nil
}

type mockTxRepo struct {
	mock *mockRepository
}

func (t *mockTxRepo) InsertEntry(ctx context.Context, entry *Entry) error {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	entry.Seq = t.mock.nextSeq
	entry.CreatedAt = time.Now()
	t.mock.nextSeq++
	copied := *entry
	t.mock.entries[entry.ID] = &copied
	return nil
}

func (t *mockTxRepo) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	entry, ok := t.mock.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (t *mockTxRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	if _, ok := t.mock.entries[id]; !ok {
		return shared.ErrNotFound
	}
	delete(t.mock.entries, id)
	return nil
}

var _ Repository = (*mockRepository)(nil)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// ============================================================================
// TESTS
// ============================================================================

func TestRecordValidation(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	occurred := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		amount   string
		category string
	}{
		{"zero amount", "0", "food"},
		{"empty category", "10.50", ""},
		{"whitespace category", "10.50", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, 1, mustDecimal(t, tc.amount), tc.category, occurred)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	t.Run("zero timestamp", func(t *testing.T) {
		_, err := svc.Record(ctx, 1, mustDecimal(t, "5"), "food", time.Time{})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("valid entry", func(t *testing.T) {
		id, err := svc.Record(ctx, 1, mustDecimal(t, "-12.30"), " food ", occurred)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})
}

func TestListOrdering(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// Insert out of timestamp order; two entries share an event time.
	_, err := svc.Record(ctx, 1, mustDecimal(t, "-10"), "food", base.AddDate(0, 0, 14))
	require.NoError(t, err)
	_, err = svc.Record(ctx, 1, mustDecimal(t, "-20"), "food", base.AddDate(0, 0, 3))
	require.NoError(t, err)
	_, err = svc.Record(ctx, 1, mustDecimal(t, "2000"), "salary", base.AddDate(0, 0, 27))
	require.NoError(t, err)
	tieID, err := svc.Record(ctx, 1, mustDecimal(t, "-5"), "coffee", base.AddDate(0, 0, 14))
	require.NoError(t, err)

	period := shared.Month(2026, time.February, time.UTC)
	entries, err := svc.List(ctx, 1, period)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].OccurredAt.After(entries[i-1].OccurredAt),
			"timestamps must be non-increasing")
	}
	// Tie on event time: most recently recorded first.
	assert.Equal(t, tieID, entries[1].ID)
	assert.Equal(t, "food", entries[2].Category)
}

func TestListHalfOpenWindow(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	period := shared.Month(2026, time.February, time.UTC)

	_, err := svc.Record(ctx, 1, mustDecimal(t, "1"), "edge", period.Start)
	require.NoError(t, err)
	atEnd, err := svc.Record(ctx, 1, mustDecimal(t, "2"), "edge", period.End)
	require.NoError(t, err)

	entries, err := svc.List(ctx, 1, period)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].OccurredAt.Equal(period.Start))

	next, err := svc.List(ctx, 1, period.Next())
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, atEnd, next[0].ID)
}

func TestListScopedToOwner(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	occurred := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	_, err := svc.Record(ctx, 1, mustDecimal(t, "-10"), "food", occurred)
	require.NoError(t, err)
	_, err = svc.Record(ctx, 2, mustDecimal(t, "-99"), "food", occurred)
	require.NoError(t, err)

	entries, err := svc.List(ctx, 1, shared.Month(2026, time.February, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].AccountID)
}

func TestDelete(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()
	occurred := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	entryID, err := svc.Record(ctx, 1, mustDecimal(t, "-10"), "food", occurred)
	require.NoError(t, err)

	t.Run("not owner", func(t *testing.T) {
		err := svc.Delete(ctx, 2, entryID)
		assert.ErrorIs(t, err, shared.ErrNotOwner)
	})

	t.Run("missing id", func(t *testing.T) {
		err := svc.Delete(ctx, 1, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 1, entryID))
		entries, err := svc.List(ctx, 1, shared.Month(2026, time.February, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		err := svc.Delete(ctx, 1, entryID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
