package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payments-portal/portal/internal/core/domain"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := t.Context()

	a, err := repo.Create(ctx, &domain.Account{User: domain.User{Name: "A", Email: "a@x.io", Role: domain.RoleAdmin}})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &domain.Account{User: domain.User{Name: "B", Email: "b@x.io", Role: domain.RoleUser}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	_, err = repo.Create(ctx, &domain.Account{User: domain.User{Name: "A2", Email: "a@x.io"}})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := repo.FindByEmail(ctx, "b@x.io")
	require.NoError(t, err)
	assert.Equal(t, "B", found.Name)

	_, err = repo.FindByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func fixedLedger() *Ledger {
	l := NewLedger()
	l.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	return l
}

func TestLedger_OpenAndComplete(t *testing.T) {
	l := fixedLedger()
	ctx := t.Context()

	opened, err := l.OpenBatch(ctx, "p.csv")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusPending, opened.Status)
	assert.Equal(t, "2024-01-15T10:30:00Z", opened.CreatedAt)

	done, err := l.CompleteBatch(ctx, opened.ID,
		[]domain.Payment{
			{Reference: "R-1", CustomerEmail: "Jane@Example.com", Currency: "USD", Amount: 1},
			{Reference: "R-2", CustomerEmail: "john@example.com", Currency: "EUR", Amount: 2},
		},
		[]domain.BatchLog{{Status: "info", Message: "2 payments processed"}})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusProcessed, done.Status)

	detail, err := l.Batch(ctx, opened.ID)
	require.NoError(t, err)
	require.Len(t, detail.Payments, 2)
	assert.Equal(t, int64(1), detail.Payments[0].ID)
	assert.Equal(t, int64(2), detail.Payments[1].ID)
	require.Len(t, detail.Logs, 1)
	assert.Equal(t, "2024-01-15T10:30:00Z", detail.Logs[0].CreatedAt)

	mine, err := l.PaymentsFor(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "R-1", mine[0].Reference)
}

func TestLedger_FailedBatch(t *testing.T) {
	l := fixedLedger()
	ctx := t.Context()

	opened, err := l.OpenBatch(ctx, "bad.csv")
	require.NoError(t, err)
	done, err := l.CompleteBatch(ctx, opened.ID, nil, []domain.BatchLog{{Status: "error", Message: "line 2: invalid amount"}})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusFailed, done.Status)
}

func TestLedger_CompleteUnknownBatch(t *testing.T) {
	_, err := fixedLedger().CompleteBatch(t.Context(), 99, nil, nil)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestLedger_ListsNewestFirst(t *testing.T) {
	l := fixedLedger()
	ctx := t.Context()

	empty, err := l.Batches(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"first.csv", "second.csv"} {
		b, err := l.OpenBatch(ctx, name)
		require.NoError(t, err)
		_, err = l.CompleteBatch(ctx, b.ID, []domain.Payment{{Reference: name, CustomerEmail: "u@x.io"}}, nil)
		require.NoError(t, err)
	}

	batches, err := l.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "second.csv", batches[0].OriginalFilename)

	payments, err := l.PaymentsFor(ctx, "U@X.IO")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "second.csv", payments[0].Reference)
}

func TestLedger_BatchReturnsCopy(t *testing.T) {
	l := fixedLedger()
	ctx := t.Context()
	b, err := l.OpenBatch(ctx, "p.csv")
	require.NoError(t, err)
	_, err = l.CompleteBatch(ctx, b.ID, []domain.Payment{{Reference: "R-1"}}, nil)
	require.NoError(t, err)

	detail, err := l.Batch(ctx, b.ID)
	require.NoError(t, err)
	detail.Payments[0].Reference = "changed"

	again, err := l.Batch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "R-1", again.Payments[0].Reference)

	_, err = l.Batch(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}
