package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, "sqlite3")
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestStore_LogAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Log(ctx, Entry{Flow: "createPaymentCustomer", CustomerID: "cus_1", InvoiceID: "in_1", Outcome: "success", DurationMS: 120, CreatedAt: base}))
	require.NoError(t, store.Log(ctx, Entry{Flow: "makeMotoPayment", CustomerID: "cus_1", Outcome: "failure", Message: "Failed to create Stripe setup intent", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Log(ctx, Entry{Flow: "createPaymentCustomer", CustomerID: "cus_2", Outcome: "success", CreatedAt: base}))

	entries, err := store.ListByCustomer(ctx, "cus_1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "makeMotoPayment", entries[0].Flow, "newest first")
	assert.Equal(t, "Failed to create Stripe setup intent", entries[0].Message)
	assert.Equal(t, "in_1", entries[1].InvoiceID)
	assert.Equal(t, int64(120), entries[1].DurationMS)
	assert.True(t, entries[1].CreatedAt.Equal(base))
}

func TestStore_ListLimit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Log(ctx, Entry{Flow: "createMotoPaymentCustomer", CustomerID: "cus_1", Outcome: "success"}))
	}

	entries, err := store.ListByCustomer(ctx, "cus_1", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_CountByOutcome(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Log(ctx, Entry{Flow: "makeMotoPayment", Outcome: "failure", CreatedAt: base.Add(-2 * time.Hour)}))
	require.NoError(t, store.Log(ctx, Entry{Flow: "makeMotoPayment", Outcome: "failure", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Log(ctx, Entry{Flow: "makeMotoPayment", Outcome: "success", CreatedAt: base.Add(time.Minute)}))

	n, err := store.CountByOutcome(ctx, "makeMotoPayment", "failure", base)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_RejectsInvalidEntry(t *testing.T) {
	store := setupStore(t)

	err := store.Log(context.Background(), Entry{Flow: "createPaymentCustomer"})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "postgres", want: "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{driver: "sqlite3", want: "SELECT * FROM t WHERE a = ? AND b = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := NewStore(nil, tt.driver)
			assert.Equal(t, tt.want, s.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
		})
	}
}
