package services

import (
	"context"
	"testing"

	"storefront/db"
	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_NoDB(t *testing.T) {
	if db.Pool != nil {
		t.Skip("pool configured")
	}
	ctx := context.Background()

	err := RecordOrder(ctx, NewOrderID(), 1, models.OrderSummary{Lines: []models.OrderSummaryLine{{Description: "x", Quantity: 1}}})
	assert.ErrorIs(t, err, db.ErrNoDB)

	_, err = GetOrder(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, db.ErrNoDB)

	_, err = ListCatalog(ctx)
	assert.ErrorIs(t, err, db.ErrNoDB)

	assert.ErrorIs(t, ReplaceCatalog(ctx, nil), db.ErrNoDB)
}

// Integration tests (require DB with migrations applied). Skip if db.Pool is nil or -short.
func TestRecordOrder_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping order integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping order integration test: no DB pool")
	}
	ctx := context.Background()
	const testChatID int64 = 999999991

	err := RecordOrder(ctx, NewOrderID(), testChatID, models.OrderSummary{IsEmpty: true})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	a := NewAggregator(sampleCatalog())
	a.AdjustQuantity(a.Line(0), 2, "")
	a.AdjustQuantity(a.Line(2), 1, "S")
	summary := a.BuildSummary()

	id := NewOrderID()
	require.NoError(t, RecordOrder(ctx, id, testChatID, summary))
	defer db.Pool.Exec(ctx, `DELETE FROM orders WHERE id::text = $1`, id)

	got, err := GetOrder(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, summary.Total, got.Total)
	assert.Equal(t, summary.Lines, got.Lines)

	recent, err := ListOrdersByChat(ctx, testChatID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, id, recent[0].ID)

	missing, err := GetOrder(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
