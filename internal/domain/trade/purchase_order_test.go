package trade

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/backend/internal/domain/shared"
)

func TestPurchaseOrderLifecycle(t *testing.T) {
	t.Run("new order starts as draft", func(t *testing.T) {
		po, err := NewPurchaseOrder("tenant-1", "PO-2026-001", "vendor-1")
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
		assert.False(t, po.IsOpen())
	})

	t.Run("approve opens the order", func(t *testing.T) {
		po, err := NewPurchaseOrder("tenant-1", "PO-2026-002", "vendor-1")
		require.NoError(t, err)
		require.NoError(t, po.Approve())
		assert.Equal(t, PurchaseOrderStatusApproved, po.Status)
		assert.True(t, po.IsOpen())
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		po, err := NewPurchaseOrder("tenant-1", "PO-2026-003", "vendor-1")
		require.NoError(t, err)
		require.NoError(t, po.Approve())
		assert.ErrorIs(t, po.Approve(), shared.ErrInvalidState)
	})

	t.Run("cannot cancel a cancelled order", func(t *testing.T) {
		po, err := NewPurchaseOrder("tenant-1", "PO-2026-004", "vendor-1")
		require.NoError(t, err)
		require.NoError(t, po.Cancel())
		assert.ErrorIs(t, po.Cancel(), shared.ErrInvalidState)
	})

	t.Run("rejects missing vendor", func(t *testing.T) {
		_, err := NewPurchaseOrder("tenant-1", "PO-2026-005", "")
		assert.Error(t, err)
	})
}

func TestDeliveryOrder(t *testing.T) {
	t.Run("add item links to parent", func(t *testing.T) {
		do, err := NewDeliveryOrder("tenant-1", "DO-001", "po-1", "vendor-1")
		require.NoError(t, err)
		require.NoError(t, do.AddItem("mat-1", decimal.NewFromInt(10), "kg", decimal.NewFromFloat(2.5)))
		require.Len(t, do.Items, 1)
		assert.Equal(t, do.ID, do.Items[0].DeliveryOrderID)
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		do, err := NewDeliveryOrder("tenant-1", "DO-002", "po-1", "vendor-1")
		require.NoError(t, err)
		assert.Error(t, do.AddItem("mat-1", decimal.Zero, "kg", decimal.Zero))
	})

	t.Run("mark delivered sets date", func(t *testing.T) {
		do, err := NewDeliveryOrder("tenant-1", "DO-003", "po-1", "vendor-1")
		require.NoError(t, err)
		at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, do.MarkDelivered(at))
		assert.Equal(t, DeliveryOrderStatusDelivered, do.Status)
		require.NotNil(t, do.DeliveryDate)
		assert.Equal(t, at, *do.DeliveryDate)
		assert.ErrorIs(t, do.MarkDelivered(at), shared.ErrInvalidState)
	})
}
