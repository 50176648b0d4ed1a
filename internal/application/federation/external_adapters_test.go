package federation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) *cache.TTLCache {
	t.Helper()
	c := cache.NewTTLCache()
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func defaultQueryConfig(entity federation.EntityType) *federation.EntityQueryConfig {
	cfg := federation.NewTenantDataSourceConfig("42")
	return &federation.EntityQueryConfig{
		Entity:   entity,
		Table:    entity.DefaultTable(),
		Mappings: cfg.MappingsFor(entity),
		CacheTTL: cfg.EffectiveCacheTTL(),
	}
}

func TestExternalVendorAdapter(t *testing.T) {
	t.Run("second identical read is served from cache", func(t *testing.T) {
		exec := &fakeExecutor{rows: []map[string]any{
			{"id": int64(1), "company_name": "Acme"},
			{"id": int64(2), "company_name": "Globex"},
		}}
		adapter := NewExternalVendorAdapter(exec, newTestCache(t), nil)
		qc := defaultQueryConfig(federation.EntityVendor)

		first, err := adapter.FindAll(context.Background(), "42", shared.DefaultFilter(), qc)
		require.NoError(t, err)
		second, err := adapter.FindAll(context.Background(), "42", shared.DefaultFilter(), qc)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, exec.queries, 1)
	})

	t.Run("different pagination misses the cache", func(t *testing.T) {
		exec := &fakeExecutor{rows: []map[string]any{}}
		adapter := NewExternalVendorAdapter(exec, newTestCache(t), nil)
		qc := defaultQueryConfig(federation.EntityVendor)

		filter := shared.DefaultFilter()
		_, err := adapter.FindAll(context.Background(), "42", filter, qc)
		require.NoError(t, err)
		filter.Offset = 50
		_, err = adapter.FindAll(context.Background(), "42", filter, qc)
		require.NoError(t, err)

		assert.Len(t, exec.queries, 2)
	})

	t.Run("missing id maps to ErrNotFound", func(t *testing.T) {
		exec := &fakeExecutor{rows: []map[string]any{}}
		adapter := NewExternalVendorAdapter(exec, newTestCache(t), nil)
		qc := defaultQueryConfig(federation.EntityVendor)

		_, err := adapter.FindByID(context.Background(), "42", "999", qc)

		assert.ErrorIs(t, err, federation.ErrNotFound)
	})

	t.Run("FindByIDs with no ids skips the database", func(t *testing.T) {
		exec := &fakeExecutor{}
		adapter := NewExternalVendorAdapter(exec, newTestCache(t), nil)

		dtos, err := adapter.FindByIDs(context.Background(), "42", nil, defaultQueryConfig(federation.EntityVendor))

		require.NoError(t, err)
		assert.Empty(t, dtos)
		assert.Empty(t, exec.queries)
	})
}

// splitExecutor returns parent rows for the first query and fails or answers
// every later query, to exercise the item degradation path.
type splitExecutor struct {
	parentRows []map[string]any
	itemRows   []map[string]any
	itemErr    error
	queries    []string
}

func (f *splitExecutor) ExecuteQuery(_ context.Context, _ string, _ federation.ConnParams, query string, _ ...any) ([]map[string]any, error) {
	f.queries = append(f.queries, query)
	if len(f.queries) == 1 {
		return f.parentRows, nil
	}
	if f.itemErr != nil {
		return nil, f.itemErr
	}
	return f.itemRows, nil
}

func deliveryOrderQueryConfig() *federation.EntityQueryConfig {
	qc := defaultQueryConfig(federation.EntityDeliveryOrder)
	qc.Items = defaultQueryConfig(federation.EntityDeliveryOrderItem)
	return qc
}

func TestExternalDeliveryOrderAdapter(t *testing.T) {
	t.Run("attaches items grouped by parent", func(t *testing.T) {
		exec := &splitExecutor{
			parentRows: []map[string]any{
				{"id": int64(10), "order_number": "DO-10"},
				{"id": int64(11), "order_number": "DO-11"},
			},
			itemRows: []map[string]any{
				{"id": int64(1), "delivery_order_id": int64(10), "quantity": 5.0},
				{"id": int64(2), "delivery_order_id": int64(10), "quantity": 2.5},
				{"id": int64(3), "delivery_order_id": int64(11), "quantity": 1.0},
			},
		}
		adapter := NewExternalDeliveryOrderAdapter(exec, newTestCache(t), nil)

		orders, err := adapter.FindAll(context.Background(), "42", shared.DefaultFilter(), deliveryOrderQueryConfig())

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Len(t, orders[0].Items, 2)
		assert.Len(t, orders[1].Items, 1)
		assert.Len(t, exec.queries, 2)
	})

	t.Run("item failure degrades to parents with empty items", func(t *testing.T) {
		exec := &splitExecutor{
			parentRows: []map[string]any{
				{"id": int64(10), "order_number": "DO-10"},
			},
			itemErr: errors.New("table do_items does not exist"),
		}
		adapter := NewExternalDeliveryOrderAdapter(exec, newTestCache(t), nil)

		orders, err := adapter.FindAll(context.Background(), "42", shared.DefaultFilter(), deliveryOrderQueryConfig())

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Empty(t, orders[0].Items)
		assert.Equal(t, "DO-10", orders[0].OrderNumber)
	})

	t.Run("parent failure is an error", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("connection reset")}
		adapter := NewExternalDeliveryOrderAdapter(exec, newTestCache(t), nil)

		_, err := adapter.FindAll(context.Background(), "42", shared.DefaultFilter(), deliveryOrderQueryConfig())

		assert.Error(t, err)
	})
}
