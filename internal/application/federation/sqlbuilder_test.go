package federation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/backend/internal/domain/federation"
)

func vendorQueryConfig() *federation.EntityQueryConfig {
	return &federation.EntityQueryConfig{
		Entity: federation.EntityVendor,
		Table:  "account_master",
		Mappings: []federation.FieldMapping{
			{InternalField: "id", ExternalField: "acmast_id"},
			{InternalField: "companyName", ExternalField: "acname"},
			{InternalField: "phone", ExternalField: "mobile_no"},
		},
	}
}

func TestBuildSelect(t *testing.T) {
	t.Run("selects quoted mapped columns from quoted table", func(t *testing.T) {
		b, err := buildSelect(vendorQueryConfig())
		require.NoError(t, err)

		q := b.Build()
		assert.Equal(t, "SELECT t.`acmast_id`, t.`acname`, t.`mobile_no` FROM `account_master` t", q.SQL)
		assert.Empty(t, q.Args)
	})

	t.Run("rejects a malicious table name", func(t *testing.T) {
		qc := vendorQueryConfig()
		qc.Table = "account_master; DROP TABLE users--"
		_, err := buildSelect(qc)
		assert.Error(t, err)
	})

	t.Run("rejects a malicious column name", func(t *testing.T) {
		qc := vendorQueryConfig()
		qc.Mappings[1].ExternalField = "acname` --"
		_, err := buildSelect(qc)
		assert.Error(t, err)
	})

	t.Run("renders join columns aliased to internal fields", func(t *testing.T) {
		qc := &federation.EntityQueryConfig{
			Entity: federation.EntityPurchaseOrder,
			Table:  "po_header",
			Mappings: []federation.FieldMapping{
				{InternalField: "id", ExternalField: "po_id"},
				{InternalField: "vendorId", ExternalField: "acmast_id"},
			},
			Joins: []federation.JoinSpec{
				{
					Table:         "account_master",
					LocalColumn:   "acmast_id",
					ForeignColumn: "acmast_id",
					Columns:       map[string]string{"vendorName": "acname"},
				},
			},
		}
		b, err := buildSelect(qc)
		require.NoError(t, err)

		q := b.Build()
		assert.Contains(t, q.SQL, "j0.`acname` AS `vendorName`")
		assert.Contains(t, q.SQL, "LEFT JOIN `account_master` j0 ON j0.`acmast_id` = t.`acmast_id`")
	})

	t.Run("conditions and pagination bind values", func(t *testing.T) {
		b, err := buildSelect(vendorQueryConfig())
		require.NoError(t, err)
		require.NoError(t, b.WhereEq("acmast_id", "77"))
		require.NoError(t, b.OrderBy("acmast_id"))
		b.Paginate(50, 100)

		q := b.Build()
		assert.Contains(t, q.SQL, "WHERE t.`acmast_id` = ?")
		assert.Contains(t, q.SQL, "ORDER BY t.`acmast_id`")
		assert.Contains(t, q.SQL, "LIMIT ? OFFSET ?")
		assert.Equal(t, []any{"77", 50, 100}, q.Args)
	})

	t.Run("IN expands one placeholder per value", func(t *testing.T) {
		b, err := buildSelect(vendorQueryConfig())
		require.NoError(t, err)
		require.NoError(t, b.WhereIn("acmast_id", []string{"1", "2", "3"}))

		q := b.Build()
		assert.Contains(t, q.SQL, "IN (?, ?, ?)")
		assert.Equal(t, []any{"1", "2", "3"}, q.Args)
	})
}
