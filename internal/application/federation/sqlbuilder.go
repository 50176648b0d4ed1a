// Package federation routes entity reads between the platform database and a
// tenant's external database, translating external rows into canonical DTOs.
package federation

import (
	"fmt"
	"strings"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/infrastructure/extdb"
)

// selectQuery is an assembled external SELECT with its bind arguments.
// Identifiers are validated and quoted at build time; values always travel as
// bind parameters.
type selectQuery struct {
	SQL  string
	Args []any
}

// buildSelect assembles the SELECT for one external entity fetch. The column
// list is derived from the merged field mappings, join columns are aliased to
// their internal field names, and the caller appends conditions via the
// returned builder.
func buildSelect(qc *federation.EntityQueryConfig) (*selectBuilder, error) {
	if err := extdb.ValidateIdentifier(qc.Table); err != nil {
		return nil, err
	}

	var cols []string
	seen := make(map[string]bool)
	for _, m := range qc.Mappings {
		if m.ExternalField == "" || seen[m.ExternalField] {
			continue
		}
		if err := extdb.ValidateIdentifier(m.ExternalField); err != nil {
			return nil, err
		}
		seen[m.ExternalField] = true
		cols = append(cols, "t."+extdb.QuoteIdentifier(m.ExternalField))
	}

	var joins []string
	for i, j := range qc.Joins {
		if err := extdb.ValidateIdentifier(j.Table); err != nil {
			return nil, err
		}
		if err := extdb.ValidateIdentifier(j.LocalColumn); err != nil {
			return nil, err
		}
		if err := extdb.ValidateIdentifier(j.ForeignColumn); err != nil {
			return nil, err
		}
		alias := fmt.Sprintf("j%d", i)
		for internalField, col := range j.Columns {
			if err := extdb.ValidateIdentifier(internalField); err != nil {
				return nil, err
			}
			if err := extdb.ValidateIdentifier(col); err != nil {
				return nil, err
			}
			cols = append(cols, alias+"."+extdb.QuoteIdentifier(col)+" AS "+extdb.QuoteIdentifier(internalField))
		}
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = t.%s",
			extdb.QuoteIdentifier(j.Table), alias,
			alias, extdb.QuoteIdentifier(j.ForeignColumn),
			extdb.QuoteIdentifier(j.LocalColumn)))
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("no selectable columns for table %s", qc.Table)
	}

	return &selectBuilder{
		base: "SELECT " + strings.Join(cols, ", ") +
			" FROM " + extdb.QuoteIdentifier(qc.Table) + " t" +
			joinClause(joins),
	}, nil
}

func joinClause(joins []string) string {
	if len(joins) == 0 {
		return ""
	}
	return " " + strings.Join(joins, " ")
}

// selectBuilder accumulates WHERE conditions, ordering, and pagination
type selectBuilder struct {
	base    string
	wheres  []string
	args    []any
	orderBy string
	limit   int
	offset  int
}

// WhereEq adds a `t.column = ?` condition
func (b *selectBuilder) WhereEq(column string, value any) error {
	if err := extdb.ValidateIdentifier(column); err != nil {
		return err
	}
	b.wheres = append(b.wheres, "t."+extdb.QuoteIdentifier(column)+" = ?")
	b.args = append(b.args, value)
	return nil
}

// WhereIn adds a `t.column IN (?, ...)` condition
func (b *selectBuilder) WhereIn(column string, values []string) error {
	if err := extdb.ValidateIdentifier(column); err != nil {
		return err
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		b.args = append(b.args, v)
	}
	b.wheres = append(b.wheres, "t."+extdb.QuoteIdentifier(column)+" IN ("+strings.Join(placeholders, ", ")+")")
	return nil
}

// OrderBy sets the ordering column, ascending
func (b *selectBuilder) OrderBy(column string) error {
	if err := extdb.ValidateIdentifier(column); err != nil {
		return err
	}
	b.orderBy = "t." + extdb.QuoteIdentifier(column)
	return nil
}

// Paginate applies LIMIT/OFFSET
func (b *selectBuilder) Paginate(limit, offset int) {
	b.limit = limit
	b.offset = offset
}

// Build renders the final SQL and bind arguments
func (b *selectBuilder) Build() selectQuery {
	sql := b.base
	if len(b.wheres) > 0 {
		sql += " WHERE " + strings.Join(b.wheres, " AND ")
	}
	if b.orderBy != "" {
		sql += " ORDER BY " + b.orderBy
	}
	args := b.args
	if b.limit > 0 {
		sql += " LIMIT ?"
		args = append(args, b.limit)
	}
	if b.offset > 0 {
		sql += " OFFSET ?"
		args = append(args, b.offset)
	}
	return selectQuery{SQL: sql, Args: args}
}
