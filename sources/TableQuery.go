package sources

import (
	"fmt"
	"strings"

	"github.com/reaandrew/badchars/core"
)

// TableQuery describes the rows a SqlRowSource reads.
type TableQuery struct {
	Table    string
	PkColumn string
	Column   string
	Bookmark *core.Bookmark
	// OrderBy is optional. Without it rows come back in the store's own order.
	OrderBy string
}

func (q TableQuery) Validate() error {
	if strings.TrimSpace(q.Table) == "" {
		return fmt.Errorf("table name is required")
	}
	if strings.TrimSpace(q.PkColumn) == "" {
		return fmt.Errorf("primary key column is required")
	}
	if strings.TrimSpace(q.Column) == "" {
		return fmt.Errorf("column to check is required")
	}
	return nil
}

// Build renders the SELECT for dialect and the arguments to bind.
func (q TableQuery) Build(dialect Dialect) (string, []interface{}, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	column := dialect.QuoteIdentifier(q.Column)
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s, %s, %s AS binary_offender FROM %s",
		dialect.QuoteIdentifier(q.PkColumn),
		column,
		dialect.BinaryExpression(column),
		dialect.QuoteIdentifier(q.Table))

	var args []interface{}
	if q.Bookmark.IsSet() {
		fmt.Fprintf(&sb, " WHERE %s > %s", dialect.QuoteIdentifier(q.Bookmark.Column), dialect.Placeholder(1))
		args = append(args, q.Bookmark.Value)
	}
	if q.OrderBy != "" {
		fmt.Fprintf(&sb, " ORDER BY %s", dialect.QuoteIdentifier(q.OrderBy))
	}
	return sb.String(), args, nil
}
