package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Dialect names a supported database engine.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// ParseDialect accepts the --driver values.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported driver: %s", name)
}

// DriverName is the name the driver registers with database/sql.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite3"
	default:
		return "mysql"
	}
}

// DefaultPort is used when no port is given.
func (d Dialect) DefaultPort() int {
	switch d {
	case Postgres:
		return 5432
	case SQLite:
		return 0
	default:
		return 3306
	}
}

// QuoteIdentifier quotes each dot-separated part of name.
func (d Dialect) QuoteIdentifier(name string) string {
	quote := `"`
	if d == MySQL {
		quote = "`"
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quote + strings.ReplaceAll(part, quote, quote+quote) + quote
	}
	return strings.Join(parts, ".")
}

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// BinaryExpression coerces column to its raw bytes.
func (d Dialect) BinaryExpression(column string) string {
	switch d {
	case Postgres:
		return fmt.Sprintf("convert_to(%s::text, 'LATIN1')", column)
	case SQLite:
		return fmt.Sprintf("CAST(%s AS BLOB)", column)
	default:
		return fmt.Sprintf("CONVERT(%s USING binary)", column)
	}
}

// FormatKey renders a primary key as a literal the dialect compares in the
// same order as the column itself.
func (d Dialect) FormatKey(key interface{}) string {
	t, ok := key.(time.Time)
	if !ok {
		return fmt.Sprint(key)
	}
	switch d {
	case Postgres:
		return t.Format(time.RFC3339Nano)
	case SQLite:
		return t.Format(sqlite3.SQLiteTimestampFormats[0])
	default:
		return t.Format("2006-01-02 15:04:05.999999")
	}
}
