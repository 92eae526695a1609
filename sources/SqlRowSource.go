package sources

import (
	"context"
	"database/sql"

	"github.com/reaandrew/badchars/core"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// SqlRowSource streams rows of a TableQuery from a database/sql result set.
type SqlRowSource struct {
	rows    *sql.Rows
	dialect Dialect
}

// NewSqlRowSource runs query against db. The rows are pulled lazily by HasNext/Next.
func NewSqlRowSource(ctx context.Context, db *sql.DB, dialect Dialect, query TableQuery) (*SqlRowSource, error) {
	statement, args, err := query.Build(dialect)
	if err != nil {
		return nil, &core.SourceError{Op: "query", Err: err}
	}

	log.Infof("Running: %s", statement)
	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, &core.SourceError{Op: "query", Err: err}
	}
	return &SqlRowSource{rows: rows, dialect: dialect}, nil
}

func (s *SqlRowSource) HasNext() bool {
	return s.rows.Next()
}

func (s *SqlRowSource) Next() (core.Row, error) {
	var pk, value interface{}
	var binary []byte
	if err := s.rows.Scan(&pk, &value, &binary); err != nil {
		return core.Row{}, &core.SourceError{Op: "scan", Err: err}
	}
	return core.Row{
		PrimaryKey: normalize(s.dialect, pk),
		Value:      normalize(s.dialect, value),
		Binary:     core.BytesToSequence(binary),
	}, nil
}

func (s *SqlRowSource) Err() error {
	if err := s.rows.Err(); err != nil {
		return &core.SourceError{Op: "iterate", Err: err}
	}
	return nil
}

func (s *SqlRowSource) Close() error {
	return s.rows.Close()
}

// normalize turns driver byte slices into strings so keys and values print
// and serialise as text. MySQL sessions run in latin1, so their bytes are
// decoded as ISO-8859-1.
func normalize(dialect Dialect, value interface{}) interface{} {
	b, ok := value.([]byte)
	if !ok {
		return value
	}
	if dialect == MySQL {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b); err == nil {
			return string(decoded)
		}
	}
	return string(b)
}
