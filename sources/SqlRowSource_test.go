package sources

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/reaandrew/badchars/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCustomersDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ConnectionSettings{
		Dialect:  SQLite,
		Database: filepath.Join(t.TempDir(), "customers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE customers (id INTEGER PRIMARY KEY, name BLOB)`)
	require.NoError(t, err)

	rows := []struct {
		id   int
		name []byte
	}{
		{1, []byte{99, 97, 102, 233}},
		{2, []byte{99, 97, 141}},
		{3, nil},
	}
	for _, row := range rows {
		_, err = db.Exec(`INSERT INTO customers (id, name) VALUES (?, ?)`, row.id, row.name)
		require.NoError(t, err)
	}
	return db
}

func collect(t *testing.T, source core.RowSource) []core.Row {
	t.Helper()
	var rows []core.Row
	for source.HasNext() {
		row, err := source.Next()
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, source.Err())
	require.NoError(t, source.Close())
	return rows
}

func TestSqlRowSourceYieldsEveryRow(t *testing.T) {
	db := createCustomersDB(t)

	source, err := NewSqlRowSource(context.Background(), db, SQLite, TableQuery{
		Table:    "customers",
		PkColumn: "id",
		Column:   "name",
		OrderBy:  "id",
	})
	require.NoError(t, err)

	rows := collect(t, source)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].PrimaryKey)
	assert.Equal(t, core.ByteSequence{99, 97, 102, 233}, rows[0].Binary)
	assert.Equal(t, string([]byte{99, 97, 141}), rows[1].Value)
	assert.Equal(t, core.ByteSequence{99, 97, 141}, rows[1].Binary)
	assert.Nil(t, rows[2].Value)
	assert.Nil(t, rows[2].Binary)
}

func TestSqlRowSourceHonoursBookmark(t *testing.T) {
	db := createCustomersDB(t)

	source, err := NewSqlRowSource(context.Background(), db, SQLite, TableQuery{
		Table:    "customers",
		PkColumn: "id",
		Column:   "name",
		Bookmark: &core.Bookmark{Column: "id", Value: "1"},
		OrderBy:  "id",
	})
	require.NoError(t, err)

	rows := collect(t, source)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].PrimaryKey)
	assert.Equal(t, int64(3), rows[1].PrimaryKey)
}

func TestSqlRowSourceReportsQueryFailures(t *testing.T) {
	db := createCustomersDB(t)

	_, err := NewSqlRowSource(context.Background(), db, SQLite, TableQuery{
		Table:    "missing_table",
		PkColumn: "id",
		Column:   "name",
	})

	var sourceErr *core.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, "query", sourceErr.Op)
}

func TestNormalizeDecodesMySQLBytesAsLatin1(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		value    interface{}
		expected interface{}
	}{
		{"mysql latin1 bytes", MySQL, []byte{0x63, 0x61, 0x66, 0xE9}, "café"},
		{"mysql control range", MySQL, []byte{0x63, 0x61, 0x8D}, "ca\u008d"},
		{"sqlite bytes kept", SQLite, []byte{0x63, 0x61, 0x66}, "caf"},
		{"integer key", MySQL, int64(7), int64(7)},
		{"null", MySQL, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.dialect, tt.value)
			assert.Equal(t, tt.expected, got)
			if s, ok := got.(string); ok && tt.dialect == MySQL {
				assert.True(t, utf8.ValidString(s))
			}
		})
	}
}
