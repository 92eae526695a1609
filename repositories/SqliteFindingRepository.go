package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/reaandrew/badchars/core"
	log "github.com/sirupsen/logrus"
)

// SqliteFindingRepository keeps findings in a throwaway SQLite file so that
// summaries can be computed with SQL instead of in memory.
type SqliteFindingRepository struct {
	db *sql.DB
}

// OffenceCount is one row of the per-value summary.
type OffenceCount struct {
	Value int `json:"value"`
	Rows  int `json:"rows"`
}

// NewSqliteFindingRepository creates a new SQLite-backed repository.
// Any existing file at dbPath is replaced.
func NewSqliteFindingRepository(dbPath string) (*SqliteFindingRepository, error) {
	db, err := InitializeSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &SqliteFindingRepository{db: db}, nil
}

// InitializeSQLiteDB opens (or creates) the SQLite DB and applies the findings schema.
func InitializeSQLiteDB(dbPath string) (*sql.DB, error) {
	if err := DeleteDatabaseFileIfExists(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// One-shot load, durability is not needed.
	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = OFF;")

	createStmt := `CREATE TABLE IF NOT EXISTS Findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		PrimaryKey TEXT,
		ColumnName TEXT,
		Decoded TEXT,
		OffendingIndex INTEGER,
		OffendingValue INTEGER,
		DecodeError TEXT,
		Binary TEXT
	);`

	if _, err := db.Exec(createStmt); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create findings table: %w", err)
	}

	return db, nil
}

// Store inserts findings in a single transaction.
func (r *SqliteFindingRepository) Store(findings []core.Finding) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO Findings (PrimaryKey, ColumnName, Decoded, OffendingIndex, OffendingValue, DecodeError, Binary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, finding := range findings {
		binary, jErr := json.Marshal(finding.Binary)
		if jErr != nil {
			log.Printf("Failed to marshal binary value for row '%v': %v", finding.PrimaryKey, jErr)
			binary = []byte("[]")
		}

		_, execErr := stmt.Exec(
			fmt.Sprint(finding.PrimaryKey),
			finding.Column,
			finding.Decoded,
			finding.OffendingIndex,
			finding.OffendingValue,
			finding.DecodeError,
			string(binary),
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert finding for row '%v': %w", finding.PrimaryKey, execErr)
		}
	}

	return nil
}

// CountByOffendingValue groups findings by the byte value that flagged them.
func (r *SqliteFindingRepository) CountByOffendingValue() ([]OffenceCount, error) {
	rows, err := r.db.Query(`
		SELECT OffendingValue, COUNT(*)
		FROM Findings
		GROUP BY OffendingValue
		ORDER BY COUNT(*) DESC, OffendingValue ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise findings: %w", err)
	}
	defer rows.Close()

	counts := []OffenceCount{}
	for rows.Next() {
		var count OffenceCount
		if err := rows.Scan(&count.Value, &count.Rows); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary iteration error: %w", err)
	}
	return counts, nil
}

// Close closes the underlying SQLite database.
func (r *SqliteFindingRepository) Close() error {
	return r.db.Close()
}

func DeleteDatabaseFileIfExists(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check if file exists at path %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path %s is a directory, not a file", path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete database file at path %s: %w", path, err)
	}

	return nil
}
