package sources

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/reaandrew/badchars/core"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"    // Import the SQLite driver
)

// ConnectionSettings carries what the CLI collects about the target database.
// For SQLite, Database is the path of the database file.
type ConnectionSettings struct {
	Dialect  Dialect
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// DSN builds the data source name for the configured driver.
func (c ConnectionSettings) DSN() (string, error) {
	port := c.Port
	if port == 0 {
		port = c.Dialect.DefaultPort()
	}

	switch c.Dialect {
	case MySQL:
		cfg := mysql.NewConfig()
		cfg.User = c.Username
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
		cfg.DBName = c.Database
		// Read the column in the encoding the data was written with.
		cfg.Collation = "latin1_swedish_ci"
		return cfg.FormatDSN(), nil
	case Postgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.Username, c.Password),
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
			Path:   "/" + c.Database,
		}
		return u.String(), nil
	case SQLite:
		if c.Database == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		return c.Database, nil
	}
	return "", fmt.Errorf("unsupported driver: %s", c.Dialect)
}

// Open connects and pings the database. Failures come back as *core.SourceError.
func Open(ctx context.Context, settings ConnectionSettings) (*sql.DB, error) {
	dsn, err := settings.DSN()
	if err != nil {
		return nil, &core.SourceError{Op: "connect", Err: err}
	}

	db, err := sql.Open(settings.Dialect.DriverName(), dsn)
	if err != nil {
		return nil, &core.SourceError{Op: "connect", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &core.SourceError{Op: "connect", Err: err}
	}
	return db, nil
}
