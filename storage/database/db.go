package database

import (
	"context"
	"embed"
	"io/fs"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver returns the database/sql driver name of a database URL.
// postgres:// and postgresql:// URLs use lib/pq, anything else is a sqlite file.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Open connects to the database at dsn and waits for it to be ready.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	driver := Driver(dsn)
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies the pending migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	provider, err := goose.NewProvider(dialect(db), db.DB, migrationsFS())
	if err != nil {
		return errors.Wrap(err, "loading migrations")
	}
	if _, err = provider.Up(ctx); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

func migrationsFS() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err) // the directory is embedded
	}
	return sub
}

func dialect(db *sqlx.DB) goose.Dialect {
	if db.DriverName() == "postgres" {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}
