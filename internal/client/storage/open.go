package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/migrations"
	"github.com/dmitrijs2005/myjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// changeRetention bounds how long change log records are kept.
const changeRetention = 24 * time.Hour

// Open returns a SQLiteStore for path, or a MemoryStore when the file cannot
// be opened or migrated. The choice is made here and never revisited.
func Open(ctx context.Context, path string, log logging.Logger) Store {
	s, err := OpenSQLite(ctx, path, log)
	if err != nil {
		log.Warn(ctx, "persistent store unavailable, falling back to memory", "path", path, "error", err)
		return NewMemoryStore()
	}
	return s
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations.
func OpenSQLite(ctx context.Context, path string, log logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	repo := metadata.NewSQLiteRepository(db)
	if err := repo.PruneChanges(ctx, time.Now().Add(-changeRetention)); err != nil {
		log.Warn(ctx, "change log pruning failed", "error", err)
	}

	return NewSQLiteStore(db, repo, uuid.NewString(), log), nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
