// Package metadata is the SQLite key/value table used as the client's
// persistent store, together with its change log.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/dbx"
)

// sqliteTime matches the layout SQLite uses for CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value, origin string) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return err
		}
		return appendChange(ctx, tx, key, &value, origin)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key, origin string) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
			return err
		}
		return appendChange(ctx, tx, key, nil, origin)
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func appendChange(ctx context.Context, tx dbx.DBTX, key string, value *string, origin string) error {
	var v sql.NullString
	if value != nil {
		v = sql.NullString{String: *value, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO storage_events (key, value, origin) VALUES (?, ?, ?)`, key, v, origin)
	return err
}

func (r *SQLiteRepository) LastChangeID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM storage_events`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get last change id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ChangesSince(ctx context.Context, afterID int64, origin string) ([]Change, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, key, value, origin FROM storage_events
		WHERE id > ? AND origin <> ?
		ORDER BY id
	`, afterID, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}
	defer rows.Close()

	var result []Change
	for rows.Next() {
		var (
			c Change
			v sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Key, &v, &c.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan change row: %w", err)
		}
		if v.Valid {
			value := v.String
			c.Value = &value
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate change rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) PruneChanges(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storage_events WHERE created_at < ?`, before.UTC().Format(sqliteTime))
	if err != nil {
		return fmt.Errorf("failed to prune changes: %w", err)
	}
	return nil
}
