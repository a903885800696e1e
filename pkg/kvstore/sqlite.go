package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// SQLiteStore keeps entries in the kv_entry table of a database/sql handle opened with modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT entry_value FROM kv_entry WHERE entry_key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		err := fmt.Errorf("could not query entry %s: %w", key, err)
		log.Error(err)
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	query := `INSERT INTO kv_entry (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, key, value, time.Now().UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entry WHERE entry_key = ?`
	_, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		err := fmt.Errorf("could not delete entry %s: %w", key, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT entry_key FROM kv_entry WHERE entry_key LIKE ? ESCAPE '\' ORDER BY entry_key`

	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		err := fmt.Errorf("could not query keys: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0, 10)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		// LIKE ignores ASCII case in SQLite
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
