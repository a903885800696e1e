package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT entry_value FROM kv_entry WHERE entry_key = $1`

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		err := fmt.Errorf("could not query entry %s: %w", key, err)
		log.Error(err)
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value string) error {
	query := `INSERT INTO kv_entry (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
			  ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`

	_, err := s.db.Exec(ctx, query, key, value, time.Now().UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store entry %s: %w", key, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entry WHERE entry_key = $1`
	_, err := s.db.Exec(ctx, query, key)
	if err != nil {
		err := fmt.Errorf("could not delete entry %s: %w", key, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT entry_key FROM kv_entry WHERE entry_key LIKE $1 ESCAPE '\' ORDER BY entry_key COLLATE "C"`

	rows, err := s.db.Query(ctx, query, escapeLike(prefix)+"%")
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
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
