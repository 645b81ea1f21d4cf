// Package sqlite stores partition blobs in a local SQLite database using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	_ "modernc.org/sqlite"
)

// KVStore implements repository.PartitionStore
type KVStore struct {
	db *sql.DB
}

// NewKVStore creates a store over an open database with the kv table migrated
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Open opens (or creates) the database file at path
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single writer keeps read-modify-write of one blob serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}

	return db, nil
}

// Read returns the blob stored under key
func (s *KVStore) Read(key repository.Key) ([]byte, error) {
	query := `
		SELECT value FROM kv
		WHERE kind = ? AND native_lang = ? AND target_lang = ?
	`
	var value []byte
	err := s.db.QueryRow(query, string(key.Kind), key.Partition.Native, key.Partition.Target).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key.Kind, err)
	}
	return value, nil
}

// Write upserts or deletes all entries in one transaction
func (s *KVStore) Write(entries ...repository.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO kv (kind, native_lang, target_lang, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (kind, native_lang, target_lang)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	remove := `DELETE FROM kv WHERE kind = ? AND native_lang = ? AND target_lang = ?`

	for _, e := range entries {
		k := e.Key
		if e.Value == nil {
			_, err = tx.Exec(remove, string(k.Kind), k.Partition.Native, k.Partition.Target)
		} else {
			_, err = tx.Exec(upsert, string(k.Kind), k.Partition.Native, k.Partition.Target, e.Value)
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", k.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Partitions lists partitions that hold a blob of kind
func (s *KVStore) Partitions(kind repository.Kind) ([]domain.Partition, error) {
	query := `
		SELECT native_lang, target_lang FROM kv
		WHERE kind = ? AND native_lang <> '' AND target_lang <> ''
		ORDER BY native_lang, target_lang
	`
	rows, err := s.db.Query(query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	defer rows.Close()

	var partitions []domain.Partition
	for rows.Next() {
		var p domain.Partition
		if err := rows.Scan(&p.Native, &p.Target); err != nil {
			return nil, err
		}
		partitions = append(partitions, p)
	}

	return partitions, rows.Err()
}

// Ping checks the database connection
func (s *KVStore) Ping() error {
	return s.db.Ping()
}
