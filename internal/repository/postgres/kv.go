package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// KVStore implements repository.PartitionStore on PostgreSQL
type KVStore struct {
	db *sql.DB
}

// NewKVStore creates a new partition store
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Connect connects to PostgreSQL with retries
func Connect(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// Read returns the blob stored under key
func (r *KVStore) Read(key repository.Key) ([]byte, error) {
	query := `
		SELECT value FROM kv
		WHERE kind = $1 AND native_lang = $2 AND target_lang = $3
	`
	var value []byte
	err := r.db.QueryRow(query, string(key.Kind), key.Partition.Native, key.Partition.Target).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Write upserts or deletes all entries in one transaction
func (r *KVStore) Write(entries ...repository.Entry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	upsert := `
		INSERT INTO kv (kind, native_lang, target_lang, value, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (kind, native_lang, target_lang)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	remove := `
		DELETE FROM kv
		WHERE kind = $1 AND native_lang = $2 AND target_lang = $3
	`

	for _, e := range entries {
		k := e.Key
		if e.Value == nil {
			_, err = tx.Exec(remove, string(k.Kind), k.Partition.Native, k.Partition.Target)
		} else {
			// JSONB takes text input
			_, err = tx.Exec(upsert, string(k.Kind), k.Partition.Native, k.Partition.Target, string(e.Value))
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
			return err
		}
	}

	return tx.Commit()
}

// Partitions lists partitions holding a blob of kind
func (r *KVStore) Partitions(kind repository.Kind) ([]domain.Partition, error) {
	query := `
		SELECT native_lang, target_lang
		FROM kv
		WHERE kind = $1 AND native_lang <> '' AND target_lang <> ''
		ORDER BY native_lang, target_lang
	`

	rows, err := r.db.Query(query, string(kind))
	if err != nil {
		return nil, err
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
func (r *KVStore) Ping() error {
	return r.db.Ping()
}
