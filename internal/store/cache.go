package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveCollection replaces the cached payload for key.
func (db *DB) SaveCollection(key string, payload []byte) error {
	_, err := db.Exec(`
		INSERT INTO collection_cache (entity, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}

// LoadCollection returns the cached payload for key, or nil if none was saved.
func (db *DB) LoadCollection(key string) (*CachedCollection, error) {
	var (
		payload   []byte
		fetchedAt int64
	)
	err := db.QueryRow(`SELECT payload, fetched_at FROM collection_cache WHERE entity = ?`, key).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", key, err)
	}
	return &CachedCollection{Key: key, Payload: payload, FetchedAt: time.UnixMilli(fetchedAt)}, nil
}

// ClearCollections drops every cached list. Used on logout.
func (db *DB) ClearCollections() error {
	_, err := db.Exec(`DELETE FROM collection_cache`)
	return err
}
