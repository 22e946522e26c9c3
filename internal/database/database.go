// Package database persists metadata lookups across restarts using bbolt.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755
)

var metaBucket = []byte("meta")

// MetaCache is a cached metadata lookup for one media identifier.
type MetaCache struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Genres    []string  `json:"genres,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Database defines the persistence operations used by the metadata client.
type Database interface {
	GetCachedMeta(id string) (*MetaCache, error)
	StoreMetaCache(cache *MetaCache) error
	Close() error
}

// BoltDB implements Database on top of a bbolt file.
type BoltDB struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBolt opens (creating if needed) the bbolt database at path. Entries
// older than ttl are treated as absent.
func NewBolt(path string, ttl time.Duration) (*BoltDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(path, dbFileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltDB{db: db, ttl: ttl}, nil
}

// GetCachedMeta returns the cached metadata for id, or (nil, nil) when the
// entry is missing or expired.
func (b *BoltDB) GetCachedMeta(id string) (*MetaCache, error) {
	var cached *MetaCache
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		var mc MetaCache
		if err := json.Unmarshal(data, &mc); err != nil {
			return fmt.Errorf("failed to decode cached meta: %w", err)
		}
		if b.ttl > 0 && time.Since(mc.CreatedAt) > b.ttl {
			return nil
		}
		cached = &mc
		return nil
	})
	return cached, err
}

// StoreMetaCache writes the metadata entry, stamping CreatedAt if unset.
func (b *BoltDB) StoreMetaCache(cache *MetaCache) error {
	if cache.CreatedAt.IsZero() {
		cache.CreatedAt = time.Now()
	}
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to encode meta cache: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte(cache.ID), data)
	})
}

// Close closes the underlying bbolt file.
func (b *BoltDB) Close() error {
	return b.db.Close()
}
