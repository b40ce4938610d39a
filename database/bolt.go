package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shopclock/models"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket         = []byte("time_tracking")
	boltEntriesKey     = []byte("time_entries")
	boltAdjustmentsKey = []byte("time_adjustments")
)

// BoltRepository keeps each collection as a single JSON document under a fixed key.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(path string) (*BoltRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) LoadTimeEntries(ctx context.Context) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := r.get(boltEntriesKey, &entries); err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	return entries, nil
}

func (r *BoltRepository) SaveTimeEntries(ctx context.Context, entries []models.TimeEntry) error {
	if err := r.put(boltEntriesKey, entries); err != nil {
		return fmt.Errorf("save time entries: %w", err)
	}
	return nil
}

func (r *BoltRepository) LoadAdjustments(ctx context.Context) ([]models.TimeAdjustment, error) {
	var adjustments []models.TimeAdjustment
	if err := r.get(boltAdjustmentsKey, &adjustments); err != nil {
		return nil, fmt.Errorf("load adjustments: %w", err)
	}
	return adjustments, nil
}

func (r *BoltRepository) SaveAdjustments(ctx context.Context, adjustments []models.TimeAdjustment) error {
	if err := r.put(boltAdjustmentsKey, adjustments); err != nil {
		return fmt.Errorf("save adjustments: %w", err)
	}
	return nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func (r *BoltRepository) get(key []byte, v interface{}) error {
	return r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(boltBucket).Get(key)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, v)
	})
}

func (r *BoltRepository) put(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put(key, data)
	})
}
