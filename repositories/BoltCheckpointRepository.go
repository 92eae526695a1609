package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/reaandrew/badchars/core"
	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var checkpointBucket = []byte("checkpoints")

// BoltCheckpointRepository implements core.CheckpointRepository on a bbolt file.
type BoltCheckpointRepository struct {
	db *bolt.DB
}

// NewBoltCheckpointRepository opens (or creates) the checkpoint file at path.
func NewBoltCheckpointRepository(path string) (core.CheckpointRepository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(checkpointBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create checkpoint bucket: %w", err)
	}

	return &BoltCheckpointRepository{db: db}, nil
}

func checkpointKey(table, pkColumn, column string) []byte {
	return []byte(table + "\x00" + pkColumn + "\x00" + column)
}

// Load returns the checkpoint for one table column, if there is one.
func (r *BoltCheckpointRepository) Load(table, pkColumn, column string) (core.Checkpoint, bool, error) {
	var checkpoint core.Checkpoint
	found := false

	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(checkpointBucket).Get(checkpointKey(table, pkColumn, column))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &checkpoint); err != nil {
			return fmt.Errorf("failed to parse checkpoint for %s.%s: %w", table, column, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return core.Checkpoint{}, false, err
	}
	return checkpoint, found, nil
}

// Store overwrites the checkpoint for the checkpoint's table column.
func (r *BoltCheckpointRepository) Store(checkpoint core.Checkpoint) error {
	data, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(checkpointBucket).Put(
			checkpointKey(checkpoint.Table, checkpoint.PkColumn, checkpoint.Column), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store checkpoint: %w", err)
	}
	log.Debugf("Stored checkpoint %s.%s at key %s", checkpoint.Table, checkpoint.Column, checkpoint.LastKey)
	return nil
}

// Clear forgets the checkpoint for one table column.
func (r *BoltCheckpointRepository) Clear(table, pkColumn, column string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(checkpointBucket).Delete(checkpointKey(table, pkColumn, column))
	})
	if err != nil {
		return fmt.Errorf("failed to clear checkpoint for %s.%s: %w", table, column, err)
	}
	return nil
}

// Close closes the underlying bbolt file.
func (r *BoltCheckpointRepository) Close() error {
	return r.db.Close()
}
