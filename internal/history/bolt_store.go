package history

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	resultBucket = "results"
	// value layout: 8 bytes big-endian expiry unix seconds + 1 outcome byte
	recordValueBytes = 9

	outcomePassedByte = byte(1)
	outcomeFailedByte = byte(2)
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	outcomeTTL      time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(resultBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		outcomeTTL:      opts.OutcomeTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// LastOutcome returns the most recently recorded outcome for the check, if any.
func (b *boltStore) LastOutcome(checkID string) (domain.Outcome, bool, error) {
	if b == nil || b.db == nil {
		return "", false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return "", false, err
	}

	var (
		outcome domain.Outcome
		known   bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}

		key := []byte(checkID)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, out, ok := decodeRecord(value)
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		outcome = out
		known = true
		return nil
	})
	return outcome, known, err
}

// RecordOutcome stores the outcome for the check with a fresh TTL.
func (b *boltStore) RecordOutcome(checkID string, outcome domain.Outcome) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}
		buf := make([]byte, recordValueBytes)
		binary.BigEndian.PutUint64(buf, uint64(now.Add(b.outcomeTTL).Unix()))
		buf[8] = encodeOutcome(outcome)
		return bucket.Put([]byte(checkID), buf)
	})
}

// maybeCleanupExpired removes stale records on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resultBucket))
		if bucket == nil {
			return fmt.Errorf("result bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeRecord(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeOutcome(outcome domain.Outcome) byte {
	if outcome == domain.OutcomePassed {
		return outcomePassedByte
	}
	return outcomeFailedByte
}

// decodeRecord decodes the expiry time and outcome from the stored byte slice.
func decodeRecord(value []byte) (time.Time, domain.Outcome, bool) {
	if len(value) != recordValueBytes {
		return time.Time{}, "", false
	}
	unix := int64(binary.BigEndian.Uint64(value[:8]))
	if unix <= 0 {
		return time.Time{}, "", false
	}

	var outcome domain.Outcome
	switch value[8] {
	case outcomePassedByte:
		outcome = domain.OutcomePassed
	case outcomeFailedByte:
		outcome = domain.OutcomeFailed
	default:
		return time.Time{}, "", false
	}
	return time.Unix(unix, 0), outcome, true
}
