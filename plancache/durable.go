package plancache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
)

var plansBucket = []byte("plans")

// Summary is the durable, warm-start-only record kept per digest: enough
// to tell a cold planner it has seen this query shape before and what it
// cost, without ever persisting an executable operator tree (a Node is
// only ever valid for the process that built it — see catalog.Entity /
// catalog.Index pointer identity baked into plancache.Digest).
type Summary struct {
	Score float64 `json:"score"`
	Shape string  `json:"shape"`
}

// DurableStore is a BoltDB-backed warm-start layer for the in-memory
// plan Cache: Put/Get work the same shape as Cache's own map, but survive
// a process restart. A planner wires one in optionally; a nil *DurableStore
// degrades every call to a no-op miss, matching the in-memory Cache's own
// "capacity<=0 disables eviction" ambient-config convention.
type DurableStore struct {
	db *bolt.DB
}

// OpenDurableStore opens (creating if absent) a BoltDB file at path and
// ensures the plans bucket exists.
func OpenDurableStore(path string) (*DurableStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("plancache: open durable store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(plansBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DurableStore{db: db}, nil
}

func (s *DurableStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the warm-start Summary for digest, if the store was ever
// told about it.
func (s *DurableStore) Get(digest uint64) (Summary, bool, error) {
	if s == nil {
		return Summary{}, false, nil
	}
	var sum Summary
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(plansBucket)
		v := b.Get(digestKey(digest))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &sum)
	})
	return sum, found, err
}

// Put records the Summary for digest, overwriting any prior entry.
func (s *DurableStore) Put(digest uint64, sum Summary) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(plansBucket).Put(digestKey(digest), data)
	})
}

func digestKey(digest uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, digest)
	return b
}
