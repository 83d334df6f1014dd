package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketHistory = "history"

// BoltStore keeps history in a bbolt bucket keyed by big-endian sequence
// numbers, so cursor order is insertion order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHistory))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketHistory)).ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding history record %d: %w", unmarshalSeq(k), err)
			}
			records = append(records, r)
			return nil
		})
	})
	return records, err
}

func (s *BoltStore) Save(records []Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketHistory)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucketHistory))
		if err != nil {
			return err
		}
		for _, r := range records {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			v, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := b.Put(marshalSeq(seq), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
