// Package bbolt implements the ports.DictionaryStore interface using bbolt
// (embedded B+ tree). Every dictionary is one record in the "dictionaries"
// bucket, keyed by name and encoded in the compact binary format from
// encoding.go. Writes are transactional: a crash mid-write cannot corrupt
// previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aden1s/ruphrasehints/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketDictionaries = []byte("dictionaries")
)

// ErrEmptyName is returned when saving a dictionary without a name.
var ErrEmptyName = errors.New("dictionary name is empty")

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDictionary persists a dictionary, replacing any prior one with the
// same name. UpdatedAt is set to the current time.
func (s *Store) SaveDictionary(dict *ports.StoredDictionary) error {
	if dict == nil {
		return fmt.Errorf("nil dictionary")
	}
	if dict.Name == "" {
		return ErrEmptyName
	}
	dict.UpdatedAt = s.now().Unix()

	data, err := encodeDictionary(dict)
	if err != nil {
		return fmt.Errorf("encode dictionary %q: %w", dict.Name, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDictionaries)
		if err != nil {
			return err
		}
		return b.Put([]byte(dict.Name), data)
	})
}

// LoadDictionary retrieves a dictionary by name.
// Returns nil, nil if no dictionary with that name exists.
func (s *Store) LoadDictionary(name string) (*ports.StoredDictionary, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	dict, err := decodeDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("decode dictionary %q: %w", name, err)
	}
	dict.Name = name
	return dict, nil
}

// ListDictionaries returns the stored dictionary names in sorted order.
func (s *Store) ListDictionaries() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DeleteDictionary removes a dictionary.
// Idempotent: deleting a nonexistent dictionary is not an error.
func (s *Store) DeleteDictionary(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}
