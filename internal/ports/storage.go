// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// DictionaryStore persists named term dictionaries to durable storage.
// The backing store (bbolt) keeps one record per dictionary name. Concurrent
// reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveDictionary must be transactional. A crash mid-write must
// not corrupt previously committed dictionaries.
type DictionaryStore interface {
	// SaveDictionary persists the dictionary under dict.Name.
	// Overwrites any prior dictionary with the same name.
	SaveDictionary(dict *StoredDictionary) error

	// LoadDictionary retrieves a dictionary by name.
	// Returns nil, nil if no dictionary with that name exists.
	LoadDictionary(name string) (*StoredDictionary, error)

	// ListDictionaries returns the names of all stored dictionaries, sorted.
	ListDictionaries() ([]string, error)

	// DeleteDictionary removes a dictionary.
	// Idempotent: deleting a nonexistent dictionary is not an error.
	DeleteDictionary(name string) error
}

// TermEntry is one dictionary row: the term searched for in the text, the
// canonical (base) form carried into the hint, and the hint text itself.
type TermEntry struct {
	Term      string `json:"term"`
	Canonical string `json:"canonical"`
	Hint      string `json:"hint"`
}

// StoredDictionary is a named, ordered list of entries. Entry order is the
// insertion order; it breaks ties between terms of equal length.
type StoredDictionary struct {
	Name      string
	Entries   []TermEntry
	UpdatedAt int64 // unix seconds
}
