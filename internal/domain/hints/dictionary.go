package hints

import (
	"fmt"
	"sort"
)

// Dictionary is a set of unique terms kept in insertion order.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

// NewDictionary creates a dictionary from entries, in the given order.
func NewDictionary(entries ...Entry) (*Dictionary, error) {
	d := &Dictionary{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := d.Add(e); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DictionaryFromMap builds a dictionary from a term -> [canonical, hint] map.
// Keys are inserted in sorted order so that ties in length are deterministic.
func DictionaryFromMap(m map[string][2]string) *Dictionary {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := &Dictionary{index: make(map[string]int, len(m))}
	for _, k := range keys {
		v := m[k]
		d.index[k] = len(d.entries)
		d.entries = append(d.entries, Entry{Term: k, Canonical: v[0], Hint: v[1]})
	}
	return d
}

// Add appends an entry. Adding a term that is already present fails with
// ErrDuplicateTerm.
func (d *Dictionary) Add(e Entry) error {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, ok := d.index[e.Term]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTerm, e.Term)
	}
	d.index[e.Term] = len(d.entries)
	d.entries = append(d.entries, e)
	return nil
}

// Lookup returns the entry for term.
func (d *Dictionary) Lookup(term string) (Entry, bool) {
	i, ok := d.index[term]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Len returns the number of terms.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns the entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Ordered returns the entries longest term first (in characters). Terms of
// equal length keep their insertion order. Longer phrases must be matched
// before the shorter terms they contain.
func (d *Dictionary) Ordered() []Entry {
	out := d.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return runeLen(out[i].Term) > runeLen(out[j].Term)
	})
	return out
}
