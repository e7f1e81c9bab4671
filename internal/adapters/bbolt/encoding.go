// Binary encoding for stored dictionaries.
//
// Format v1 (little-endian):
//
//	version:    uint8 (1)
//	updatedAt:  int64
//	entryCount: uint32
//	per entry, three length-prefixed strings (term, canonical, hint):
//	  len:   uint32
//	  bytes: [len]byte
package bbolt

import (
	"encoding/binary"
	"fmt"

	"github.com/aden1s/ruphrasehints/internal/ports"
)

const formatV1 = 1

// headerSize is version + updatedAt + entryCount.
const headerSize = 1 + 8 + 4

// encodeDictionary encodes entries in their stored order. A single buffer is
// pre-allocated to avoid repeated growth.
func encodeDictionary(dict *ports.StoredDictionary) ([]byte, error) {
	totalSize := headerSize
	for _, e := range dict.Entries {
		totalSize += 12 + len(e.Term) + len(e.Canonical) + len(e.Hint)
	}

	buf := make([]byte, totalSize)
	buf[0] = formatV1
	offset := 1
	binary.LittleEndian.PutUint64(buf[offset:], uint64(dict.UpdatedAt))
	offset += 8
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(dict.Entries)))
	offset += 4

	for _, e := range dict.Entries {
		if e.Term == "" {
			return nil, fmt.Errorf("empty term")
		}
		for _, s := range [3]string{e.Term, e.Canonical, e.Hint} {
			binary.LittleEndian.PutUint32(buf[offset:], uint32(len(s)))
			offset += 4
			copy(buf[offset:], s)
			offset += len(s)
		}
	}
	return buf, nil
}

// decodeDictionary decodes a stored dictionary. Every read is bounds-checked
// to avoid panics on corrupt data.
func decodeDictionary(data []byte) (*ports.StoredDictionary, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("dictionary record too short: %d bytes", len(data))
	}
	if data[0] != formatV1 {
		return nil, fmt.Errorf("unknown dictionary format %d", data[0])
	}
	offset := 1
	updatedAt := int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	readString := func(i uint32) (string, error) {
		if offset+4 > len(data) {
			return "", fmt.Errorf("truncated at entry %d length (offset %d)", i, offset)
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		if n < 0 || offset+n > len(data) {
			return "", fmt.Errorf("truncated at entry %d (offset %d, need %d)", i, offset, n)
		}
		s := string(data[offset : offset+n])
		offset += n
		return s, nil
	}

	// Each entry needs at least 12 bytes; reject counts the data cannot hold.
	if uint64(count)*12 > uint64(len(data)-offset) {
		return nil, fmt.Errorf("entry count %d exceeds record size", count)
	}

	dict := &ports.StoredDictionary{
		UpdatedAt: updatedAt,
		Entries:   make([]ports.TermEntry, 0, count),
	}
	for i := uint32(0); i < count; i++ {
		var fields [3]string
		for f := range fields {
			s, err := readString(i)
			if err != nil {
				return nil, err
			}
			fields[f] = s
		}
		dict.Entries = append(dict.Entries, ports.TermEntry{
			Term:      fields[0],
			Canonical: fields[1],
			Hint:      fields[2],
		})
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after %d entries", len(data)-offset, count)
	}
	return dict, nil
}
