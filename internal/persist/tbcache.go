package persist

import (
	"encoding/binary"
)

// tbCachePrefix namespaces tablebase probe-result keys within the shared
// Badger store, keyed by Zobrist hash so repeated isready/position/probe
// cycles across process restarts reuse already-decoded WDL/DTZ results.
const tbCachePrefix = "tb:"

func tbCacheKey(hash uint64) []byte {
	key := make([]byte, len(tbCachePrefix)+8)
	copy(key, tbCachePrefix)
	binary.LittleEndian.PutUint64(key[len(tbCachePrefix):], hash)
	return key
}

// SaveProbe persists one tablebase probe result: whether it was found,
// its WDL value, and its DTZ.
func (s *Store) SaveProbe(hash uint64, found bool, wdl int8, dtz int16) error {
	buf := make([]byte, 4)
	if found {
		buf[0] = 1
	}
	buf[1] = byte(wdl)
	binary.LittleEndian.PutUint16(buf[2:], uint16(dtz))
	return s.set(string(tbCacheKey(hash)), buf)
}

// LoadProbe retrieves a previously persisted probe result for hash.
func (s *Store) LoadProbe(hash uint64) (found, ok bool, wdl int8, dtz int16, err error) {
	data, present, err := s.get(string(tbCacheKey(hash)))
	if err != nil || !present {
		return false, false, 0, 0, err
	}
	if len(data) < 4 {
		return false, false, 0, 0, nil
	}
	found = data[0] != 0
	wdl = int8(data[1])
	dtz = int16(binary.LittleEndian.Uint16(data[2:]))
	return found, true, wdl, dtz, nil
}
