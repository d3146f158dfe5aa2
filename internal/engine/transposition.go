package engine

import (
	"encoding/binary"
	"errors"

	"github.com/chessplay/engine/internal/board"
)

var (
	errShortTTBlob    = errors.New("transposition: truncated persisted table")
	errTTSizeMismatch = errors.New("transposition: persisted cluster count does not match table size")
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// depthOffset mirrors DEP_OFFSET: stored depths are biased so that
// quiescence depth 0 and small negative depths still fit in d08.
const depthOffset = -6

// clusterSize is TCluster::EntryCount: 3 ten-byte entries packed into a
// 32-byte cluster (30 bytes of entries + 2 bytes padding), sized so a
// cluster fits a single cache line fetch.
const clusterSize = 3

// TTEntry is the decoded view of a packed entry returned to callers.
// It does not reflect the in-memory layout, which is ttEntry below.
type TTEntry struct {
	Key      uint32
	BestMove board.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	PV       bool
}

// ttEntry is TEntry: a 16-bit key fingerprint, 16-bit move, 16-bit value,
// 16-bit static eval, 8-bit depth-offset and an 8-bit
// generation|pv|bound byte. 10 bytes total.
type ttEntry struct {
	k16 uint16
	m16 uint16
	v16 int16
	e16 int16
	d08 uint8
	g08 uint8 // generation (top 5 bits) | pv (bit 2) | bound (bits 0-1)
}

func (e *ttEntry) generation() uint8 { return e.g08 & 0xF8 }
func (e *ttEntry) isPV() bool        { return e.g08&0x04 != 0 }
func (e *ttEntry) bound() TTFlag     { return TTFlag(e.g08 & 0x03) }
func (e *ttEntry) depth() int8       { return int8(e.d08) + depthOffset }
func (e *ttEntry) occupied() bool    { return e.k16 != 0 || e.d08 != 0 || e.g08 != 0 }

// save implements TEntry::save: the move is preserved unless the
// fingerprint changed or a real move is offered, and the rest of the
// entry is only overwritten when the fingerprint differs, the new search
// went deeper by more than 4 plies, or the new bound is exact.
func (e *ttEntry) save(key16 uint16, m board.Move, v, ev int16, d int8, b TTFlag, pv bool, generation uint8) {
	if m != board.NoMove || e.k16 != key16 {
		e.m16 = uint16(m)
	}
	if e.k16 != key16 || int8(e.d08) < int8(d-depthOffset)+4 || b == TTExact {
		e.k16 = key16
		e.v16 = v
		e.e16 = ev
		e.d08 = uint8(d - depthOffset)
		pvBit := uint8(0)
		if pv {
			pvBit = 1
		}
		e.g08 = (generation & 0xF8) | pvBit<<2 | uint8(b)
	}
}

// ttCluster is TCluster: three entries sharing one hash slot.
type ttCluster struct {
	entries [clusterSize]ttEntry
	_       [2]byte // pads the cluster to 32 bytes
}

// probe returns the entry whose fingerprint matches (nil if none), plus
// the replacement victim to use on a miss. Victim value follows the
// literal formula: depth - 8*(generation==current) - 4*(bound==EXACT);
// the entry with the lowest value is evicted first.
func (c *ttCluster) probe(key16 uint16, generation uint8) (hit *ttEntry, victim *ttEntry) {
	victim = &c.entries[0]
	victimValue := ttVictimValue(victim, generation)

	for i := range c.entries {
		e := &c.entries[i]
		if !e.occupied() {
			return nil, e
		}
		if e.k16 == key16 {
			return e, e
		}
		v := ttVictimValue(e, generation)
		if v < victimValue {
			victimValue = v
			victim = e
		}
	}
	return nil, victim
}

func ttVictimValue(e *ttEntry, generation uint8) int {
	v := int(e.depth())
	if e.generation() == generation {
		v -= 8
	}
	if e.bound() == TTExact {
		v -= 4
	}
	return v
}

// TranspositionTable is a hash table of clusters, each holding
// clusterSize entries.
type TranspositionTable struct {
	clusters []ttCluster
	mask     uint64
	age      uint8

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const clusterBytes = 32 // sizeof(TCluster): 3*10 + 2 padding
	numClusters := (uint64(sizeMB) * 1024 * 1024) / clusterBytes

	numClusters = roundDownToPowerOf2(numClusters)
	if numClusters == 0 {
		numClusters = 1
	}

	return &TranspositionTable{
		clusters: make([]ttCluster, numClusters),
		mask:     numClusters - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (tt *TranspositionTable) cluster(hash uint64) *ttCluster {
	return &tt.clusters[hash&tt.mask]
}

// Probe looks up a position in the transposition table.
// Returns the entry and true if found, otherwise returns empty entry and false.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	key16 := uint16(hash >> 48)
	c := tt.cluster(hash)

	hit, _ := c.probe(key16, tt.age)
	if hit == nil {
		return TTEntry{}, false
	}

	tt.hits++
	return TTEntry{
		Key:      uint32(hash >> 32),
		BestMove: board.Move(hit.m16),
		Score:    hit.v16,
		Depth:    hit.depth(),
		Flag:     hit.bound(),
		PV:       hit.isPV(),
	}, true
}

// Store saves a position in the transposition table, replacing the least
// valuable entry in its cluster per TCluster's victim selection.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	key16 := uint16(hash >> 48)
	c := tt.cluster(hash)

	_, victim := c.probe(key16, tt.age)
	victim.save(key16, bestMove, int16(score), 0, int8(depth), flag, isPV, tt.age)
}

// NewSearch increments the age counter for a new search.
// This helps with replacement decisions.
func (tt *TranspositionTable) NewSearch() {
	tt.age += 8
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(tt.clusters)) {
		sampleSize = len(tt.clusters)
	}

	for i := 0; i < sampleSize; i++ {
		for j := range tt.clusters[i].entries {
			e := &tt.clusters[i].entries[j]
			if e.occupied() && e.generation() == tt.age {
				used++
			}
		}
	}

	return (used * 1000) / (sampleSize * clusterSize)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of clusters in the table.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.clusters))
}

// AdjustScoreFromTT adjusts a score read from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// ttEntrySize is the on-disk size of one packed ttEntry (no C-struct
// padding, since this format round-trips only through persist.Store).
const ttEntrySize = 10

// Bytes serializes the table to TTable::operator<<'s layout, adapted for
// Go: a 4-byte cluster count, a 1-byte generation, then every cluster's
// entries packed back-to-back in chunks of 4096 clusters (mirroring the
// reference implementation's BufferSize streaming writes, though here
// everything lands in one in-memory buffer for a single Badger value).
func (tt *TranspositionTable) Bytes() []byte {
	const chunk = 4096
	buf := make([]byte, 5+len(tt.clusters)*clusterSize*ttEntrySize)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(tt.clusters)))
	buf[4] = tt.age

	off := 5
	for base := 0; base < len(tt.clusters); base += chunk {
		end := base + chunk
		if end > len(tt.clusters) {
			end = len(tt.clusters)
		}
		for i := base; i < end; i++ {
			for j := range tt.clusters[i].entries {
				e := &tt.clusters[i].entries[j]
				binary.LittleEndian.PutUint16(buf[off:], e.k16)
				binary.LittleEndian.PutUint16(buf[off+2:], e.m16)
				binary.LittleEndian.PutUint16(buf[off+4:], uint16(e.v16))
				binary.LittleEndian.PutUint16(buf[off+6:], uint16(e.e16))
				buf[off+8] = e.d08
				buf[off+9] = e.g08
				off += ttEntrySize
			}
		}
	}
	return buf
}

// LoadBytes restores a table previously serialized with Bytes. The
// cluster count must match this table's current size (no resize on
// load); a mismatch is reported rather than silently truncated.
func (tt *TranspositionTable) LoadBytes(data []byte) error {
	if len(data) < 5 {
		return errShortTTBlob
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	if uint64(count) != uint64(len(tt.clusters)) {
		return errTTSizeMismatch
	}
	tt.age = data[4]

	off := 5
	for i := range tt.clusters {
		for j := range tt.clusters[i].entries {
			if off+ttEntrySize > len(data) {
				return errShortTTBlob
			}
			e := &tt.clusters[i].entries[j]
			e.k16 = binary.LittleEndian.Uint16(data[off:])
			e.m16 = binary.LittleEndian.Uint16(data[off+2:])
			e.v16 = int16(binary.LittleEndian.Uint16(data[off+4:]))
			e.e16 = int16(binary.LittleEndian.Uint16(data[off+6:]))
			e.d08 = data[off+8]
			e.g08 = data[off+9]
			off += ttEntrySize
		}
	}
	return nil
}
