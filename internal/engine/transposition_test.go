package engine

import (
	"testing"

	"github.com/chessplay/engine/internal/board"
)

func TestTranspositionStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0x1234_5678_9abc_def0)
	tt.Store(hash, 6, 123, TTExact, board.Move(42), true)

	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("expected a hit after Store")
	}
	if entry.Score != 123 || entry.Depth != 6 || entry.Flag != TTExact || entry.BestMove != board.Move(42) || !entry.PV {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestTranspositionClusterReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)

	// Fill a cluster (3 slots) with entries sharing the same bucket but
	// different 16-bit fingerprints, and check the deepest exact entry
	// survives eviction rather than being overwritten by a shallow one.
	base := uint64(0)
	deepHash := base | (uint64(1) << 48)
	tt.Store(deepHash, 20, 500, TTExact, board.Move(1), false)

	for i := 2; i < 20; i++ {
		h := base | (uint64(i) << 48)
		tt.Store(h, 1, 10, TTUpperBound, board.Move(i), false)
	}

	if _, ok := tt.Probe(deepHash); !ok {
		t.Error("deep exact entry should survive shallow replacements into the same cluster")
	}
}

func TestTranspositionBytesRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0xaaaa, 4, 77, TTLowerBound, board.Move(7), false)
	tt.NewSearch()

	blob := tt.Bytes()

	tt2 := NewTranspositionTable(1)
	if err := tt2.LoadBytes(blob); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	entry, ok := tt2.Probe(0xaaaa)
	if !ok {
		t.Fatal("expected entry to survive a Bytes/LoadBytes round trip")
	}
	if entry.Score != 77 || entry.Depth != 4 || entry.Flag != TTLowerBound {
		t.Errorf("unexpected entry after round trip: %+v", entry)
	}
}

func TestTranspositionLoadBytesSizeMismatch(t *testing.T) {
	tt := NewTranspositionTable(1)
	blob := tt.Bytes()

	bigger := NewTranspositionTable(2)
	if err := bigger.LoadBytes(blob); err == nil {
		t.Error("expected a size mismatch error loading a blob from a differently sized table")
	}
}

func TestTranspositionClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0xbeef, 3, 1, TTExact, board.Move(2), false)
	tt.Clear()

	if _, ok := tt.Probe(0xbeef); ok {
		t.Error("expected empty table after Clear")
	}
}
