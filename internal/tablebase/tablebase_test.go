package tablebase

import (
	"testing"

	"github.com/chessplay/engine/internal/board"
)

func TestNoopProber(t *testing.T) {
	prober := NoopProber{}

	if prober.Available() {
		t.Error("NoopProber should not be available")
	}

	if prober.MaxPieces() != 0 {
		t.Errorf("NoopProber MaxPieces should be 0, got %d", prober.MaxPieces())
	}

	pos := board.NewPosition()
	result := prober.Probe(pos)
	if result.Found {
		t.Error("NoopProber should not find anything")
	}

	rootResult := prober.ProbeRoot(pos)
	if rootResult.Found {
		t.Error("NoopProber ProbeRoot should not find anything")
	}
}

func TestCountPieces(t *testing.T) {
	pos := board.NewPosition()
	count := CountPieces(pos)

	// Starting position has 32 pieces
	if count != 32 {
		t.Errorf("Starting position should have 32 pieces, got %d", count)
	}
}

// countingProber wraps NoopProber but counts Probe calls, for verifying
// CachedProber actually serves repeat lookups from its caches instead of
// forwarding to the inner prober every time.
type countingProber struct {
	NoopProber
	calls  int
	result ProbeResult
}

func (p *countingProber) Probe(pos *board.Position) ProbeResult {
	p.calls++
	return p.result
}

// fakeDiskStore is a minimal in-memory diskStore, used so this package's
// tests don't depend on internal/persist and its Badger database.
type fakeDiskStore struct {
	entries map[uint64]ProbeResult
}

func newFakeDiskStore() *fakeDiskStore {
	return &fakeDiskStore{entries: make(map[uint64]ProbeResult)}
}

func (s *fakeDiskStore) SaveProbe(hash uint64, found bool, wdl int8, dtz int16) error {
	s.entries[hash] = ProbeResult{Found: found, WDL: WDL(wdl), DTZ: int(dtz)}
	return nil
}

func (s *fakeDiskStore) LoadProbe(hash uint64) (found, ok bool, wdl int8, dtz int16, err error) {
	r, present := s.entries[hash]
	if !present {
		return false, false, 0, 0, nil
	}
	return r.Found, true, int8(r.WDL), int16(r.DTZ), nil
}

func TestCachedProberMemoryHit(t *testing.T) {
	inner := &countingProber{result: ProbeResult{Found: true, WDL: WDLWin, DTZ: 5}}
	cached := NewCachedProber(inner, 16)

	pos := board.NewPosition()
	first := cached.Probe(pos)
	second := cached.Probe(pos)

	if inner.calls != 1 {
		t.Errorf("expected exactly one inner probe, got %d", inner.calls)
	}
	if first != second {
		t.Errorf("expected identical cached results, got %+v and %+v", first, second)
	}
}

func TestCachedProberDiskSpill(t *testing.T) {
	inner := &countingProber{result: ProbeResult{Found: true, WDL: WDLCursedWin, DTZ: 9}}
	cached := NewCachedProber(inner, 16)
	store := newFakeDiskStore()
	cached.SetStore(store)

	pos := board.NewPosition()
	want := cached.Probe(pos)
	if inner.calls != 1 {
		t.Fatalf("expected one inner probe before restart, got %d", inner.calls)
	}

	// Simulate a process restart: a fresh CachedProber over the same
	// store should serve the result without touching the inner prober.
	restarted := NewCachedProber(inner, 16)
	restarted.SetStore(store)

	got := restarted.Probe(pos)
	if inner.calls != 1 {
		t.Errorf("expected the disk-backed cache to avoid a second inner probe, got %d calls", inner.calls)
	}
	if got != want {
		t.Errorf("disk-backed result mismatch: got %+v, want %+v", got, want)
	}
}

func TestWDLToScore(t *testing.T) {
	tests := []struct {
		wdl      WDL
		ply      int
		positive bool // Should score be positive (winning)?
	}{
		{WDLWin, 0, true},
		{WDLWin, 10, true},
		{WDLCursedWin, 0, true},
		{WDLDraw, 0, false},
		{WDLBlessedLoss, 0, false},
		{WDLLoss, 0, false},
	}

	for _, tc := range tests {
		score := WDLToScore(tc.wdl, tc.ply)
		isPositive := score > 0

		if tc.positive && !isPositive {
			t.Errorf("WDL %d at ply %d should give positive score, got %d", tc.wdl, tc.ply, score)
		}
		if !tc.positive && tc.wdl != WDLDraw && isPositive {
			t.Errorf("WDL %d at ply %d should give non-positive score, got %d", tc.wdl, tc.ply, score)
		}
	}
}
