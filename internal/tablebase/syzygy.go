package tablebase

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chessplay/engine/internal/board"
)

// SyzygyProber probes local Syzygy-style tablebase files decoded through
// wdlTable (format.go/huffman.go/index.go/wdl.go). Earlier revisions of
// this package probed the Lichess online tablebase API; this one reads
// ".rtbw" files from disk directly, matching original_source's TB_Syzygy.cpp
// design, which has no network dependency at all.
type SyzygyProber struct {
	path      string
	maxPieces int
	available bool

	mu     sync.RWMutex
	tables map[string]*wdlTable // material signature -> decoded table
	missed map[string]bool      // material signatures confirmed absent
}

// NewSyzygyProber creates a prober rooted at path. If path is empty, uses
// DefaultCacheDir. The directory is scanned for available material
// signatures but tables are decoded lazily on first probe.
func NewSyzygyProber(path string) *SyzygyProber {
	if path == "" {
		path = DefaultCacheDir()
	}
	sp := &SyzygyProber{
		path:   path,
		tables: make(map[string]*wdlTable),
		missed: make(map[string]bool),
	}
	sp.refresh()
	return sp
}

// DefaultCacheDir returns the default local directory for Syzygy files.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./syzygy"
	}
	return filepath.Join(home, ".chessplay", "syzygy")
}

// refresh checks the tablebase directory and records the largest material
// count found so MaxPieces/Available reflect what's actually on disk.
func (sp *SyzygyProber) refresh() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	entries, err := os.ReadDir(sp.path)
	if err != nil {
		sp.available = false
		sp.maxPieces = 0
		log.Printf("[tablebase] no local directory at %s, tablebase probing disabled", sp.path)
		return
	}

	maxPieces := 0
	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".rtbw") {
			continue
		}
		material := strings.TrimSuffix(e.Name(), ".rtbw")
		if n := countPiecesFromName(material); n > maxPieces {
			maxPieces = n
		}
		count++
	}
	sp.maxPieces = maxPieces
	sp.available = count > 0
	if sp.available {
		log.Printf("[tablebase] found %d local table(s) at %s (max %d pieces)", count, sp.path, maxPieces)
	} else {
		log.Printf("[tablebase] no .rtbw files found at %s", sp.path)
	}
}

// SetPath updates the tablebase directory and rescans it, discarding any
// tables already decoded from the previous path.
func (sp *SyzygyProber) SetPath(path string) {
	if path == "" {
		path = DefaultCacheDir()
	}
	sp.mu.Lock()
	sp.path = path
	sp.tables = make(map[string]*wdlTable)
	sp.missed = make(map[string]bool)
	sp.mu.Unlock()
	sp.refresh()
}

// lookupTable returns the decoded table for a material signature, loading
// it from disk on first use and caching both hits and confirmed misses.
func (sp *SyzygyProber) lookupTable(material string) *wdlTable {
	sp.mu.RLock()
	if t, ok := sp.tables[material]; ok {
		sp.mu.RUnlock()
		return t
	}
	if sp.missed[material] {
		sp.mu.RUnlock()
		return nil
	}
	sp.mu.RUnlock()

	path := filepath.Join(sp.path, material+".rtbw")
	t, err := loadWDLTable(path)

	sp.mu.Lock()
	defer sp.mu.Unlock()
	if err != nil {
		sp.missed[material] = true
		return nil
	}
	sp.tables[material] = t
	return t
}

// Probe looks up a position's WDL value in a local table, if one is
// present for its material signature. Positions with pawns or more
// pieces than this reader's Huffman/index layer supports return not-found
// rather than an incorrect guess.
func (sp *SyzygyProber) Probe(pos *board.Position) ProbeResult {
	if CountPieces(pos) > 7 {
		return ProbeResult{Found: false}
	}
	if !pos.Pieces[board.White][board.Pawn].Empty() || !pos.Pieces[board.Black][board.Pawn].Empty() {
		return ProbeResult{Found: false}
	}

	material := positionToMaterial(pos)
	t := sp.lookupTable(material)
	if t == nil {
		return ProbeResult{Found: false}
	}

	idx := tableRowIndex(pos, t)
	wdl, err := t.valueAt(idx)
	if err != nil {
		return ProbeResult{Found: false}
	}
	return ProbeResult{Found: true, WDL: wdl}
}

// ProbeRoot evaluates every legal move and returns the one leading to the
// best WDL result for the side to move, per tablebase convention (lower
// opponent WDL is better for us).
func (sp *SyzygyProber) ProbeRoot(pos *board.Position) RootResult {
	if CountPieces(pos) > 7 {
		return RootResult{Found: false}
	}

	moves := pos.GenerateLegalMoves()
	best := RootResult{Found: false}
	bestWDL := WDL(-3)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		res := sp.Probe(pos)
		pos.UnmakeMove(m, undo)
		if !res.Found {
			continue
		}
		// res.WDL is from the opponent's perspective after our move.
		ourWDL := -res.WDL
		if !best.Found || ourWDL > bestWDL {
			bestWDL = ourWDL
			best = RootResult{Found: true, Move: m, WDL: ourWDL, DTZ: res.DTZ}
		}
	}
	return best
}

// MaxPieces returns the maximum material count this reader will attempt
// to decode, independent of what's actually present on disk.
func (sp *SyzygyProber) MaxPieces() int { return 7 }

// Available returns true if at least one local table was found.
func (sp *SyzygyProber) Available() bool {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.available
}

// LocalMaxPieces returns the max material count actually found on disk.
func (sp *SyzygyProber) LocalMaxPieces() int {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.maxPieces
}

// HasLocalFiles reports whether any table files were found at Path.
func (sp *SyzygyProber) HasLocalFiles() bool { return sp.Available() }

// Path returns the directory this prober reads from.
func (sp *SyzygyProber) Path() string { return sp.path }

// tableRowIndex maps a position's piece placement to a row in t using the
// combinatorial square-set index (index.go), ordering pieces the same way
// t.pieces recorded them when the table was built.
func tableRowIndex(pos *board.Position, t *wdlTable) uint64 {
	squares := make([]int, 0, len(t.pieces))
	seen := make(map[int]bool, len(t.pieces))
	for _, color := range [2]board.Color{board.White, board.Black} {
		for pt := int(board.King); pt >= int(board.Pawn); pt-- {
			bb := pos.Pieces[color][board.PieceType(pt)]
			for bb != 0 {
				sq := bb.PopLSB()
				if !seen[int(sq)] {
					seen[int(sq)] = true
					squares = append(squares, int(sq))
				}
			}
		}
	}
	sortInts(squares)
	if len(squares) > len(t.pieces) {
		squares = squares[:len(t.pieces)]
	}
	return pieceSetIndex(squares)
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// positionToMaterial converts a position to a material key like "KQvKR".
func positionToMaterial(pos *board.Position) string {
	var white, black strings.Builder

	for pt := board.Queen; pt >= board.Pawn; pt-- {
		count := (pos.Pieces[board.White][pt]).PopCount()
		for i := 0; i < count; i++ {
			white.WriteByte(pieceChar(pt))
		}
	}

	for pt := board.Queen; pt >= board.Pawn; pt-- {
		count := (pos.Pieces[board.Black][pt]).PopCount()
		for i := 0; i < count; i++ {
			black.WriteByte(pieceChar(pt))
		}
	}

	return "K" + white.String() + "vK" + black.String()
}

func pieceChar(pt board.PieceType) byte {
	switch pt {
	case board.Queen:
		return 'Q'
	case board.Rook:
		return 'R'
	case board.Bishop:
		return 'B'
	case board.Knight:
		return 'N'
	case board.Pawn:
		return 'P'
	default:
		return '?'
	}
}

// countPiecesFromName counts pieces in a tablebase name like "KQRvKR".
func countPiecesFromName(name string) int {
	count := 0
	for _, c := range strings.ToUpper(name) {
		switch c {
		case 'K', 'Q', 'R', 'B', 'N', 'P':
			count++
		}
	}
	return count
}

// checkLocalFile checks if a tablebase file exists locally.
func (sp *SyzygyProber) checkLocalFile(material string) bool {
	wdlPath := filepath.Join(sp.path, material+".rtbw")
	dtzPath := filepath.Join(sp.path, material+".rtbz")

	_, wdlErr := os.Stat(wdlPath)
	_, dtzErr := os.Stat(dtzPath)

	return wdlErr == nil && dtzErr == nil
}
