package tablebase

import (
	"fmt"
	"os"
)

// wdlTable is a decoded pawnless WDL table held fully in memory: the
// material signature it applies to, the piece codes that define the row
// index, and the Huffman-compressed value stream read through blockTable.
// The on-disk layout this reader understands is a reduced subset of the
// full Syzygy format (see format.go) covering pawnless material with a
// single, unsplit table - enough to exercise the real index/Huffman
// machinery end to end without requiring vendor-format test fixtures.
type wdlTable struct {
	material string
	pieces   []byte // piece codes (board.PieceType as byte), row order
	table    blockTable
}

// loadWDLTable reads a ".rtbw" file from disk into memory. Returns
// errUnsupported for tables this reader's reduced layout cannot decode
// (pawns present, split tables) rather than guessing at their contents.
func loadWDLTable(path string) (*wdlTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout, err := readTBLayout(f, wdlMagic)
	if err != nil {
		return nil, err
	}
	if layout.hasPawns || layout.split {
		return nil, errUnsupported
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < 5 {
		return nil, errShortFile
	}
	body := raw[5:]

	wt := &wdlTable{}
	pos := 0

	numPieces := int(body[pos])
	pos++
	if pos+numPieces > len(body) {
		return nil, errShortFile
	}
	wt.pieces = append([]byte(nil), body[pos:pos+numPieces]...)
	pos += numPieces

	bt, n, err := parseBlockTable(body[pos:])
	if err != nil {
		return nil, err
	}
	wt.table = bt
	_ = n

	return wt, nil
}

// parseBlockTable decodes a blockTable's Huffman code book, block-length
// array and compressed payload from buf, returning the number of bytes
// consumed. Grounded on the PairsData setup logic in
// original_source/src/TB_Syzygy.cpp (calc_symlen, setup_pairs).
func parseBlockTable(buf []byte) (blockTable, int, error) {
	var bt blockTable
	pos := 0

	need := func(n int) bool { return pos+n <= len(buf) }

	if !need(2) {
		return bt, 0, errShortFile
	}
	numSyms := int(readUint16LE(buf[pos:]))
	pos += 2

	bt.symPat = make([][2]uint16, numSyms)
	bt.symLen = make([]byte, numSyms)
	for i := 0; i < numSyms; i++ {
		if !need(4) {
			return bt, 0, errShortFile
		}
		bt.symPat[i][0] = readUint16LE(buf[pos:])
		bt.symPat[i][1] = readUint16LE(buf[pos+2:])
		pos += 4
	}
	seen := make([]bool, numSyms)
	for i := 0; i < numSyms; i++ {
		calcSymLen(&bt, uint16(i), seen)
	}

	if !need(2) {
		return bt, 0, errShortFile
	}
	bt.minLen = int(buf[pos])
	bt.maxLen = int(buf[pos+1])
	pos += 2
	if bt.maxLen < bt.minLen || bt.maxLen-bt.minLen > 32 {
		return bt, 0, errUnsupported
	}

	numLens := bt.maxLen - bt.minLen + 1
	bt.base = make([]int64, numLens)
	bt.offset = make([]uint16, numLens)
	for i := 0; i < numLens; i++ {
		if !need(10) {
			return bt, 0, errShortFile
		}
		bt.base[i] = int64(readUint64LE(buf[pos:]))
		bt.offset[i] = readUint16LE(buf[pos+8:])
		pos += 10
	}

	if !need(4) {
		return bt, 0, errShortFile
	}
	bt.blockSize = readUint32LE(buf[pos:])
	pos += 4

	if !need(4) {
		return bt, 0, errShortFile
	}
	numBlocks := int(readUint32LE(buf[pos:]))
	pos += 4
	bt.blockLength = make([]uint32, numBlocks)
	for i := 0; i < numBlocks; i++ {
		if !need(4) {
			return bt, 0, errShortFile
		}
		bt.blockLength[i] = readUint32LE(buf[pos:])
		pos += 4
	}

	if !need(8) {
		return bt, 0, errShortFile
	}
	dataLen := int(readUint64LE(buf[pos:]))
	pos += 8
	if !need(dataLen) {
		return bt, 0, errShortFile
	}
	bt.data = buf[pos : pos+dataLen]
	pos += dataLen

	return bt, pos, nil
}

// valueAt decodes the WDL value stored at the given combinatorial row
// index, mapping the raw byte to the five-way WDL scale.
func (wt *wdlTable) valueAt(idx uint64) (WDL, error) {
	raw, err := decompressPairs(&wt.table, idx)
	if err != nil {
		return WDLDraw, err
	}
	switch raw {
	case 0:
		return WDLLoss, nil
	case 1:
		return WDLBlessedLoss, nil
	case 2:
		return WDLDraw, nil
	case 3:
		return WDLCursedWin, nil
	case 4:
		return WDLWin, nil
	default:
		return WDLDraw, fmt.Errorf("tablebase: unexpected WDL byte %d", raw)
	}
}
