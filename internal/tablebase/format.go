package tablebase

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Syzygy on-disk magic numbers. WDL and DTZ files share a layout but use
// distinct magics so a reader can tell them apart without trusting the file
// extension. Grounded on original_source/src/TB_Syzygy.cpp's file-open
// checks (WDL_MAGIC / DTZ_MAGIC).
var (
	wdlMagic = [4]byte{0x71, 0xE8, 0x23, 0x5D}
	dtzMagic = [4]byte{0xD7, 0x66, 0x0C, 0xA5}
)

var (
	errShortFile  = fmt.Errorf("tablebase: file too short")
	errBadMagic   = fmt.Errorf("tablebase: bad magic number")
	errUnsupported = fmt.Errorf("tablebase: unsupported table layout")
)

// tbLayout is the common prefix of every Syzygy WDL/DTZ file: a 4-byte
// magic followed by a single flags byte. Bit 0 marks a table with pawns
// (out of scope for this reader), bit 1 marks a split table (WDL/DTZ
// stored as two halves for symmetric material).
type tbLayout struct {
	hasPawns bool
	split    bool
}

func readTBLayout(f *os.File, magic [4]byte) (tbLayout, error) {
	var hdr [5]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return tbLayout{}, errShortFile
	}
	if [4]byte{hdr[0], hdr[1], hdr[2], hdr[3]} != magic {
		return tbLayout{}, errBadMagic
	}
	flags := hdr[4]
	return tbLayout{
		hasPawns: flags&1 != 0,
		split:    flags&2 != 0,
	}, nil
}

// blockTable describes the compressed-symbol-stream layout for one side
// (white-to-move or black-to-move) of a pawnless WDL/DTZ table: the
// canonical Huffman code book plus a sparse index used to binary-search
// which compressed block holds a given linear position index. Field names
// mirror original_source/src/TB_Syzygy.cpp's PairsData struct.
type blockTable struct {
	blockSize   uint32
	idxBits     uint32
	minLen      int
	maxLen      int
	base        []int64  // decode base value per code length, indexed from minLen up
	offset      []uint16 // index into symLen/symPat per code length
	symLen      []byte   // recursive expansion length - 1, per symbol
	symPat      [][2]uint16
	blockLength []uint32 // number of leaf values encoded in each block
	data        []byte   // compressed bytes for this table
}

// readUint16LE/readUint32LE/readUint64LE decode the little-endian integers
// the Syzygy format uses throughout its header and index sections.
func readUint16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func readUint32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func readUint64LE(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
