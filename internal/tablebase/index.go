package tablebase

// binomial[n][k] = C(n, k), precomputed up to 64 squares for the piece-
// placement index math Syzygy tables use to turn a set of occupied
// squares into a dense table row. Grounded on original_source/src/
// TB_Syzygy.cpp's subfactor/binomial helper used throughout setup_piece_dtz.
var binomial [65][8]uint64

func init() {
	for n := 0; n <= 64; n++ {
		binomial[n][0] = 1
		for k := 1; k < 8 && k <= n; k++ {
			binomial[n][k] = binomial[n-1][k-1] + prevBinomial(n-1, k)
		}
	}
}

func prevBinomial(n, k int) uint64 {
	if k >= 8 || n < 0 {
		return 0
	}
	return binomial[n][k]
}

// combination returns C(n, k) from the precomputed table, 0 outside range.
func combination(n, k int) uint64 {
	if k < 0 || k > 7 || n < 0 || n > 64 {
		return 0
	}
	return binomial[n][k]
}

// pieceSetIndex computes the combinatorial index of an ordered set of
// distinct squares (0-63) among 64 squares, the lexicographic-rank scheme
// Syzygy uses to pack a piece's occupied squares into the table's row
// index. squares must be in increasing order.
func pieceSetIndex(squares []int) uint64 {
	var idx uint64
	for i, sq := range squares {
		idx += combination(sq, i+1)
	}
	return idx
}

// maxPieceSetIndex returns one past the largest index pieceSetIndex can
// produce for n pieces chosen from 64 squares, used to size decode tables.
func maxPieceSetIndex(n int) uint64 {
	return combination(64, n)
}
