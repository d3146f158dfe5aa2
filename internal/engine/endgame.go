package engine

import "github.com/chessplay/engine/internal/board"

// KnownWinScore anchors a recognized closed-form endgame's score comfortably
// above ordinary positional evaluation but well short of MateScore, so search
// still prefers an actual forced mate when one is visible.
const KnownWinScore = 2000

// Closed-form endgame evaluators, grounded on endgame.h's small enumeration
// (Endgame<KXK>, Endgame<KPK>, Endgame<KBNK>, Endgame<KRKP>, ...). The
// original only ships the template/enum declarations; the bodies here are
// standard mating-technique heuristics for the four codes SPEC_FULL.md
// names, not a port of a missing implementation.

// cornerDistance returns how close a square is to the nearest corner,
// used to drive a lone king toward a corner during a mating attack.
func cornerDistance(sq board.Square) int {
	f, r := sq.File(), sq.Rank()
	fileDist := minInt(f, 7-f)
	rankDist := minInt(r, 7-r)
	return fileDist + rankDist
}

// bishopCornerDistance returns how close a square is to a corner that
// matches the given bishop's square color, for KBNK mates (the lone king
// must be driven to a corner the bishop controls).
func bishopCornerDistance(sq, bishopSq board.Square) int {
	lightBishop := (int(bishopSq.File())+bishopSq.Rank())%2 == 1
	distTo := func(corner board.Square) int {
		df := iabs(sq.File() - corner.File())
		dr := iabs(sq.Rank() - corner.Rank())
		return maxInt(df, dr)
	}
	if lightBishop {
		return minInt(distTo(board.A8), distTo(board.H1))
	}
	return minInt(distTo(board.A1), distTo(board.H8))
}

func iabs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// nonPawnMaterialCount returns the knight/bishop/rook/queen count for a side.
func nonPawnMaterialCount(pos *board.Position, c board.Color) (knights, bishops, rooks, queens int) {
	return pos.Pieces[c][board.Knight].PopCount(),
		pos.Pieces[c][board.Bishop].PopCount(),
		pos.Pieces[c][board.Rook].PopCount(),
		pos.Pieces[c][board.Queen].PopCount()
}

// isBareKing reports whether color c has only a king (and possibly pawns).
func isBareKing(pos *board.Position, c board.Color) bool {
	n, b, r, q := nonPawnMaterialCount(pos, c)
	return n+b+r+q == 0
}

// probeEndgame recognizes a handful of closed-form endgames and, when one
// matches, returns a definitive score from White's perspective along with
// true. Callers fall back to the general evaluator otherwise.
func probeEndgame(pos *board.Position) (int, bool) {
	whitePawns := pos.Pieces[board.White][board.Pawn].PopCount()
	blackPawns := pos.Pieces[board.Black][board.Pawn].PopCount()

	// KXK: one side bare, the other has mating material and no pawns.
	if whitePawns == 0 && blackPawns == 0 {
		if isBareKing(pos, board.Black) && !isBareKing(pos, board.White) {
			if v, ok := kxkScore(pos, board.White, board.Black); ok {
				return v, true
			}
		}
		if isBareKing(pos, board.White) && !isBareKing(pos, board.Black) {
			if v, ok := kxkScore(pos, board.Black, board.White); ok {
				return -v, true
			}
		}
	}

	// KBNK: exactly bishop+knight vs bare king.
	if v, ok := kbnkScore(pos, board.White, board.Black); ok {
		return v, true
	}
	if v, ok := kbnkScore(pos, board.Black, board.White); ok {
		return -v, true
	}

	// KPK: lone pawn vs lone king.
	if v, ok := kpkScore(pos, board.White, board.Black); ok {
		return v, true
	}
	if v, ok := kpkScore(pos, board.Black, board.White); ok {
		return -v, true
	}

	// KRKP: rook vs lone pawn.
	if v, ok := krkpScore(pos, board.White, board.Black); ok {
		return v, true
	}
	if v, ok := krkpScore(pos, board.Black, board.White); ok {
		return -v, true
	}

	return 0, false
}

// kxkScore drives the defending bare king to a corner/edge and the
// attacking king close to it, generic "mate the lone king" technique.
func kxkScore(pos *board.Position, strong, weak board.Color) (int, bool) {
	n, b, r, q := nonPawnMaterialCount(pos, strong)
	if n+b+r+q == 0 {
		return 0, false
	}
	// A lone bishop, or one or two knights without a bishop, can't force
	// mate; leave those to the general evaluator.
	if q == 0 && r == 0 && ((b == 0 && n <= 2) || (b == 1 && n == 0)) {
		return 0, false
	}

	material := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		material += pos.Pieces[strong][pt].PopCount() * pieceValues[pt]
	}

	weakKing := pos.KingSquare[weak]
	strongKing := pos.KingSquare[strong]

	score := KnownWinScore + material
	score += (7 - cornerDistance(weakKing)) * 10
	score -= chebyshevDistance(strongKing, weakKing) * 5

	// Returned relative to strong; probeEndgame negates for a Black strong
	// side to convert to White's perspective.
	return score, true
}

// kbnkScore is KBNK's closed form: the lone king is driven to the corner
// matching the bishop's square color.
func kbnkScore(pos *board.Position, strong, weak board.Color) (int, bool) {
	if pos.Pieces[strong][board.Bishop].PopCount() != 1 || pos.Pieces[strong][board.Knight].PopCount() != 1 {
		return 0, false
	}
	n, b, r, q := nonPawnMaterialCount(pos, strong)
	if n != 1 || b != 1 || r != 0 || q != 0 {
		return 0, false
	}
	if !isBareKing(pos, weak) {
		return 0, false
	}
	if pos.Pieces[strong][board.Pawn].PopCount() != 0 || pos.Pieces[weak][board.Pawn].PopCount() != 0 {
		return 0, false
	}

	bishopSq := pos.Pieces[strong][board.Bishop].LSB()
	weakKing := pos.KingSquare[weak]
	strongKing := pos.KingSquare[strong]

	score := KnownWinScore + pieceValues[board.Bishop] + pieceValues[board.Knight]
	score += (7 - bishopCornerDistance(weakKing, bishopSq)) * 10
	score -= chebyshevDistance(strongKing, weakKing) * 5

	// Returned relative to strong; probeEndgame negates for a Black strong
	// side to convert to White's perspective.
	return score, true
}

// kpkScore handles lone-pawn endings with a simplified rule-of-the-square
// plus king-distance check: the pawn wins if the defending king cannot
// reach the queening square in time and is not already blockading.
func kpkScore(pos *board.Position, strong, weak board.Color) (int, bool) {
	if !isBareKing(pos, strong) && nonPawnMaterialMinusPawn(pos, strong) != 0 {
		return 0, false
	}
	if pos.Pieces[strong][board.Pawn].PopCount() != 1 {
		return 0, false
	}
	if !isBareKing(pos, weak) {
		return 0, false
	}

	pawnSq := pos.Pieces[strong][board.Pawn].LSB()
	weakKing := pos.KingSquare[weak]
	strongKing := pos.KingSquare[strong]

	promoRank := 7
	if strong == board.Black {
		promoRank = 0
	}
	promoSq := board.NewSquare(pawnSq.File(), promoRank)

	pawnDist := iabs(promoRank - pawnSq.Rank())
	kingDist := chebyshevDistance(weakKing, promoSq)

	sideToMoveBonus := 0
	if pos.SideToMove == weak {
		sideToMoveBonus = 1
	}

	// Both branches below are returned relative to strong; probeEndgame
	// negates for a Black strong side to convert to White's perspective.
	if kingDist-sideToMoveBonus > pawnDist {
		// Pawn queens unopposed.
		score := KnownWinScore + pieceValues[board.Pawn] - pawnDist*10
		return score, true
	}

	// Rook-pawn draws are common even when the king is in range; leave
	// the ambiguous cases (king in the square, rook pawn) to search
	// rather than asserting a value we can't derive in closed form.
	if pawnSq.File() == 0 || pawnSq.File() == 7 {
		return 0, false
	}
	if chebyshevDistance(strongKing, promoSq) <= chebyshevDistance(weakKing, promoSq) {
		score := KnownWinScore/2 + pieceValues[board.Pawn]
		return score, true
	}

	return 0, false
}

func nonPawnMaterialMinusPawn(pos *board.Position, c board.Color) int {
	n, b, r, q := nonPawnMaterialCount(pos, c)
	return n + b + r + q
}

// krkpScore is the rook-versus-pawn closed form: the rook side wins
// unless the pawn has reached a far-advanced, king-supported square,
// the classic "rule of the pawn's 7th rank" cutoff.
func krkpScore(pos *board.Position, strong, weak board.Color) (int, bool) {
	if pos.Pieces[strong][board.Rook].PopCount() != 1 {
		return 0, false
	}
	n, b, r, q := nonPawnMaterialCount(pos, strong)
	if n != 0 || b != 0 || r != 1 || q != 0 {
		return 0, false
	}
	if pos.Pieces[strong][board.Pawn].PopCount() != 0 {
		return 0, false
	}
	if pos.Pieces[weak][board.Pawn].PopCount() != 1 {
		return 0, false
	}
	if !isBareKing(pos, weak) {
		return 0, false
	}

	pawnSq := pos.Pieces[weak][board.Pawn].LSB()
	weakKing := pos.KingSquare[weak]

	promoRank := 7
	if weak == board.Black {
		promoRank = 0
	}
	advanced := iabs(promoRank-pawnSq.Rank()) <= 1
	kingSupports := chebyshevDistance(weakKing, pawnSq) <= 1

	if advanced && kingSupports {
		// Drawish: the defender's pawn is one step from queening and
		// shielded by its own king; let search resolve the details.
		return 0, false
	}

	// Returned relative to strong; probeEndgame negates for a Black strong
	// side to convert to White's perspective.
	score := KnownWinScore + pieceValues[board.Rook] - pieceValues[board.Pawn]/2
	return score, true
}
