package board

import "github.com/chessplay/engine/internal/assertx"

// GenType selects which subset of moves a generator call produces. These
// mirror the staged move-generation categories a modern alpha-beta search
// asks for explicitly instead of always generating "everything then filter".
type GenType int

const (
	GenCaptures    GenType = iota // captures, plus queen promotions (quiet or not)
	GenQuiets                     // non-capture, non-queen-promotion moves
	GenQuietChecks                // quiet moves that give check
	GenEvasions                   // moves when the side to move is in check
	GenNatural                    // captures + quiets, used when not in check
	GenLegal                      // everything, legality-filtered
)

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.Generate(GenLegal)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		p.generateEvasions(ml)
	} else {
		p.generateAllMoves(ml)
	}
	return ml
}

// GenerateCaptures generates capture moves (plus quiet queen promotions),
// legality-filtered.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		p.generateEvasions(ml)
		return p.filterByCapture(p.filterLegalMoves(ml), true)
	}
	p.generateCaptures(ml)
	return p.filterLegalMoves(ml)
}

// GenerateQuiets generates non-capture, non-queen-promotion moves,
// legality-filtered.
func (p *Position) GenerateQuiets() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		evasions := NewMoveList()
		p.generateEvasions(evasions)
		return p.filterByCapture(p.filterLegalMoves(evasions), false)
	}
	p.generateQuiets(ml)
	return p.filterLegalMoves(ml)
}

// GenerateQuietChecks generates quiet moves that give check, legality-filtered.
// Generate(GenQuietChecks) returns this list.
func (p *Position) GenerateQuietChecks() *MoveList {
	quiets := p.GenerateQuiets()
	result := NewMoveList()
	for i := 0; i < quiets.Len(); i++ {
		m := quiets.Get(i)
		if p.givesCheck(m) {
			result.Add(m)
		}
	}
	return result
}

// Generate dispatches to the generator matching gt, returning pseudo-legal
// moves for GenNatural and legality-filtered moves for every other type.
func (p *Position) Generate(gt GenType) *MoveList {
	switch gt {
	case GenCaptures:
		return p.GenerateCaptures()
	case GenQuiets:
		return p.GenerateQuiets()
	case GenQuietChecks:
		return p.GenerateQuietChecks()
	case GenEvasions:
		ml := NewMoveList()
		p.generateEvasions(ml)
		return p.filterLegalMoves(ml)
	case GenNatural:
		ml := NewMoveList()
		p.generateAllMoves(ml)
		return ml
	default:
		ml := NewMoveList()
		if p.InCheck() {
			p.generateEvasions(ml)
		} else {
			p.generateAllMoves(ml)
		}
		return p.filterLegalMoves(ml)
	}
}

func (p *Position) filterByCapture(ml *MoveList, captures bool) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		isCap := m.IsCapture(p) || (m.IsPromotion() && m.Promotion() == Queen)
		if isCap == captures {
			result.Add(m)
		}
	}
	return result
}

// generateAllMoves generates all pseudo-legal moves (captures + quiets).
func (p *Position) generateAllMoves(ml *MoveList) {
	p.generateCaptures(ml)
	p.generateQuiets(ml)
}

// generateQuiets generates non-capture, non-queen-promotion pseudo-legal
// moves, including castling.
func (p *Position) generateQuiets(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	empty := ^occupied

	pawns := p.Pieces[us][Pawn]
	var push1, push2 Bitboard
	var promotionRank Bitboard
	var pushDir int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}
	// Under-promotions on a push are generated here; queen pushes live in
	// generateCaptures (they're handled there for quiescence purposes).
	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewPromotion(from, to, Rook))
		ml.Add(NewPromotion(from, to, Bishop))
		ml.Add(NewPromotion(from, to, Knight))
	}

	for pt := Knight; pt <= King; pt++ {
		if pt == King {
			continue
		}
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			attacks := p.pieceAttacks(pt, from, occupied) & empty
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(NewMove(from, to))
			}
		}
	}

	from := p.KingSquare[us]
	attacks := KingAttacks(from) & empty
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}

	p.generateCastlingMoves(ml, us)
}

func (p *Position) pieceAttacks(pt PieceType, sq Square, occ Bitboard) Bitboard {
	switch pt {
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return KingAttacks(sq)
	}
	return 0
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateCastlingMoves generates castling moves, Chess960-aware: the rook's
// home square comes from CastlingRookSquare rather than a hardcoded A/H file,
// and both the "path must be empty" squares and the "king's path must not be
// attacked" squares are derived from king/rook from/to squares rather than
// literal e1/f1/g1-style constants.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	kingFrom := p.KingSquare[us]

	tryCastle := func(cr CastlingRights, kingSide bool) {
		if p.CastlingRights&cr == 0 {
			return
		}
		idx := castlingRightIndex(cr)
		rookFrom := p.CastlingRookSquare[idx]
		rank := kingFrom.Rank()

		var kingTo, rookTo Square
		if kingSide {
			kingTo = NewSquare(6, rank) // g-file
			rookTo = NewSquare(5, rank) // f-file
		} else {
			kingTo = NewSquare(2, rank) // c-file
			rookTo = NewSquare(3, rank) // d-file
		}

		// Squares that must be vacant, excluding the king's and rook's own
		// current squares (which will be vacated by this very move).
		path := (Between(kingFrom, kingTo) | SquareBB(kingTo) | Between(rookFrom, rookTo) | SquareBB(rookTo))
		path &^= SquareBB(kingFrom) | SquareBB(rookFrom)
		if path&p.AllOccupied != 0 {
			return
		}

		// King must not pass through or land on an attacked square.
		kingPath := Between(kingFrom, kingTo) | SquareBB(kingFrom) | SquareBB(kingTo)
		for sq := kingPath; sq != 0; {
			s := sq.PopLSB()
			if p.IsSquareAttacked(s, them) {
				return
			}
		}

		ml.Add(NewCastling(kingFrom, kingTo))
	}

	if us == White {
		tryCastle(WhiteKingSideCastle, true)
		tryCastle(WhiteQueenSideCastle, false)
	} else {
		tryCastle(BlackKingSideCastle, true)
		tryCastle(BlackQueenSideCastle, false)
	}
}

// generateCaptures generates captures and queen promotions (quiet or not).
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	pawns := p.Pieces[us][Pawn]
	var attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to))
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to)
	}

	// Quiet queen promotions are included here: a promotion zeroes the
	// half-move clock the same as a capture, so quiescence wants it too.
	empty := ^occupied
	var push1 Bitboard
	if us == White {
		push1 = pawns.North() & empty & Rank8
	} else {
		push1 = pawns.South() & empty & Rank1
	}
	for push1 != 0 {
		to := push1.PopLSB()
		ml.Add(NewPromotion(Square(int(to)-pushDir), to, Queen))
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			attacks := p.pieceAttacks(pt, from, occupied) & enemies
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(NewMove(from, to))
			}
		}
	}

	from := p.KingSquare[us]
	attacks := KingAttacks(from) & enemies
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

// generateEvasions generates pseudo-legal moves when the side to move is in
// check: if in double check only the king may move, otherwise the king may
// move, the checker may be captured, or (for a sliding checker) a piece may
// interpose between the checker and the king.
func (p *Position) generateEvasions(ml *MoveList) {
	us := p.SideToMove
	ksq := p.KingSquare[us]
	checkers := p.Checkers

	// King moves, always legal-candidate regardless of check count.
	kingMoves := KingAttacks(ksq) &^ p.Occupied[us]
	occWithoutKing := p.AllOccupied &^ SquareBB(ksq)
	for kingMoves != 0 {
		to := kingMoves.PopLSB()
		if p.AttackersByColor(to, us.Other(), occWithoutKing) == 0 {
			ml.Add(NewMove(ksq, to))
		}
	}

	if checkers.More() {
		return // double check: only the king can move
	}

	checkerSq := checkers.LSB()
	target := Between(checkerSq, ksq) | checkers // block or capture squares

	pseudo := NewMoveList()
	p.generateAllMoves(pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if m.From() == ksq {
			continue // already handled above
		}
		if m.IsEnPassant() {
			capSq := m.To()
			if us == White {
				capSq -= 8
			} else {
				capSq += 8
			}
			if capSq == checkerSq || target&SquareBB(m.To()) != 0 {
				ml.Add(m)
			}
			continue
		}
		if target&SquareBB(m.To()) != 0 {
			ml.Add(m)
		}
	}
}

// filterLegalMoves filters out illegal moves (those that leave king in check).
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.legal(m) {
			result.Add(m)
		}
	}

	return result
}

// IsLegal returns true if the move is legal (doesn't leave king in check).
func (p *Position) IsLegal(m Move) bool {
	return p.legal(m)
}

// PseudoLegal reports whether m could plausibly be played in the current
// position: a piece of the side to move sits on the origin square. Search
// uses this to sanity-check a transposition-table move before trying it,
// since a TT hit can be a move from an unrelated position with the same key.
func (p *Position) PseudoLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	piece := p.PieceAt(m.From())
	return piece != NoPiece && piece.Color() == p.SideToMove
}

// MakeMove applies a move to the position and returns undo information.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		PliesFromNull:  p.PliesFromNull,
		Hash:           p.Hash,
		PawnKey:        p.PawnKey,
		Checkers:       p.Checkers,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece {
		return undo
	}

	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare
	p.PliesFromNull++

	if m.IsEnPassant() {
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]
	if pt == Pawn {
		p.PawnKey ^= zobristPiece[us][Pawn][from]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsCastling() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = p.castlingRookSquareFor(us, true)
			rookTo = NewSquare(5, rank)
		} else {
			rookFrom = p.castlingRookSquareFor(us, false)
			rookTo = NewSquare(3, rank)
		}
		// In the Chess960 "king takes rook" encoding `to` may equal rookFrom;
		// vacate the rook's square before placing the king so they don't
		// collide when king and rook destinations overlap source squares.
		p.removePiece(rookFrom)
		p.setPiece(NewPiece(Rook, us), rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	for _, cr := range [4]CastlingRights{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle} {
		if p.CastlingRights&cr == 0 {
			continue
		}
		idx := castlingRightIndex(cr)
		rookSq := p.CastlingRookSquare[idx]
		if from == rookSq || to == rookSq {
			p.CastlingRights &^= cr
		}
	}

	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.updateCheckInfo()

	assertx.Holds(p.Hash == p.ComputeHash(), "MakeMove: incremental hash %d diverged from from-scratch hash %d after %s", p.Hash, p.ComputeHash(), m)

	return undo
}

// castlingRookSquareFor returns the rook's home square for the given side's
// king-side (kingSide=true) or queen-side castling right.
func (p *Position) castlingRookSquareFor(us Color, kingSide bool) Square {
	var cr CastlingRights
	switch {
	case us == White && kingSide:
		cr = WhiteKingSideCastle
	case us == White && !kingSide:
		cr = WhiteQueenSideCastle
	case us == Black && kingSide:
		cr = BlackKingSideCastle
	default:
		cr = BlackQueenSideCastle
	}
	return p.CastlingRookSquare[castlingRightIndex(cr)]
}

// UnmakeMove undoes a move using the stored undo information.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.PliesFromNull = undo.PliesFromNull
	p.Hash = undo.Hash
	p.PawnKey = undo.PawnKey
	p.Checkers = undo.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = p.castlingRookSquareFor(us, true)
			rookTo = NewSquare(5, rank)
		} else {
			rookFrom = p.castlingRookSquareFor(us, false)
			rookTo = NewSquare(3, rank)
		}
		p.removePiece(rookTo)
		p.setPiece(NewPiece(Rook, us), rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			var capturedSq Square
			if us == White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
			p.setPiece(undo.CapturedPiece, capturedSq)
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}

	p.updateCheckInfo()
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	var ml *MoveList
	if p.InCheck() {
		ml = NewMoveList()
		p.generateEvasions(ml)
	} else {
		ml = p.GeneratePseudoLegalMoves()
	}
	for i := 0; i < ml.Len(); i++ {
		if p.legal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw (stalemate, 50-move, insufficient material).
// Repetition is tracked externally by search and is not considered here.
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}

	return false
}
