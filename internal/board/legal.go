package board

// legal reports whether a pseudo-legal move leaves the moving side's own
// king in check. Grounded on Stockfish/DON's Position::legal: pin-aware,
// so it avoids a make/unmake round trip for the common case of an unpinned
// piece moving anywhere.
func (p *Position) legal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	ksq := p.KingSquare[us]

	if m.IsEnPassant() {
		capSq := to
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occ := (p.AllOccupied &^ SquareBB(from) &^ SquareBB(capSq)) | SquareBB(to)
		return (RookAttacks(ksq, occ)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) == 0) &&
			(BishopAttacks(ksq, occ)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) == 0)
	}

	if from == ksq {
		if m.IsCastling() {
			return true // validated fully at generation time
		}
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(to, them, occ) == 0
	}

	// A move by a non-king piece is legal unless the piece is pinned and the
	// move doesn't stay on the pin line through the king.
	if p.KingBlockers[us]&SquareBB(from) == 0 {
		return true
	}
	return Aligned(from, to, ksq)
}

// givesCheck reports whether making move m would give check to the opponent,
// without requiring a make/unmake round trip: direct checks are read off
// CheckSquares, discovered checks off DiscoverCheckers, and castling/en
// passant/promotion are handled with the small amount of extra work those
// need.
func (p *Position) givesCheck(m Move) bool {
	us := p.SideToMove
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return false
	}
	pt := piece.Type()

	if m.IsPromotion() {
		pt = m.Promotion()
	}

	if pt != King && p.CheckSquares[pt]&SquareBB(to) != 0 {
		return true
	}

	if p.DiscoverCheckers[us]&SquareBB(from) != 0 && !Aligned(from, to, p.KingSquare[us.Other()]) {
		return true
	}

	if m.IsCastling() {
		them := us.Other()
		theirKing := p.KingSquare[them]
		var rookTo Square
		if to > from {
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookTo = NewSquare(3, from.Rank())
		}
		occAfter := (p.AllOccupied &^ SquareBB(from)) | SquareBB(to) | SquareBB(rookTo)
		return RookAttacks(rookTo, occAfter)&SquareBB(theirKing) != 0
	}

	if m.IsEnPassant() {
		them := us.Other()
		theirKing := p.KingSquare[them]
		capSq := to
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occAfter := (p.AllOccupied &^ SquareBB(from) &^ SquareBB(capSq)) | SquareBB(to)
		return (RookAttacks(theirKing, occAfter)&(p.Pieces[us][Rook]|p.Pieces[us][Queen]) != 0) ||
			(BishopAttacks(theirKing, occAfter)&(p.Pieces[us][Bishop]|p.Pieces[us][Queen]) != 0)
	}

	return false
}
