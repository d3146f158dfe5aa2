package board

// StateInfo captures everything about a position that Make/Unmake must
// restore on unmake and that search wants cheap access to without
// recomputing it every node: irreversible game state (castling rights, en
// passant square, clocks), the incrementally-maintained hashes, and the
// per-side check/pin bitboards used by legality testing and check-giving
// detection. StateInfo instances can form a singly linked stack through
// Previous. Position.MakeMove/UnmakeMove do not use this type; they snapshot
// state in UndoInfo below, and repetition detection is done by search.
type StateInfo struct {
	// Irreversible, must be restored verbatim on unmake.
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	PliesFromNull  int
	CapturedPiece  Piece

	// Incrementally maintained, also restored on unmake.
	Hash       uint64
	PawnKey    uint64
	MaterialKey uint64
	Checkers   Bitboard

	// Recomputed after every make, valid for the side to move in this state.
	KingBlockers     [2]Bitboard // pieces pinned to, or blocking checks on, each king
	DiscoverCheckers [2]Bitboard // own pieces that, if moved, reveal a check on the enemy king
	CheckSquares     [6]Bitboard // squares from which each piece type would check the opponent's king

	Previous *StateInfo
}

// clone copies the fields that make/unmake needs to snapshot before mutating
// the live position, without following Previous (the caller wires that up).
func (si *StateInfo) clone() StateInfo {
	return *si
}

// UndoInfo is the lightweight, stack-free snapshot Position.MakeMove returns
// and Position.UnmakeMove consumes. Search keeps its own ply-indexed array of
// these (see Worker's undoStack) rather than Position threading a StateInfo
// linked list itself, since search never needs to query a position's history
// through Position directly — only through its own undo stack. KingBlockers,
// DiscoverCheckers, CheckSquares and MaterialKey are not snapshotted here:
// they're cheap to recompute from the restored board via updateCheckInfo and
// doing so avoids stale data entirely.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	PliesFromNull  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	Valid          bool
}
