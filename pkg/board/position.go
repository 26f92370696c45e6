package board

// Position is a mutable 0x88 mailbox board. Unlike a functional "apply move, get new
// position" design, Position is mutated in place by Do/Undo; this is what lets the
// search walk a single instance millions of times per second and what lets the
// king-safety evaluator read raw squares and offsets directly off it.
type Position struct {
	board [128]Piece

	sideToMove Color
	castle     CastleRights
	epSquare   Square // 0 (= a1) doubles as "none": a1 can never be an en-passant target

	halfmoveClock  int // moves since the last capture or pawn push, for the 50-move rule
	fullmoveNumber int

	// Per-color piece lists. Index 0 is always the king; the rest are unordered and
	// maintained by swap-with-last removal, which is safe because the king, sitting
	// at index 0 and never captured, is never the "last" element once count > 1.
	pieces     [2][16]Square
	pieceIndex [128]int // square -> index within pieces[color], valid only where board[sq] is occupied
	count      [2]int
	pieceCount [2][7]int // per color, indexed by PieceType

	zt  *ZobristTable
	key ZobristKey

	material [2]int // centipawn material sum, by color
	mgPST    [2]int // middlegame piece-square sum, by color
	egPST    [2]int // endgame piece-square sum, by color
	phase    int    // game-phase accumulator, see pieceTypePhase
}

// NewPosition builds an empty board bound to the given Zobrist table. Callers set up
// the position via Place (or the fen package) before use.
func NewPosition(zt *ZobristTable) *Position {
	return &Position{zt: zt}
}

// Clone returns a deep, independent copy.
func (pos *Position) Clone() *Position {
	cp := *pos
	return &cp
}

func (pos *Position) SideToMove() Color      { return pos.sideToMove }
func (pos *Position) Castle() CastleRights   { return pos.castle }
func (pos *Position) Key() ZobristKey        { return pos.key }
func (pos *Position) HalfmoveClock() int     { return pos.halfmoveClock }
func (pos *Position) FullmoveNumber() int    { return pos.fullmoveNumber }
func (pos *Position) At(sq Square) Piece     { return pos.board[sq] }
func (pos *Position) Material(c Color) int   { return pos.material[c] }
func (pos *Position) Phase() int             { return pos.phase }

// EnPassant reports the current en-passant target square, if any.
func (pos *Position) EnPassant() (Square, bool) {
	return pos.epSquare, pos.epSquare != 0
}

// King returns the square of color c's king.
func (pos *Position) King(c Color) Square {
	return pos.pieces[c][0]
}

// Pieces returns the (unordered, except index 0 = king) list of squares occupied by
// color c's pieces. The returned slice aliases internal state and must not be mutated.
func (pos *Position) Pieces(c Color) []Square {
	return pos.pieces[c][:pos.count[c]]
}

// Count returns how many pieces of type t color c has on the board.
func (pos *Position) Count(c Color, t PieceType) int {
	return pos.pieceCount[c][t]
}

// PST returns color c's current (middlegame, endgame) piece-square accumulator.
func (pos *Position) PST(c Color) (mg, eg int) {
	return pos.mgPST[c], pos.egPST[c]
}

// Place sets up a piece on an empty square outside of Do/Undo; used by the FEN reader
// and by tests to build positions directly. It is not legal to call mid-search.
func (pos *Position) Place(sq Square, p Piece) {
	if p.Type() == King {
		pos.pieces[p.Color()][0] = sq
		pos.pieceIndex[sq] = 0
		if pos.count[p.Color()] == 0 {
			pos.count[p.Color()] = 1
		}
	} else {
		idx := pos.count[p.Color()]
		if idx == 0 {
			idx = 1 // index 0 is reserved for the king even if it hasn't been placed yet
		}
		pos.pieces[p.Color()][idx] = sq
		pos.pieceIndex[sq] = idx
		pos.count[p.Color()] = idx + 1
	}
	pos.board[sq] = p
	pos.pieceCount[p.Color()][p.Type()]++
	mg, eg := pstValue(p.Color(), p.Type(), sq)
	pos.material[p.Color()] += materialValue(p.Type())
	pos.mgPST[p.Color()] += mg
	pos.egPST[p.Color()] += eg
	pos.phase += pieceTypePhase[p.Type()]
}

// SetSideToMove, SetCastle and SetEnPassant configure setup-time-only state; like
// Place, these are for the FEN reader, not for use during search.
func (pos *Position) SetSideToMove(c Color)         { pos.sideToMove = c }
func (pos *Position) SetCastle(r CastleRights)       { pos.castle = r }
func (pos *Position) SetEnPassant(sq Square)         { pos.epSquare = sq }
func (pos *Position) SetHalfmoveClock(n int)         { pos.halfmoveClock = n }
func (pos *Position) SetFullmoveNumber(n int)        { pos.fullmoveNumber = n }

// ResetKey recomputes the Zobrist key from scratch. Called once after setup is done;
// Do/Undo maintain it incrementally from then on.
func (pos *Position) ResetKey() {
	pos.key = pos.zt.Hash(pos)
}

// place and remove are Do/Undo's low-level primitives for captures and promotions,
// where a piece's identity at a square actually changes. Ordinary piece movement uses
// relocate instead, which is cheaper and keeps piece-list indices stable.
func (pos *Position) place(sq Square, p Piece) {
	c, t := p.Color(), p.Type()
	idx := pos.count[c]
	pos.pieces[c][idx] = sq
	pos.pieceIndex[sq] = idx
	pos.count[c] = idx + 1
	pos.pieceCount[c][t]++
	pos.board[sq] = p
	pos.key ^= pos.zt.piece[p][sq]
	pos.material[c] += materialValue(t)
	mg, eg := pstValue(c, t, sq)
	pos.mgPST[c] += mg
	pos.egPST[c] += eg
	pos.phase += pieceTypePhase[t]
}

func (pos *Position) remove(sq Square) Piece {
	p := pos.board[sq]
	c, t := p.Color(), p.Type()
	idx := pos.pieceIndex[sq]
	last := pos.count[c] - 1
	lastSq := pos.pieces[c][last]
	pos.pieces[c][idx] = lastSq
	pos.pieceIndex[lastSq] = idx
	pos.count[c] = last
	pos.pieceCount[c][t]--
	pos.board[sq] = Empty
	pos.key ^= pos.zt.piece[p][sq]
	pos.material[c] -= materialValue(t)
	mg, eg := pstValue(c, t, sq)
	pos.mgPST[c] -= mg
	pos.egPST[c] -= eg
	pos.phase -= pieceTypePhase[t]
	return p
}

// relocate moves the piece on `from` to `to` (which must be empty) without touching
// its piece-list index. It is its own exact inverse: relocate(to, from) undoes it.
func (pos *Position) relocate(from, to Square) {
	p := pos.board[from]
	c := p.Color()
	idx := pos.pieceIndex[from]
	pos.board[from] = Empty
	pos.board[to] = p
	pos.pieces[c][idx] = to
	pos.pieceIndex[to] = idx
	pos.key ^= pos.zt.piece[p][from]
	pos.key ^= pos.zt.piece[p][to]
	mgFrom, egFrom := pstValue(c, p.Type(), from)
	mgTo, egTo := pstValue(c, p.Type(), to)
	pos.mgPST[c] += mgTo - mgFrom
	pos.egPST[c] += egTo - egFrom
}
