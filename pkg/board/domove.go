package board

// Undo carries exactly what Do changed outside of what the Move itself already
// records (From/To/Promotion/Flag/Piece/Captured), so that Undo(u) is an exact
// inverse: every observable field — board, piece lists, counts, castling rights,
// en-passant square, key, material and piece-square accumulators, clocks — ends up
// bit-for-bit what it was before the matching Do.
type Undo struct {
	move           Move
	priorCastle    CastleRights
	priorEP        Square
	priorHalfmove  int
	priorFullmove  int
}

var rookFrom = [2][2]Square{
	{H1, A1}, // White: O-O rook from, O-O-O rook from
	{H8, A8}, // Black
}
var rookTo = [2][2]Square{
	{F1, D1},
	{F8, D8},
}

// castleIndex is 0 for king-side, 1 for queen-side.
func castleIndex(f MoveFlag) int {
	if f == QueenCastle {
		return 1
	}
	return 0
}

// Do applies a pseudo-legal move in place and returns the state needed to reverse it.
// The caller is responsible for having filled in m.Piece and m.Captured (move
// generation does this; UCI/console move parsing must match the parsed coordinates
// against a generated legal move to recover them).
func (pos *Position) Do(m Move) Undo {
	u := Undo{
		move:          m,
		priorCastle:   pos.castle,
		priorEP:       pos.epSquare,
		priorHalfmove: pos.halfmoveClock,
		priorFullmove: pos.fullmoveNumber,
	}

	c := pos.sideToMove
	opp := c.Opponent()

	if m.Flag.IsCapture() {
		capSq := m.To
		if m.Flag == EnPassant {
			capSq = NewSquare(m.To.File(), m.From.Rank())
		}
		pos.remove(capSq)
	}

	switch {
	case m.Flag == Promotion || m.Flag == CapturePromotion:
		pos.remove(m.From)
		pos.place(m.To, NewPiece(c, m.Promotion))
	default:
		pos.relocate(m.From, m.To)
	}

	if m.Flag.IsCastle() {
		ci := castleIndex(m.Flag)
		pos.relocate(rookFrom[c][ci], rookTo[c][ci])
	}

	newCastle := pos.castle &^ castlingRightsLost(m, c)
	pos.key ^= pos.zt.castle[pos.castle]
	pos.castle = newCastle
	pos.key ^= pos.zt.castle[pos.castle]

	if pos.epSquare != 0 {
		pos.key ^= pos.zt.ep[pos.epSquare]
	}
	if m.Flag == DoublePawnPush {
		pos.epSquare = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		pos.key ^= pos.zt.ep[pos.epSquare]
	} else {
		pos.epSquare = 0
	}

	if m.Piece == Pawn || m.Flag.IsCapture() {
		pos.halfmoveClock = 0
	} else {
		pos.halfmoveClock++
	}
	if c == Black {
		pos.fullmoveNumber++
	}

	pos.key ^= pos.zt.turn
	pos.sideToMove = opp

	return u
}

// Undo reverses a Do, restoring the position to exactly the state it was in before.
func (pos *Position) Undo(u Undo) {
	m := u.move
	pos.key ^= pos.zt.turn
	pos.sideToMove = pos.sideToMove.Opponent()
	c := pos.sideToMove

	pos.fullmoveNumber = u.priorFullmove
	pos.halfmoveClock = u.priorHalfmove

	if pos.epSquare != 0 {
		pos.key ^= pos.zt.ep[pos.epSquare]
	}
	pos.epSquare = u.priorEP
	if pos.epSquare != 0 {
		pos.key ^= pos.zt.ep[pos.epSquare]
	}

	pos.key ^= pos.zt.castle[pos.castle]
	pos.castle = u.priorCastle
	pos.key ^= pos.zt.castle[pos.castle]

	if m.Flag.IsCastle() {
		ci := castleIndex(m.Flag)
		pos.relocate(rookTo[c][ci], rookFrom[c][ci])
	}

	switch {
	case m.Flag == Promotion || m.Flag == CapturePromotion:
		pos.remove(m.To)
		pos.place(m.From, NewPiece(c, Pawn))
	default:
		pos.relocate(m.To, m.From)
	}

	if m.Flag.IsCapture() {
		capSq := m.To
		if m.Flag == EnPassant {
			capSq = NewSquare(m.To.File(), m.From.Rank())
		}
		pos.place(capSq, NewPiece(c.Opponent(), m.Captured))
	}
}

// DoNull makes the null-move pruning pseudo-move: pass the turn without moving a
// piece. The returned Undo reverses it via UndoNull.
func (pos *Position) DoNull() Undo {
	u := Undo{priorCastle: pos.castle, priorEP: pos.epSquare, priorHalfmove: pos.halfmoveClock, priorFullmove: pos.fullmoveNumber}
	if pos.epSquare != 0 {
		pos.key ^= pos.zt.ep[pos.epSquare]
	}
	pos.epSquare = 0
	pos.key ^= pos.zt.turn
	pos.sideToMove = pos.sideToMove.Opponent()
	return u
}

func (pos *Position) UndoNull(u Undo) {
	pos.key ^= pos.zt.turn
	pos.sideToMove = pos.sideToMove.Opponent()
	pos.epSquare = u.priorEP
	if pos.epSquare != 0 {
		pos.key ^= pos.zt.ep[pos.epSquare]
	}
	pos.halfmoveClock = u.priorHalfmove
	pos.fullmoveNumber = u.priorFullmove
}

// castlingRightsLost reports which rights a move strips, based only on squares
// touched: a king move loses both of its side's rights, a rook move or a capture
// landing on a corner loses that corner's right.
func castlingRightsLost(m Move, mover Color) CastleRights {
	var lost CastleRights
	if m.Piece == King {
		lost |= oo(mover) | ooo(mover)
	}
	lost |= rightLostBySquare(m.From)
	lost |= rightLostBySquare(m.To)
	return lost
}

func rightLostBySquare(sq Square) CastleRights {
	switch sq {
	case H1:
		return WhiteOO
	case A1:
		return WhiteOOO
	case H8:
		return BlackOO
	case A8:
		return BlackOOO
	default:
		return 0
	}
}
