package board

// Offset tables for 0x88 move generation. Adding an offset to a valid square and
// masking with 0x88 detects falling off the board or wrapping a rank in one step.
var knightOffsets = [8]int{33, 31, 18, 14, -33, -31, -18, -14}
var kingOffsets = [8]int{1, -1, 15, -15, 16, -16, 17, -17}
var bishopDirs = [4]int{15, -15, 17, -17}
var rookDirs = [4]int{1, -1, 16, -16}
var queenDirs = [8]int{1, -1, 15, -15, 16, -16, 17, -17}

// pawnPush and pawnCaptures are indexed by Color.
var pawnPush = [2]int{16, -16}
var pawnCaptures = [2][2]int{{15, 17}, {-15, -17}}
var pawnStartRank = [2]int{1, 6}
var pawnPromoteRank = [2]int{7, 0}

var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// GeneratePseudoMoves appends every pseudo-legal move (not yet checked for leaving
// the mover's own king in check) for the side to move.
func (pos *Position) GeneratePseudoMoves() MoveList {
	list := make(MoveList, 0, 48)
	c := pos.sideToMove
	for _, from := range pos.Pieces(c) {
		switch pos.board[from].Type() {
		case Pawn:
			pos.genPawnMoves(c, from, &list, true)
		case Knight:
			pos.genOffsetMoves(c, from, Knight, knightOffsets[:], &list)
		case Bishop:
			pos.genSlidingMoves(c, from, Bishop, bishopDirs[:], &list)
		case Rook:
			pos.genSlidingMoves(c, from, Rook, rookDirs[:], &list)
		case Queen:
			pos.genSlidingMoves(c, from, Queen, queenDirs[:], &list)
		case King:
			pos.genOffsetMoves(c, from, King, kingOffsets[:], &list)
			pos.genCastles(c, &list)
		}
	}
	return list
}

// GeneratePseudoCaptures appends only pseudo-legal captures (and capture-promotions),
// the move set quiescence search explores.
func (pos *Position) GeneratePseudoCaptures() MoveList {
	list := make(MoveList, 0, 16)
	c := pos.sideToMove
	for _, from := range pos.Pieces(c) {
		switch pos.board[from].Type() {
		case Pawn:
			pos.genPawnMoves(c, from, &list, false)
		case Knight:
			pos.genOffsetCaptures(c, from, Knight, knightOffsets[:], &list)
		case Bishop:
			pos.genSlidingCaptures(c, from, Bishop, bishopDirs[:], &list)
		case Rook:
			pos.genSlidingCaptures(c, from, Rook, rookDirs[:], &list)
		case Queen:
			pos.genSlidingCaptures(c, from, Queen, queenDirs[:], &list)
		case King:
			pos.genOffsetCaptures(c, from, King, kingOffsets[:], &list)
		}
	}
	return list
}

// GenerateLegalMoves filters GeneratePseudoMoves down to moves that do not leave the
// mover's own king in check.
func (pos *Position) GenerateLegalMoves() MoveList {
	pseudo := pos.GeneratePseudoMoves()
	legal := make(MoveList, 0, len(pseudo))
	for _, m := range pseudo {
		if pos.IsMoveLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// GenerateLegalNonCaptures returns the legal moves with IsCapture() false; used by
// quiescence's "is there at least one quiet legal reply" check.
func (pos *Position) GenerateLegalNonCaptures() MoveList {
	all := pos.GenerateLegalMoves()
	quiet := make(MoveList, 0, len(all))
	for _, m := range all {
		if !m.Flag.IsCapture() {
			quiet = append(quiet, m)
		}
	}
	return quiet
}

// IsMoveLegal reports whether making m leaves the mover's own king safe. It makes and
// unmakes the move, which is simple and correct at the cost of being the slow way to
// check legality; callers on a hot path should prefer incremental pin/check tracking
// if this ever shows up in profiling.
func (pos *Position) IsMoveLegal(m Move) bool {
	c := pos.sideToMove
	u := pos.Do(m)
	ok := !pos.IsSquareAttacked(pos.King(c), c.Opponent())
	pos.Undo(u)
	return ok
}

// IsCheck reports whether color c's king is currently attacked.
func (pos *Position) IsCheck(c Color) bool {
	return pos.IsSquareAttacked(pos.King(c), c.Opponent())
}

// IsSquareAttacked reports whether sq is attacked by any piece of color by.
func (pos *Position) IsSquareAttacked(sq Square, by Color) bool {
	// Pawns: look from sq backwards along the attacker's own capture direction.
	for _, d := range pawnCaptures[by] {
		from := Square(int(sq) - d)
		if from.IsValid() && pos.board[from] == NewPiece(by, Pawn) {
			return true
		}
	}
	for _, d := range knightOffsets {
		from := Square(int(sq) + d)
		if from.IsValid() && pos.board[from] == NewPiece(by, Knight) {
			return true
		}
	}
	for _, d := range kingOffsets {
		from := Square(int(sq) + d)
		if from.IsValid() && pos.board[from] == NewPiece(by, King) {
			return true
		}
	}
	for _, d := range bishopDirs {
		if pos.slideAttacks(sq, d, by, Bishop, Queen) {
			return true
		}
	}
	for _, d := range rookDirs {
		if pos.slideAttacks(sq, d, by, Rook, Queen) {
			return true
		}
	}
	return false
}

// IsSquareAttackedFrom reports whether the piece of type t sitting on `from` (which
// must be occupied) geometrically attacks `to`, respecting blockers for sliding
// pieces. It is the single-piece primitive the king-safety evaluator uses to ask
// "does this specific piece bear on that square" without generating full move lists.
func (pos *Position) IsSquareAttackedFrom(from, to Square, t PieceType) bool {
	switch t {
	case Pawn:
		c := pos.board[from].Color()
		for _, d := range pawnCaptures[c] {
			if Square(int(from)+d) == to {
				return true
			}
		}
		return false
	case Knight:
		for _, d := range knightOffsets {
			if Square(int(from)+d) == to {
				return true
			}
		}
		return false
	case King:
		for _, d := range kingOffsets {
			if Square(int(from)+d) == to {
				return true
			}
		}
		return false
	case Bishop:
		return pos.rayReaches(from, to, bishopDirs[:])
	case Rook:
		return pos.rayReaches(from, to, rookDirs[:])
	case Queen:
		return pos.rayReaches(from, to, queenDirs[:])
	default:
		return false
	}
}

func (pos *Position) rayReaches(from, to Square, dirs []int) bool {
	for _, d := range dirs {
		cur := int(from)
		for {
			cur += d
			s := Square(cur)
			if !s.IsValid() {
				break
			}
			if s == to {
				return true
			}
			if !pos.board[s].IsEmpty() {
				break
			}
		}
	}
	return false
}

func (pos *Position) slideAttacks(sq Square, d int, by Color, t1, t2 PieceType) bool {
	cur := int(sq)
	for {
		cur += d
		s := Square(cur)
		if !s.IsValid() {
			return false
		}
		p := pos.board[s]
		if p.IsEmpty() {
			continue
		}
		if p.Color() == by && (p.Type() == t1 || p.Type() == t2) {
			return true
		}
		return false
	}
}

func (pos *Position) genOffsetMoves(c Color, from Square, t PieceType, offsets []int, list *MoveList) {
	for _, d := range offsets {
		to := Square(int(from) + d)
		if !to.IsValid() {
			continue
		}
		target := pos.board[to]
		if target.IsEmpty() {
			*list = append(*list, Move{From: from, To: to, Flag: Quiet, Piece: t})
		} else if target.Color() != c {
			*list = append(*list, Move{From: from, To: to, Flag: Capture, Piece: t, Captured: target.Type()})
		}
	}
}

func (pos *Position) genOffsetCaptures(c Color, from Square, t PieceType, offsets []int, list *MoveList) {
	for _, d := range offsets {
		to := Square(int(from) + d)
		if !to.IsValid() {
			continue
		}
		target := pos.board[to]
		if !target.IsEmpty() && target.Color() != c {
			*list = append(*list, Move{From: from, To: to, Flag: Capture, Piece: t, Captured: target.Type()})
		}
	}
}

func (pos *Position) genSlidingMoves(c Color, from Square, t PieceType, dirs []int, list *MoveList) {
	for _, d := range dirs {
		cur := int(from)
		for {
			cur += d
			to := Square(cur)
			if !to.IsValid() {
				break
			}
			target := pos.board[to]
			if target.IsEmpty() {
				*list = append(*list, Move{From: from, To: to, Flag: Quiet, Piece: t})
				continue
			}
			if target.Color() != c {
				*list = append(*list, Move{From: from, To: to, Flag: Capture, Piece: t, Captured: target.Type()})
			}
			break
		}
	}
}

func (pos *Position) genSlidingCaptures(c Color, from Square, t PieceType, dirs []int, list *MoveList) {
	for _, d := range dirs {
		cur := int(from)
		for {
			cur += d
			to := Square(cur)
			if !to.IsValid() {
				break
			}
			target := pos.board[to]
			if target.IsEmpty() {
				continue
			}
			if target.Color() != c {
				*list = append(*list, Move{From: from, To: to, Flag: Capture, Piece: t, Captured: target.Type()})
			}
			break
		}
	}
}

func (pos *Position) genPawnMoves(c Color, from Square, list *MoveList, includeQuiet bool) {
	push := pawnPush[c]
	startRank := pawnStartRank[c]
	promoteRank := pawnPromoteRank[c]

	if includeQuiet {
		one := Square(int(from) + push)
		if one.IsValid() && pos.board[one].IsEmpty() {
			if one.Rank() == promoteRank {
				for _, pt := range promotionTypes {
					*list = append(*list, Move{From: from, To: one, Flag: Promotion, Piece: Pawn, Promotion: pt})
				}
			} else {
				*list = append(*list, Move{From: from, To: one, Flag: Quiet, Piece: Pawn})
				if from.Rank() == startRank {
					two := Square(int(from) + 2*push)
					if pos.board[two].IsEmpty() {
						*list = append(*list, Move{From: from, To: two, Flag: DoublePawnPush, Piece: Pawn})
					}
				}
			}
		}
	}

	for _, d := range pawnCaptures[c] {
		to := Square(int(from) + d)
		if !to.IsValid() {
			continue
		}
		if ep, ok := pos.EnPassant(); ok && to == ep {
			*list = append(*list, Move{From: from, To: to, Flag: EnPassant, Piece: Pawn, Captured: Pawn})
			continue
		}
		target := pos.board[to]
		if target.IsEmpty() || target.Color() == c {
			continue
		}
		if to.Rank() == promoteRank {
			for _, pt := range promotionTypes {
				*list = append(*list, Move{From: from, To: to, Flag: CapturePromotion, Piece: Pawn, Promotion: pt, Captured: target.Type()})
			}
		} else {
			*list = append(*list, Move{From: from, To: to, Flag: Capture, Piece: Pawn, Captured: target.Type()})
		}
	}
}

func (pos *Position) genCastles(c Color, list *MoveList) {
	if pos.IsCheck(c) {
		return
	}
	opp := c.Opponent()
	rank := 0
	if c == Black {
		rank = 7
	}
	e := NewSquare(4, rank)

	if pos.castle.HasOO(c) {
		f, g, h := NewSquare(5, rank), NewSquare(6, rank), NewSquare(7, rank)
		if pos.board[f].IsEmpty() && pos.board[g].IsEmpty() && pos.board[h] == NewPiece(c, Rook) &&
			!pos.IsSquareAttacked(f, opp) && !pos.IsSquareAttacked(g, opp) {
			*list = append(*list, Move{From: e, To: g, Flag: KingCastle, Piece: King})
		}
	}
	if pos.castle.HasOOO(c) {
		d, cc, b, a := NewSquare(3, rank), NewSquare(2, rank), NewSquare(1, rank), NewSquare(0, rank)
		if pos.board[d].IsEmpty() && pos.board[cc].IsEmpty() && pos.board[b].IsEmpty() && pos.board[a] == NewPiece(c, Rook) &&
			!pos.IsSquareAttacked(d, opp) && !pos.IsSquareAttacked(cc, opp) {
			*list = append(*list, Move{From: e, To: cc, Flag: QueenCastle, Piece: King})
		}
	}
}
