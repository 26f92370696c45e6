package search

import (
	"sort"

	"github.com/herohde/daydreamer/pkg/board"
)

// orderMoves sorts moves to put the most promising ones first, which is what makes
// alpha-beta's pruning effective: the transposition table's remembered best move (if
// still legal here) leads, then captures ordered by MVV-LVA (most valuable victim,
// least valuable attacker), then quiet moves in generation order.
func orderMoves(moves board.MoveList, ttMove board.Move) board.MoveList {
	sort.SliceStable(moves, func(i, j int) bool {
		return moveOrderKey(moves[i], ttMove) > moveOrderKey(moves[j], ttMove)
	})
	return moves
}

func moveOrderKey(m, ttMove board.Move) int {
	if !ttMove.IsNone() && m.Equals(ttMove) {
		return 1 << 20
	}
	if m.Flag.IsCapture() {
		return 1<<16 + pieceValue(m.Captured)*16 - pieceValue(m.Piece)
	}
	return 0
}

func pieceValue(t board.PieceType) int {
	switch t {
	case board.Pawn:
		return board.PawnValue
	case board.Knight:
		return board.KnightValue
	case board.Bishop:
		return board.BishopValue
	case board.Rook:
		return board.RookValue
	case board.Queen:
		return board.QueenValue
	default:
		return 0
	}
}
