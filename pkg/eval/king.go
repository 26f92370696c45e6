package eval

import "github.com/herohde/daydreamer/pkg/board"

// shieldValue is indexed [color][combined piece code] and scores how much a pawn
// shelter matters depending on which piece (if any) sits on a shield square. It is
// transcribed unchanged from the table this evaluator is ported from: a piece of
// your own color on a shield square counts (pawn 8, knight 2, bishop 4, rook and
// queen 1 each), while enemy pieces, kings and empty squares count 0.
var shieldValue = [2][17]int{
	{0, 8, 2, 4, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 2, 4, 1, 1, 0, 0, 0},
}

// kingAttackScore weights an attacking piece by its combined piece code; indices
// 0,6,7,8,14,15 (empty, the two kings, and the unused padding codes) score 0.
var kingAttackScore = [16]int{
	0, 5, 20, 20, 30, 50, 0, 0, 0, 5, 20, 20, 30, 50, 0, 0,
}

// multipleKingAttackScale is a saturating /1024 scale applied to the raw attacker
// score, indexed by how many distinct pieces are attacking the king zone: a lone
// attacker contributes nothing, two or more ramp quickly to full weight.
var multipleKingAttackScale = [16]int{
	0, 0, 512, 640, 896, 960, 1024, 1024,
	1024, 1024, 1024, 1024, 1024, 1024, 1024, 1024,
}

var pawnPushOffset = [2]int{16, -16}

// kingShieldScore scores the pawn shelter in front of a king sitting on (real or
// hypothetical, for a not-yet-taken castle) square king.
func kingShieldScore(pos *board.Position, c board.Color, king board.Square) int {
	push := pawnPushOffset[c]
	at := func(sq board.Square) int {
		if !sq.IsValid() {
			return 0
		}
		return shieldValue[c][toPieceCode(pos, sq)]
	}
	s := 0
	s += at(board.Square(int(king)-1)) * 2
	s += at(board.Square(int(king)+1)) * 2
	s += at(board.Square(int(king)+push-1)) * 4
	s += at(board.Square(int(king)+push)) * 6
	s += at(board.Square(int(king)+push+1)) * 4
	s += at(board.Square(int(king) + 2*push - 1))
	s += at(board.Square(int(king)+2*push)) * 2
	s += at(board.Square(int(king) + 2*push + 1))
	return s
}

func toPieceCode(pos *board.Position, sq board.Square) int {
	return int(pos.At(sq))
}

// EvaluateKingShield scores pawn-shelter quality, from White's point of view. A side
// retaining castling rights is credited with the average of its current shelter and
// the best of that and the shelter it would have after castling either way, on the
// theory that keeping the option alive is itself worth something.
func EvaluateKingShield(pos *board.Position) phaseScore {
	score := [2]int{}
	for _, c := range [2]board.Color{board.White, board.Black} {
		king := pos.King(c)
		current := kingShieldScore(pos, c, king)
		best := current
		if pos.Castle().HasOO(c) {
			if v := kingShieldScore(pos, c, kingsideCastleSquare(c)); v > best {
				best = v
			}
		}
		if pos.Castle().HasOOO(c) {
			if v := kingShieldScore(pos, c, queensideCastleSquare(c)); v > best {
				best = v
			}
		}
		score[c] = (current + best) / 2
	}
	return phaseScore{MG: score[board.White] - score[board.Black]}
}

func kingsideCastleSquare(c board.Color) board.Square {
	if c == board.White {
		return board.G1
	}
	return board.G8
}

func queensideCastleSquare(c board.Color) board.Square {
	if c == board.White {
		return board.C1
	}
	return board.C8
}

// EvaluateKingAttackers scores how many of a side's pieces bear on the squares
// immediately around the enemy king, from White's point of view. It only runs for a
// side that still has its queen on the board: without a queen, a king hunt is rarely
// a real threat and the term is skipped entirely, matching the original's cutoff.
func EvaluateKingAttackers(pos *board.Position) phaseScore {
	score := [2]int{}
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.Count(c, board.Queen) == 0 {
			continue
		}
		opp := c.Opponent()
		oppKing := pos.King(opp)
		raw := 0
		attackers := 0
		for _, sq := range pos.Pieces(c) {
			if sq == pos.King(c) {
				continue
			}
			if pieceAttacksNear(pos, sq, oppKing) {
				raw += kingAttackScore[pos.At(sq)]
				attackers++
			}
		}
		score[c] = raw * multipleKingAttackScale[attackers] / 1024
	}
	return phaseScore{MG: score[board.White] - score[board.Black]}
}

// pieceAttacksNear reports whether the piece sitting on `from` attacks the king zone
// around `king`: the king's own square or any of its (up to 8) neighbors.
func pieceAttacksNear(pos *board.Position, from, king board.Square) bool {
	for _, d := range kingZoneOffsets(king) {
		if pieceAttacksSquare(pos, from, board.Square(int(king)+d)) {
			return true
		}
	}
	return false
}

func kingZoneOffsets(king board.Square) []int {
	offsets := make([]int, 0, 9)
	offsets = append(offsets, 0)
	for _, d := range [8]int{1, -1, 15, -15, 16, -16, 17, -17} {
		if board.Square(int(king) + d).IsValid() {
			offsets = append(offsets, d)
		}
	}
	return offsets
}

// pieceAttacksSquare reports whether the piece on `from` attacks `to` under normal
// movement rules (no check for whether it is actually from's turn to move).
func pieceAttacksSquare(pos *board.Position, from, to board.Square) bool {
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}
	p := pos.At(from)
	if p.IsEmpty() {
		return false
	}
	return pos.IsSquareAttackedFrom(from, to, p.Type())
}
