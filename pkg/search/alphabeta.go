package search

import (
	"context"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
)

// run carries one fixed-depth AlphaBeta.Search call's mutable state: the position
// being walked (mutated and restored via Do/Undo as the tree is descended), the node
// counter, and the repetition history.
type run struct {
	eval       eval.Evaluator
	quiescence Search
	nullMove   bool
	tt         TranspositionTable
	pos        *board.Position
	history    []board.ZobristKey
	nodes      uint64
	onRootMove func(m board.Move, number, total int)
}

// negamax returns the score of pos from the side to move's perspective, along with
// the principal variation that achieves it. It is fail-soft: on a cutoff it returns
// the best score found (or the cached bound) even when that lies outside
// [alpha, beta]; only the null-move cutoff returns beta itself.
func (r *run) negamax(ctx context.Context, depth, ply int, alpha, beta eval.Score) (eval.Score, board.MoveList) {
	if isCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	if ply > 0 && r.isDraw() {
		return eval.ZeroScore, nil
	}

	alphaOrig := alpha
	var ttMove board.Move
	if bound, d, score, move, ok := r.tt.Probe(r.pos.Key(), ply); ok {
		ttMove = move
		if d >= depth {
			switch bound {
			case ExactBound:
				return score, board.MoveList{move}
			case LowerBound:
				if score > alpha {
					alpha = score
				}
			case UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, nil
			}
		}
	}

	if depth <= 0 {
		return r.quiescenceSearch(ctx, ply, alpha, beta)
	}

	r.nodes++

	side := r.pos.SideToMove()
	inCheck := r.pos.IsCheck(side)

	if r.nullMove && !inCheck && ply > 0 && depth > NullMoveReduction && beta < eval.InfScore && hasNonPawnMaterial(r.pos, side) {
		u := r.pos.DoNull()
		r.history = append(r.history, r.pos.Key())
		score, _ := r.negamax(ctx, depth-1-NullMoveReduction, ply+1, beta.Negate()-1, beta.Negate())
		r.history = r.history[:len(r.history)-1]
		r.pos.UndoNull(u)
		score = score.Negate()

		if isCancelled(ctx) {
			return eval.InvalidScore, nil
		}
		if score >= beta {
			return beta, nil
		}
	}

	moves := orderMoves(r.pos.GenerateLegalMoves(), ttMove)
	if len(moves) == 0 {
		if inCheck {
			return eval.MatedIn(ply), nil
		}
		return eval.ZeroScore, nil
	}

	var pv board.MoveList
	bound := UpperBound
	best := eval.NegInfScore

	for i, m := range moves {
		if ply == 0 && r.onRootMove != nil {
			r.onRootMove(m, i+1, len(moves))
		}

		u := r.pos.Do(m)
		r.history = append(r.history, r.pos.Key())

		var score eval.Score
		var rem board.MoveList
		if i == 0 {
			score, rem = r.negamax(ctx, depth-1, ply+1, beta.Negate(), alpha.Negate())
			score = score.Negate()
		} else {
			score, _ = r.negamax(ctx, depth-1, ply+1, alpha.Negate()-1, alpha.Negate())
			score = score.Negate()
			if score > alpha && score < beta {
				score, rem = r.negamax(ctx, depth-1, ply+1, beta.Negate(), score.Negate())
				score = score.Negate()
			}
		}
		r.history = r.history[:len(r.history)-1]
		r.pos.Undo(u)

		if isCancelled(ctx) {
			return eval.InvalidScore, nil
		}

		if score > best {
			best = score
			pv = append(board.MoveList{m}, rem...)
			if score > alpha {
				alpha = score
				bound = ExactBound
			}
		}
		if alpha >= beta {
			bound = LowerBound
			break
		}
	}

	_ = alphaOrig
	r.tt.Store(r.pos.Key(), ply, depth, bound, best, firstOrNone(pv))
	return best, pv
}

func (r *run) quiescenceSearch(ctx context.Context, ply int, alpha, beta eval.Score) (eval.Score, board.MoveList) {
	if r.quiescence == nil {
		return r.eval.Evaluate(r.pos), nil
	}
	res, err := r.quiescence.Search(ctx, r.pos, r.tt, ply, alpha, beta)
	if err != nil {
		return eval.InvalidScore, nil
	}
	r.nodes += res.Nodes
	return res.Score, res.PV
}

// isDraw reports repetition (within this search path plus the game history seeded
// into AlphaBeta.History), the fifty-move rule, and basic insufficient material.
func (r *run) isDraw() bool {
	if r.pos.HalfmoveClock() >= 100 {
		return true
	}
	if isInsufficientMaterial(r.pos) {
		return true
	}
	key := r.pos.Key()
	seen := 0
	for _, h := range r.history {
		if h == key {
			seen++
		}
	}
	return seen >= 2
}

func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	return pos.Count(c, board.Knight)+pos.Count(c, board.Bishop)+pos.Count(c, board.Rook)+pos.Count(c, board.Queen) > 0
}

// isInsufficientMaterial covers the common, unambiguous draws: king-only or
// king-plus-one-minor versus the same. It deliberately does not special-case same-
// vs-opposite-colored bishops or more exotic fortress draws.
func isInsufficientMaterial(pos *board.Position) bool {
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.Count(c, board.Pawn) > 0 || pos.Count(c, board.Rook) > 0 || pos.Count(c, board.Queen) > 0 {
			return false
		}
		if pos.Count(c, board.Knight)+pos.Count(c, board.Bishop) > 1 {
			return false
		}
	}
	return true
}

func firstOrNone(pv board.MoveList) board.Move {
	if len(pv) == 0 {
		return board.NoMove
	}
	return pv[0]
}
