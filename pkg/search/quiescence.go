package search

import (
	"context"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
)

// Quiescence extends a fixed-depth search to a "quiet" position before evaluating
// statically, so the static evaluator is never asked to judge a position in the
// middle of a capture sequence. In check, it searches every legal evasion (there is
// no "stand pat" option when your king is attacked); otherwise it stands pat and
// explores only captures that pass a static-exchange test, skipping ones that lose
// material outright.
type Quiescence struct {
	Eval eval.Evaluator
}

func (q Quiescence) Search(ctx context.Context, pos *board.Position, tt TranspositionTable, ply int, alpha, beta eval.Score) (Result, error) {
	r := &qrun{eval: q.Eval, pos: pos}
	score, pv := r.search(ctx, ply, alpha, beta)
	if isCancelled(ctx) {
		return Result{}, ErrHalted
	}
	return Result{Nodes: r.nodes, Score: score, PV: pv}, nil
}

type qrun struct {
	eval  eval.Evaluator
	pos   *board.Position
	nodes uint64
}

func (r *qrun) search(ctx context.Context, ply int, alpha, beta eval.Score) (eval.Score, board.MoveList) {
	if isCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	r.nodes++

	side := r.pos.SideToMove()
	inCheck := r.pos.IsCheck(side)

	if !inCheck {
		standPat := r.eval.Evaluate(r.pos)
		if standPat >= beta {
			return beta, nil
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if ply >= QuiescenceLimitPlies {
		return alpha, nil
	}

	var candidates board.MoveList
	if inCheck {
		candidates = r.pos.GenerateLegalMoves() // no stand pat while in check: must try evasions
	} else {
		candidates = orderMoves(r.pos.GeneratePseudoCaptures(), board.NoMove)
	}

	hasLegal := false
	var pv board.MoveList
	for _, m := range candidates {
		if !inCheck {
			if r.pos.StaticExchangeEval(m) < 0 {
				continue // losing capture: not worth exploring at the horizon
			}
			if !r.pos.IsMoveLegal(m) {
				continue
			}
		}

		u := r.pos.Do(m)
		hasLegal = true
		score, rem := r.search(ctx, ply+1, beta.Negate(), alpha.Negate())
		score = score.Negate()
		r.pos.Undo(u)

		if isCancelled(ctx) {
			return eval.InvalidScore, nil
		}

		if score > alpha {
			alpha = score
			pv = append(board.MoveList{m}, rem...)
			if alpha >= beta {
				break
			}
		}
	}

	if inCheck && !hasLegal {
		return eval.MatedIn(ply), nil
	}
	return alpha, pv
}
