// Package search implements fixed-depth alpha-beta negamax over a board.Position:
// null-move pruning and principal variation search at interior nodes, a
// capture-only quiescence search at the horizon, and a transposition table that a
// caller can share across searches. The iterative-deepening loop lives in
// pkg/engine/searchctl.
package search

import (
	"context"
	"errors"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
)

// ErrHalted is returned when a search is cancelled (via ctx or a Stop signal)
// before it completes. Partial results up to that point remain valid to report.
var ErrHalted = errors.New("search: halted")

// NullMoveReduction is the depth reduction applied to the verification search after
// passing the move in null-move pruning.
const NullMoveReduction = 4

// QuiescenceLimitPlies caps how deep the capture-only search at the horizon can go,
// as a backstop against pathological check-evasion chains.
const QuiescenceLimitPlies = 32

// Result is the outcome of searching to a fixed depth.
type Result struct {
	Nodes uint64
	Score eval.Score
	PV    board.MoveList
}

// Search runs one fixed-depth alpha-beta pass from the current position.
type Search interface {
	Search(ctx context.Context, pos *board.Position, tt TranspositionTable, depth int, alpha, beta eval.Score) (Result, error)
}

// AlphaBeta is the fixed-depth negamax searcher: null-move pruning and PVS
// re-search at interior nodes, falling through to Quiescence at depth 0.
type AlphaBeta struct {
	Eval       eval.Evaluator
	Quiescence Search
	NullMove   bool
	// History carries the Zobrist keys of positions reached earlier in the game
	// (before this search's root), so repetitions spanning actual played moves are
	// detected, not just ones that recur within the search tree itself.
	History []board.ZobristKey
	// OnRootMove, if set, is called before each root move is searched, in root move
	// order, so a caller (iterative deepening) can trace "info currmove" progress.
	OnRootMove func(m board.Move, number, total int)
}

func (s AlphaBeta) Search(ctx context.Context, pos *board.Position, tt TranspositionTable, depth int, alpha, beta eval.Score) (Result, error) {
	history := make([]board.ZobristKey, len(s.History))
	copy(history, s.History)

	r := &run{eval: s.Eval, quiescence: s.Quiescence, nullMove: s.NullMove, tt: tt, pos: pos, history: history, onRootMove: s.OnRootMove}
	score, pv := r.negamax(ctx, depth, 0, alpha, beta)
	if isCancelled(ctx) {
		return Result{}, ErrHalted
	}
	return Result{Nodes: r.nodes, Score: score, PV: pv}, nil
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
