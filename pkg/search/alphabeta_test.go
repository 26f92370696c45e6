package search_test

import (
	"context"
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearch() search.Search {
	q := search.Quiescence{Eval: eval.Func{KingSafety: true}}
	return search.AlphaBeta{Eval: eval.Func{KingSafety: true}, Quiescence: q, NullMove: true}
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode("6k1/5ppp/8/8/8/8/8/R3K2R w KQ - 0 1", zt)
	require.NoError(t, err)

	res, err := newSearch().Search(context.Background(), pos, search.NoTable{}, 2, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)
	assert.True(t, res.Score.IsMate())
	assert.Greater(t, res.Score, eval.ZeroScore)
}

func TestAlphaBetaPreservesPosition(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(fen.StartPosition, zt)
	require.NoError(t, err)
	before := *pos

	_, err = newSearch().Search(context.Background(), pos, search.NoTable{}, 3, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)

	assert.Equal(t, before, *pos, "search must leave the position exactly as it found it")
}

func TestAlphaBetaScoreWithinWindow(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(fen.StartPosition, zt)
	require.NoError(t, err)

	res, err := newSearch().Search(context.Background(), pos, search.NoTable{}, 3, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)
	assert.Less(t, res.Score, eval.InfScore)
	assert.Greater(t, res.Score, eval.NegInfScore)
}

func TestAlphaBetaPVIsLegal(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(fen.StartPosition, zt)
	require.NoError(t, err)

	res, err := newSearch().Search(context.Background(), pos, search.NoTable{}, 2, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)

	for _, m := range res.PV {
		legal := pos.GenerateLegalMoves()
		found := false
		for _, lm := range legal {
			if lm.Equals(m) {
				found = true
				break
			}
		}
		require.True(t, found, "PV move %v not legal in position reached so far", m)
		pos.Do(lm(legal, m))
	}
}

// TestEndToEndScenarios covers four FEN scenarios of spec.md §8 end-to-end (the
// transposition-table scenario has its own test in this file):
// a full Search call against a real position, asserting on the exact reported
// score rather than just its sign or IsMate(), since an off-by-one in mate-score
// bookkeeping (or a stalemate misreported as a mate) would otherwise pass silently.
func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		check func(t *testing.T, pos *board.Position, res search.Result)
	}{
		{
			name:  "mate in one",
			fen:   "4k3/R7/4K3/8/8/8/8/8 w - -",
			depth: 2,
			check: func(t *testing.T, pos *board.Position, res search.Result) {
				assert.Equal(t, eval.MateIn(1), res.Score, "mate in 1 must score exactly MATE_VALUE-1")
				require.NotEmpty(t, res.PV)

				pos.Do(res.PV[0])
				assert.True(t, pos.IsCheck(pos.SideToMove()), "the mating move must leave the side to move in check")
				assert.Empty(t, pos.GenerateLegalMoves(), "the mating move must leave the side to move with no reply")
			},
		},
		{
			name:  "forced capture",
			fen:   "4k3/8/8/8/8/8/p7/K7 w - -",
			depth: 4,
			check: func(t *testing.T, pos *board.Position, res search.Result) {
				want, err := board.ParseMove("a1a2")
				require.NoError(t, err)
				require.NotEmpty(t, res.PV)

				assert.True(t, res.PV[0].Equals(want), "the hanging pawn on a2 must be captured, got %v", res.PV[0])
				assert.GreaterOrEqual(t, res.Score, eval.ZeroScore)
			},
		},
		{
			name:  "stalemate",
			fen:   "7k/5Q2/6K1/8/8/8/8/8 b - -",
			depth: 1,
			check: func(t *testing.T, pos *board.Position, res search.Result) {
				assert.Equal(t, eval.ZeroScore, res.Score, "stalemate must score exactly 0, not a mated score")
			},
		},
		{
			name:  "null-move safety: insufficient material",
			fen:   "8/8/8/8/8/6k1/8/6K1 w - -",
			depth: 1,
			check: func(t *testing.T, pos *board.Position, res search.Result) {
				assert.Equal(t, eval.ZeroScore, res.Score, "king-and-king must score exactly 0")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			zt := board.NewZobristTable(1)
			pos, err := fen.Decode(tc.fen, zt)
			require.NoError(t, err)

			res, err := newSearch().Search(context.Background(), pos, search.NoTable{}, tc.depth, eval.NegInfScore, eval.InfScore)
			require.NoError(t, err)
			tc.check(t, pos, res)
		})
	}
}

// TestEndToEndScenarios's fifth scenario, TT cutoff, needs a real shared table
// rather than search.NoTable{}, so it gets its own test.
func TestTranspositionTableCutoff(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(fen.StartPosition, zt)
	require.NoError(t, err)

	tt := search.NewTable(context.Background(), 1<<20)

	res1, err := newSearch().Search(context.Background(), pos, tt, 6, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)
	require.NotZero(t, res1.Nodes)

	res2, err := newSearch().Search(context.Background(), pos, tt, 4, eval.NegInfScore, eval.InfScore)
	require.NoError(t, err)

	assert.Zero(t, res2.Nodes, "a same-window re-search at a shallower depth must be satisfied entirely from the root's exact TT entry")
	assert.Equal(t, res1.Score, res2.Score)
}

func lm(legal board.MoveList, m board.Move) board.Move {
	for _, x := range legal {
		if x.Equals(m) {
			return x
		}
	}
	return board.NoMove
}
