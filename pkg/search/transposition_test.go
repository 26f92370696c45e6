package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTableSizeRoundsDownToPowerOfTwoEntries(t *testing.T) {
	ctx := context.Background()

	tt := search.NewTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())

	tt2 := search.NewTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())
}

func TestTableReadWrite(t *testing.T) {
	tt := search.NewTable(context.Background(), 1<<16)

	a := board.ZobristKey(rand.Uint64())

	_, _, _, _, ok := tt.Probe(a, 0)
	assert.False(t, ok)

	m := board.Move{From: board.NewSquare(6, 3), To: board.NewSquare(6, 7), Promotion: board.Queen}
	s := eval.Score(200)
	tt.Store(a, 0, 5, search.ExactBound, s, m)

	bound, depth, score, move, ok := tt.Probe(a, 0)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, s, score)
	assert.Equal(t, m, move)
}

func TestTableReplacesOnlyWithDeeperEntry(t *testing.T) {
	tt := search.NewTable(context.Background(), 1<<16)

	a := board.ZobristKey(12345)
	m := board.Move{From: board.NewSquare(4, 1), To: board.NewSquare(4, 3)}

	tt.Store(a, 0, 4, search.ExactBound, eval.Score(10), m)
	tt.Store(a, 0, 2, search.ExactBound, eval.Score(20), m) // shallower: must not replace

	_, depth, score, _, ok := tt.Probe(a, 0)
	assert.True(t, ok)
	assert.Equal(t, 4, depth)
	assert.Equal(t, eval.Score(10), score)

	tt.Store(a, 0, 6, search.ExactBound, eval.Score(30), m) // deeper: replaces

	_, depth, score, _, ok = tt.Probe(a, 0)
	assert.True(t, ok)
	assert.Equal(t, 6, depth)
	assert.Equal(t, eval.Score(30), score)
}

func TestTableRebasesMateScoresToRootPly(t *testing.T) {
	tt := search.NewTable(context.Background(), 1<<16)

	a := board.ZobristKey(999)
	m := board.NoMove

	// A mate-in-3-from-here score, stored from a node 4 plies below the root.
	tt.Store(a, 4, 1, search.ExactBound, eval.MateIn(3), m)

	// Probed from a different ply, the stored (node-relative) mate distance must be
	// rebased to read correctly relative to the new ply.
	_, _, score, _, ok := tt.Probe(a, 2)
	assert.True(t, ok)
	assert.True(t, score.IsMate())
}

func TestNoTableAlwaysMisses(t *testing.T) {
	var tt search.NoTable

	_, _, _, _, ok := tt.Probe(board.ZobristKey(1), 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tt.Size())

	tt.Store(board.ZobristKey(1), 0, 10, search.ExactBound, eval.Score(5), board.NoMove)

	_, _, _, _, ok = tt.Probe(board.ZobristKey(1), 0)
	assert.False(t, ok, "NoTable never actually stores anything")
}
