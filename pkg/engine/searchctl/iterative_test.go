package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPosition(t *testing.T) *board.Position {
	t.Helper()
	pos, err := fen.Decode(fen.StartPosition, board.NewZobristTable(1))
	require.NoError(t, err)
	return pos
}

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	root := search.AlphaBeta{Eval: eval.Func{}, Quiescence: search.Quiescence{Eval: eval.Func{}}}
	launcher := searchctl.Iterative{Root: root}

	pos := startPosition(t)
	handle, out := launcher.Launch(context.Background(), pos, search.NoTable{}, searchctl.Options{DepthLimit: lang.Some(uint(3))})

	var last search.Info
	for info := range out {
		last = info
		assert.LessOrEqual(t, info.Depth, 3)
	}
	assert.Equal(t, 3, last.Depth)
	assert.NotEmpty(t, last.PV)

	// The search already ran to completion; Halt just reports the final result.
	info := handle.Halt()
	assert.Equal(t, last, info)
}

func TestIterativeHaltStopsABackgroundSearch(t *testing.T) {
	root := search.AlphaBeta{Eval: eval.Func{}, Quiescence: search.Quiescence{Eval: eval.Func{}}}
	launcher := searchctl.Iterative{Root: root}

	pos := startPosition(t)
	handle, out := launcher.Launch(context.Background(), pos, search.NoTable{}, searchctl.Options{})

	// Let it run a couple of shallow iterations, then halt it before it reaches
	// a depth deep enough to take unbounded time.
	time.Sleep(20 * time.Millisecond)
	info := handle.Halt()

	assert.NotEmpty(t, info.PV)
	_, open := <-out
	assert.False(t, open, "the search goroutine must close out after being halted")
}
