package engine_test

import (
	"context"
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "daydreamer-test", "test-suite", eval.Func{KingSafety: true})
}

func TestEngineResetAndFEN(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, fen.StartPosition, e.FEN())

	require.NoError(t, e.Reset(context.Background(), "8/8/8/4k3/8/8/4K3/8 w - - 0 1"))
	assert.Equal(t, "8/8/8/4k3/8/8/4K3/8 w - - 0 1", e.FEN())
}

func TestEngineMoveAndTakeBack(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.StartPosition, e.FEN())

	require.Error(t, e.Move(ctx, "e2e4"), "e2e4 is no longer legal once played")

	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, fen.StartPosition, e.FEN())

	require.Error(t, e.TakeBack(ctx), "nothing left to take back")
}

func TestEngineMoveRejectsIllegalMove(t *testing.T) {
	e := newEngine(t)
	assert.Error(t, e.Move(context.Background(), "e2e5"))
}

func TestEngineAnalyzeProducesDeepingResults(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	require.NoError(t, err)

	var last board.MoveList
	for info := range out {
		last = info.PV
	}
	assert.NotEmpty(t, last)

	_, err = e.Halt(ctx)
	assert.NoError(t, err, "Halt still reports the result of a search that already ran to completion")
}

func TestEngineAnalyzeRejectsConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	_, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	require.NoError(t, err)

	_, err = e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	assert.Error(t, err)

	_, _ = e.Halt(ctx)
}
