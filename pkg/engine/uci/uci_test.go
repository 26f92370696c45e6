package uci_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/uci"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T) (chan string, <-chan string) {
	t.Helper()
	ctx := context.Background()
	e := engine.New(ctx, "daydreamer-test", "test-suite", eval.Func{KingSafety: true})

	in := make(chan string, 10)
	_, out := uci.NewDriver(ctx, e, in)
	return in, out
}

func drainUntil(t *testing.T, out <-chan string, prefix string) []string {
	t.Helper()
	var lines []string
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				t.Fatalf("output closed before seeing %q: %v", prefix, lines)
			}
			lines = append(lines, line)
			if strings.HasPrefix(line, prefix) {
				return lines
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q: %v", prefix, lines)
		}
	}
}

func TestUCIHandshake(t *testing.T) {
	_, out := newDriver(t)
	lines := drainUntil(t, out, "uciok")

	assert.True(t, strings.HasPrefix(lines[0], "id name"))
	assert.True(t, strings.HasPrefix(lines[1], "id author"))
}

func TestUCIIsReady(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "uciok")

	in <- "isready"
	lines := drainUntil(t, out, "readyok")
	assert.Equal(t, "readyok", lines[len(lines)-1])
}

func TestUCIPositionAndGoDepthProducesBestMove(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "uciok")

	in <- "setoption name OwnBook value false"
	in <- "position startpos"
	in <- "go depth 2"

	lines := drainUntil(t, out, "bestmove")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "bestmove "))
	assert.NotEqual(t, "bestmove 0000", last)
}

func TestUCIQuitClosesDriver(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "daydreamer-test", "test-suite", eval.Func{KingSafety: true})

	in := make(chan string, 10)
	d, out := uci.NewDriver(ctx, e, in)

	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not close after quit")
	}

	// Draining out must not block forever once the driver has closed it.
	for range out {
	}
	require.True(t, true)
}
