package console_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/console"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func newDriver(t *testing.T) (chan string, <-chan string) {
	t.Helper()
	ctx := context.Background()
	e := engine.New(ctx, "daydreamer-test", "test-suite", eval.Func{KingSafety: true})

	in := make(chan string, 10)
	_, out := console.NewDriver(ctx, e, in)
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

func TestConsolePrintsBoardOnStartup(t *testing.T) {
	_, out := newDriver(t)
	lines := drainUntil(t, out, "fen:")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "w KQkq - 0 1"))
}

func TestConsoleMoveCommandAdvancesPosition(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "fen:")

	in <- "e2e4"
	lines := drainUntil(t, out, "fen:")
	assert.Contains(t, lines[len(lines)-1], "b KQkq e3")
}

func TestConsoleInvalidMoveIsReported(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "fen:")

	in <- "e2e5"
	lines := drainUntil(t, out, "invalid move")
	assert.Contains(t, lines[len(lines)-1], "e2e5")
}

func TestConsolePerft(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "fen:")

	in <- "perft 2"
	lines := drainUntil(t, out, "perft(2)")
	assert.Contains(t, lines[len(lines)-1], "= 400")
}

func TestConsoleAnalyzeProducesBestMove(t *testing.T) {
	in, out := newDriver(t)
	drainUntil(t, out, "fen:")

	in <- "analyze 2"
	lines := drainUntil(t, out, "bestmove")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "bestmove "))
}
