// Package searchctl manages the lifecycle of an in-flight search: launching it on
// its own goroutine, streaming back deepening iterations, and halting it from
// whatever goroutine is driving the protocol loop.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold the dynamic, per-search options a protocol driver may set on a
// particular "go" command.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[uint]
	// NodeLimit, if set, stops deepening once the cumulative node count across
	// completed iterations reaches the given total.
	NodeLimit lang.Optional[uint64]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.NodeLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("nodes=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages searches against a live position.
type Launcher interface {
	// Launch starts a new iterative-deepening search from pos, which must not be
	// mutated concurrently by the caller while the search is running. It returns a
	// Handle to control the search and a channel of deepening results, closed when
	// the search is exhausted or halted.
	Launch(ctx context.Context, pos *board.Position, tt search.TranspositionTable, opt Options) (Handle, <-chan search.Info)
}

// Handle lets the engine manage a launched search from a different goroutine than
// the one running it.
type Handle interface {
	// Halt stops the search, if running, and returns its best result so far.
	// Idempotent.
	Halt() search.Info
}
