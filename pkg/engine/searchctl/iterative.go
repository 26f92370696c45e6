package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// rootMoveQuietInterval is how long a depth must run before currmove progress pings
// start: per the UCI guidance, a GUI doesn't want a currmove flood on shallow,
// sub-second iterations.
const rootMoveQuietInterval = 1 * time.Second

// Iterative is a Launcher that repeatedly re-invokes Root at increasing depth,
// streaming one search.Info per completed iteration plus currmove progress pings
// once a depth runs past rootMoveQuietInterval, and stopping per opt's depth, node,
// or time limits (or an external Halt call).
type Iterative struct {
	Root search.AlphaBeta
}

func (i Iterative) Launch(ctx context.Context, pos *board.Position, tt search.TranspositionTable, opt Options) (Handle, <-chan search.Info) {
	out := make(chan search.Info, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, pos, tt, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	info search.Info
	mu   sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.AlphaBeta, pos *board.Position, tt search.TranspositionTable, opt Options, out chan search.Info) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := enforceTimeControl(ctx, h, opt.TimeControl, pos.SideToMove())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var best search.Info
	depth := 1
	begin := time.Now()
	for !h.quit.IsClosed() {
		start := time.Now()

		iter := root
		iter.OnRootMove = func(m board.Move, number, total int) {
			if time.Since(start) < rootMoveQuietInterval {
				return
			}
			select {
			case <-out:
			default:
			}
			out <- search.Info{CurrMove: m, CurrMoveNumber: number}
		}

		res, err := iter.Search(wctx, pos, tt, depth, eval.NegInfScore, eval.InfScore)
		if err != nil {
			if err == search.ErrHalted {
				return
			}
			logw.Errorf(ctx, "Search failed at depth=%v: %v", depth, err)
			return
		}

		best = search.Info{Depth: depth, Nodes: best.Nodes + res.Nodes, Score: res.Score, PV: res.PV}

		h.mu.Lock()
		h.info = best
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- best

		h.init.Close()

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if limit, ok := opt.NodeLimit.V(); ok && best.Nodes >= limit {
			return
		}
		if res.Score.IsMate() {
			return // forced mate found at full width: exact, no point searching deeper
		}
		if useSoft && soft < time.Since(begin) {
			return
		}
		depth++
	}
}

func (h *handle) Halt() search.Info {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.info
}
