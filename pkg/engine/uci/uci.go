// Package uci drives an Engine over the Universal Chess Interface protocol:
// http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ProtocolName is the first line a GUI sends to select this driver.
const ProtocolName = "uci"

// Driver speaks UCI over a pair of line channels on behalf of an Engine.
type Driver struct {
	e *engine.Engine

	out chan<- string

	useBook atomic.Bool

	active       atomic.Bool      // a "go" is outstanding and awaiting "bestmove"
	info         chan search.Info // forwards deepening iterations from the active search
	lastPosition string           // last "position" line, to detect incremental updates
	lastEmit     time.Time        // when an "info" line was last written, for Output Delay throttling

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver reading lines from in and writing replies to the
// returned channel, until in closes or "quit" is received.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		info: make(chan search.Info, 400),
		quit: make(chan struct{}),
	}
	d.useBook.Store(true)

	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "option name Hash type spin default 0 min 0 max 4096"
	d.out <- "option name OwnBook type check default true"
	d.out <- "option name Noise type spin default 0 min 0 max 200"
	d.out <- "option name Output Delay type spin default 0 min 0 max 5000"
	d.out <- "option name Use endgame bitbases type check default false"
	d.out <- "option name Endgame bitbase path type string default <empty>"
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed; exiting")
				return
			}
			d.dispatch(ctx, line)

		case info := <-d.info:
			if d.active.Load() && time.Since(d.lastEmit) >= time.Duration(d.e.Options().OutputDelay)*time.Millisecond {
				d.out <- formatInfo(info)
				d.lastEmit = time.Now()
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) dispatch(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "isready":
		d.out <- "readyok"

	case "debug", "register", "ponderhit":
		// Acknowledged but unused: no debug-trace mode, no registration wall, and
		// ponder moves are never started unsolicited so there's nothing to "hit".

	case "setoption":
		d.setOption(args)

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""

	case "position":
		d.position(ctx, line, args)

	case "go":
		d.goCommand(ctx, line, args)

	case "stop":
		if info, err := d.e.Halt(ctx); err == nil {
			d.searchCompleted(info)
		}

	case "quit":
		d.Close()

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
}

// setOption applies "setoption name <id> [value <x>]", matching the recognised
// options advertised at startup.
func (d *Driver) setOption(args []string) {
	// "setoption name <id...> value <x...>": the id itself may contain spaces
	// ("Output Delay", "Use endgame bitbases"), so join everything between the
	// "name" and "value" markers rather than assuming a single token.
	var id, value string
	if i := indexOf(args, "name"); i >= 0 {
		end := len(args)
		if v := indexOf(args, "value"); v >= 0 {
			end = v
			value = strings.Join(args[v+1:], " ")
		}
		id = strings.Join(args[i+1:end], " ")
	}

	switch id {
	case "OwnBook":
		if b, err := strconv.ParseBool(value); err == nil {
			d.useBook.Store(b)
		}
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(uint(n))
		}
	case "Noise":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetNoise(uint(n))
		}
	case "Output Delay":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetOutputDelay(uint(n))
		}
	case "Use endgame bitbases", "Endgame bitbase path":
		// Recognised so the option round-trips; no tablebase probing is wired.
	}
}

// position applies "position [fen <fenstring> | startpos] moves <move1> ...",
// reusing the engine's current position via Move when line is an incremental
// continuation of the last one seen, to avoid reparsing the whole game from FEN.
func (d *Driver) position(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	pos := fen.StartPosition
	if len(args) >= 7 && args[0] == "fen" {
		pos = strings.Join(args[1:7], " ")
	}
	if err := d.e.Reset(ctx, pos); err != nil {
		logw.Errorf(ctx, "Invalid position: %v", line)
		return
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
			return
		}
	}
	d.lastPosition = line
}

// goCommand applies "go [depth|movetime|wtime|btime|movestogo|infinite ...]",
// consulting the opening book before falling back to search.
func (d *Driver) goCommand(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	infinite := false
	var movetime time.Duration
	var tc searchctl.TimeControl
	haveTC := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth", "movetime", "wtime", "btime", "movestogo", "nodes":
			cmd := args[i]
			i++
			if i == len(args) {
				logw.Errorf(ctx, "Missing argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}
			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "movetime":
				movetime = time.Millisecond * time.Duration(n)
			case "wtime":
				tc.White, haveTC = time.Millisecond*time.Duration(n), true
			case "btime":
				tc.Black, haveTC = time.Millisecond*time.Duration(n), true
			case "movestogo":
				tc.Moves, haveTC = n, true
			case "nodes":
				opt.NodeLimit = lang.Some(uint64(n))
			}
		case "infinite":
			infinite = true
		default:
			// searchmoves, ponder, mate: recognised by the protocol, no effect here.
		}
	}
	if haveTC {
		opt.TimeControl = lang.Some(tc)
	}

	if d.useBook.Load() {
		if m, ok := d.e.BookMove(ctx); ok {
			d.active.Store(true)
			d.searchCompleted(search.Info{PV: board.MoveList{m}})
			return
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)
	d.lastEmit = time.Now()

	go func() {
		var last search.Info
		for info := range out {
			last = info
			d.info <- info
		}
		if !infinite {
			d.searchCompleted(last)
		}
	}()

	if movetime > 0 {
		time.AfterFunc(movetime, func() {
			_, _ = d.e.Halt(ctx)
		})
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

// searchCompleted emits the final info/bestmove pair for a search, idempotently:
// a "stop" racing a search that just finished on its own must not emit twice.
func (d *Driver) searchCompleted(info search.Info) {
	if !d.active.CAS(true, false) {
		return
	}

	if len(info.PV) == 0 {
		d.out <- "bestmove 0000"
		return
	}

	d.out <- formatInfo(info)
	d.out <- fmt.Sprintf("bestmove %v", info.PV[0])
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func formatInfo(info search.Info) string {
	if info.CurrMove != board.NoMove {
		return fmt.Sprintf("info currmove %v currmovenumber %v", info.CurrMove, info.CurrMoveNumber)
	}

	parts := []string{"info", fmt.Sprintf("depth %v", info.Depth)}
	if moves, ok := info.Score.MateDistance(); ok {
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(info.Score)))
	}
	if info.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", info.Nodes))
	}
	if len(info.PV) > 0 {
		parts = append(parts, "pv", info.PV.String())
	}
	return strings.Join(parts, " ")
}
