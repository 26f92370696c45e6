// Package console implements a line-based debugging protocol for an Engine,
// an alternative to uci for interactive use from a terminal.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/engine"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "console"

// Driver implements the console protocol for local debugging: reset/print the
// position, analyze it, tune runtime options, and run perft counts.
type Driver struct {
	e *engine.Engine

	out    chan<- string
	active atomic.Bool // user is waiting for the engine to move

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
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

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed; exiting")
				return
			}
			d.dispatch(ctx, line)

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) dispatch(ctx context.Context, line string) {
	parts := strings.Fields(line)
	cmd, args := "", []string(nil)
	if len(parts) > 0 {
		cmd, args = strings.ToLower(parts[0]), parts[1:]
	}

	switch cmd {
	case "reset", "r":
		// reset [<fenstring>] [moves <move1> ...]
		d.ensureInactive(ctx)

		pos := fen.StartPosition
		if len(args) >= 6 && args[0] != "moves" {
			pos = strings.Join(args[0:6], " ")
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
		d.printBoard()

	case "undo", "u":
		d.ensureInactive(ctx)
		_ = d.e.TakeBack(ctx)
		d.printBoard()

	case "print", "p":
		d.printBoard()

	case "analyze", "a":
		d.ensureInactive(ctx)

		var opt searchctl.Options
		if len(args) > 0 {
			depth, _ := strconv.Atoi(args[0])
			opt.DepthLimit = lang.Some(uint(depth))
		}

		out, err := d.e.Analyze(ctx, opt)
		if err != nil {
			logw.Errorf(ctx, "Analyze failed: %v", err)
			return
		}
		d.active.Store(true)

		go func() {
			var last search.Info
			for info := range out {
				if info.CurrMove != board.NoMove {
					continue // currmove progress pings are a UCI-only concept; this console is human-read
				}
				last = info
				d.out <- fmt.Sprintf("depth %v  score %v  nodes %v  pv %v", info.Depth, info.Score, info.Nodes, info.PV)
			}
			d.searchCompleted(last)
		}()

	case "depth", "d":
		if len(args) > 0 {
			depth, _ := strconv.Atoi(args[0])
			d.e.SetDepth(uint(depth))
		}

	case "hash":
		if len(args) > 0 {
			hash, _ := strconv.Atoi(args[0])
			d.e.SetHash(uint(hash))
		}

	case "nohash":
		d.e.SetHash(0)

	case "noise":
		if len(args) > 0 {
			noise, _ := strconv.Atoi(args[0])
			d.e.SetNoise(uint(noise))
		}

	case "nonoise":
		d.e.SetNoise(0)

	case "perft":
		depth := 4
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				depth = n
			}
		}
		d.out <- fmt.Sprintf("perft(%v) = %v", depth, board.Perft(d.e.Position(), depth))

	case "halt", "stop":
		if info, err := d.e.Halt(ctx); err == nil {
			d.searchCompleted(info)
		}

	case "quit", "exit", "q":
		d.ensureInactive(ctx)
		d.Close()

	case "":
		// ignore empty lines

	default:
		// Anything unrecognized is assumed to be a move.
		d.ensureInactive(ctx)
		if err := d.e.Move(ctx, parts[0]); err != nil {
			d.out <- fmt.Sprintf("invalid move: %q", parts[0])
		} else {
			d.printBoard()
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

// searchCompleted emits the engine's chosen move, discarding a stale result that
// raced a "stop" against a search that had already finished on its own.
func (d *Driver) searchCompleted(info search.Info) {
	if !d.active.CAS(true, false) {
		return
	}
	if len(info.PV) > 0 {
		d.out <- fmt.Sprintf("bestmove %v", info.PV[0])
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard() {
	pos := d.e.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal

	for rank := 7; rank >= 0; rank-- {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(rank+1) + vertical)
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			p := pos.At(sq)
			if p.IsEmpty() {
				sb.WriteString(" ")
			} else {
				sb.WriteString(p.String())
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:  %v", fen.Encode(pos))
	d.out <- fmt.Sprintf("turn: %v  fullmove: %v  halfmove clock: %v  key: 0x%x",
		pos.SideToMove(), pos.FullmoveNumber(), pos.HalfmoveClock(), pos.Key())
	d.out <- ""
}
