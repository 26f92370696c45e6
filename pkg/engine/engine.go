// Package engine ties board, eval, search, and book together into the stateful
// object a protocol driver (UCI or console) talks to: one current position, one
// transposition table, one optional opening book, and at most one active search.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/herohde/daydreamer/pkg/book"
	"github.com/herohde/daydreamer/pkg/engine/searchctl"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/herohde/daydreamer/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are the engine's runtime-tunable parameters, mirroring the UCI options
// recognised by the protocol driver.
type Options struct {
	// Depth limits every search to this many plies. Zero means no limit (rely on
	// time control or an explicit stop).
	Depth uint
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
	// Noise adds up to this many centipawns of random noise to leaf evaluations.
	Noise uint
	// UseEndgameBitbases and EndgameBitbasePath are reserved: the fields exist so
	// the option is recognised and round-trips, but no tablebase probing is wired.
	UseEndgameBitbases bool
	EndgameBitbasePath string
	// OutputDelay is the minimum elapsed time, in ms, before search progress info
	// is emitted, to avoid flooding the protocol with early shallow iterations.
	OutputDelay uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, noise=%vcp}", o.Depth, o.Hash, o.Noise)
}

// TableFactory builds a transposition table of the given size in bytes.
type TableFactory func(ctx context.Context, sizeBytes uint64) search.TranspositionTable

// Engine encapsulates game-playing logic: the current position, its search
// components, and an optional opening book, as one long-lived object owned by the
// protocol driver for the life of the process.
type Engine struct {
	name, author string

	eval     eval.Evaluator
	nullMove bool
	factory  TableFactory
	zt       *board.ZobristTable
	seed     int64
	opts     Options
	book     lang.Optional[*book.Book]

	pos    *board.Position
	undos  []board.Undo
	keys   []board.ZobristKey // Zobrist keys of every position played so far, oldest first
	tt     search.TranspositionTable
	noise  eval.Random
	active searchctl.Handle
	mu     sync.Mutex
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTable configures the transposition table factory used on Reset.
func WithTable(factory TableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets the engine's initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the random seed used to build the Zobrist key table,
// instead of the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithBook opens a CTG opening book at path and makes it available to Move
// selection. A failure to open degrades to "no book" rather than a hard error,
// since a missing or unreadable book should never prevent the engine from playing.
func WithBook(ctx context.Context, path string) Option {
	return func(e *Engine) {
		b, err := book.Open(path)
		if err != nil {
			logw.Warningf(ctx, "Failed to open book %v: %v", path, err)
			return
		}
		e.book = lang.Some(b)
	}
}

// WithNullMove enables or disables null-move pruning in every search this engine
// launches. Default is enabled.
func WithNullMove(enabled bool) Option {
	return func(e *Engine) {
		e.nullMove = enabled
	}
}

// New creates a new engine, initialized at the standard starting position, that
// searches using ev as its static evaluator.
func New(ctx context.Context, name, author string, ev eval.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		eval:     ev,
		nullMove: true,
		factory: func(ctx context.Context, sizeBytes uint64) search.TranspositionTable {
			return search.NewTable(ctx, sizeBytes)
		},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	if err := e.Reset(ctx, fen.StartPosition); err != nil {
		panic(fmt.Sprintf("engine: invalid starting position: %v", err))
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine's name and version, as reported by "uci".
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the engine's author, as reported by "uci".
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	e.tt = e.newTable()
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = centipawns
	e.noise = e.newNoise()
}

// SetOutputDelay sets the minimum elapsed time, in ms, a protocol driver should
// wait between progress "info" lines for a single search.
func (e *Engine) SetOutputDelay(ms uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.OutputDelay = ms
}

func (e *Engine) newTable() search.TranspositionTable {
	if e.opts.Hash == 0 {
		return search.NoTable{}
	}
	return e.factory(context.Background(), uint64(e.opts.Hash)<<20)
}

func (e *Engine) newNoise() eval.Random {
	if e.opts.Noise == 0 {
		return eval.Random{}
	}
	return eval.NewRandom(int(e.opts.Noise), e.seed)
}

// Position returns the current position, as a defensive copy: callers must not be
// able to mutate engine state by holding onto the returned pointer.
func (e *Engine) Position() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pos.Clone()
}

// FEN returns the current position in Forsyth-Edwards notation.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.pos)
}

// Reset replaces the current position with the one encoded by position (FEN),
// clearing game history, the transposition table, and any active search.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, hash=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	_, _ = e.haltSearchIfActive(ctx)

	pos, err := fen.Decode(position, e.zt)
	if err != nil {
		return err
	}

	e.pos = pos
	e.undos = nil
	e.keys = []board.ZobristKey{pos.Key()}
	e.tt = e.newTable()
	e.noise = e.newNoise()

	logw.Infof(ctx, "New position: %v", fen.Encode(e.pos))
	return nil
}

// Move plays move (pure coordinate notation, e.g. "e2e4" or "a7a8q") against the
// current position, as typically happens when relaying the opponent's reply.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	for _, m := range e.pos.GenerateLegalMoves() {
		if !candidate.Equals(m) {
			continue
		}

		u := e.pos.Do(m)
		e.undos = append(e.undos, u)
		e.keys = append(e.keys, e.pos.Key())

		logw.Infof(ctx, "Move %v: %v", m, fen.Encode(e.pos))
		return nil
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

// TakeBack undoes the most recent move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	if len(e.undos) == 0 {
		return fmt.Errorf("no move to take back")
	}

	u := e.undos[len(e.undos)-1]
	e.undos = e.undos[:len(e.undos)-1]
	e.keys = e.keys[:len(e.keys)-1]
	e.pos.Undo(u)

	logw.Infof(ctx, "Takeback: %v", fen.Encode(e.pos))
	return nil
}

// BookMove returns a weighted book reply for the current position, if one is
// loaded and the position is covered by it.
func (e *Engine) BookMove(ctx context.Context) (board.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.book.V()
	if !ok {
		return board.NoMove, false
	}
	return b.Move(e.pos)
}

// Analyze launches a new search of the current position and returns a channel of
// deepening results. It is an error to call Analyze while a search is already
// active; call Halt first.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", fen.Encode(e.pos), opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	ev := e.eval
	if e.opts.Noise > 0 {
		ev = eval.Noisy{Eval: e.eval, Random: e.noise}
	}
	root := search.AlphaBeta{
		Eval:       ev,
		Quiescence: search.Quiescence{Eval: ev},
		NullMove:   e.nullMove,
		History:    append([]board.ZobristKey(nil), e.keys[:len(e.keys)-1]...),
	}
	launcher := searchctl.Iterative{Root: root}

	handle, out := launcher.Launch(ctx, e.pos.Clone(), e.tt, opt)
	e.active = handle
	return out, nil
}

// Halt stops the active search, if any, and returns its best result so far.
func (e *Engine) Halt(ctx context.Context) (search.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.Info{}, fmt.Errorf("no active search")
	}

	logw.Infof(ctx, "Halt: %v", info)
	return info, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.Info, bool) {
	if e.active != nil {
		info := e.active.Halt()
		e.active = nil
		return info, true
	}
	return search.Info{}, false
}
