package search

import (
	"context"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound records how a stored score relates to the true value of the node: Exact
// means the search completed within its window, Lower means the true value is at
// least the stored score (a beta cutoff occurred), Upper means the true value is at
// most the stored score (every move failed low).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash so that
// transposing move orders reuse work instead of re-searching. Mate scores are
// stored relative to the storing node via Score.ToTT and rebased to the probing
// ply via FromTT, so a mate score cached at one ply still reads correctly at
// another. Must be thread-safe.
type TranspositionTable interface {
	// Probe returns the bound, depth, score and best move for hash, if present.
	// ply is the current distance from the search root, used to rebase mate scores.
	Probe(hash board.ZobristKey, ply int) (Bound, int, eval.Score, board.Move, bool)
	// Store records an entry, subject to the table's replacement policy.
	Store(hash board.ZobristKey, ply, depth int, bound Bound, score eval.Score, move board.Move)

	Size() uint64
	Used() float64
}

// entry is a transposition table slot, stored behind a pointer so reads and writes
// can proceed lock-free.
type entry struct {
	hash  board.ZobristKey
	score eval.Score
	move  board.Move
	depth int16
	bound Bound
}

// Table is a fixed-size, lock-free hash table of entries, replacing on depth: an
// existing entry for the same position is kept only if it is deeper than the new
// one; an entry for a different position sharing the slot is always overwritten.
type Table struct {
	slots []unsafe.Pointer // *entry
	mask  uint64
	used  int64
}

// NewTable allocates a table sized to the largest power-of-two entry count that
// fits within sizeBytes.
func NewTable(ctx context.Context, sizeBytes uint64) *Table {
	const entrySize = 32 // an entry's in-memory footprint plus its slot pointer
	n := uint64(1)
	if count := sizeBytes / entrySize; count > 0 {
		n = uint64(1) << (bits.Len64(count) - 1)
	}
	logw.Infof(ctx, "allocating %vMB transposition table with %v entries", sizeBytes>>20, n)
	return &Table{
		slots: make([]unsafe.Pointer, n),
		mask:  n - 1,
	}
}

func (t *Table) Size() uint64 {
	return uint64(len(t.slots)) * 32
}

func (t *Table) Used() float64 {
	return float64(atomic.LoadInt64(&t.used)) / float64(len(t.slots))
}

func (t *Table) Probe(hash board.ZobristKey, ply int) (Bound, int, eval.Score, board.Move, bool) {
	idx := uint64(hash) & t.mask
	p := (*entry)(atomic.LoadPointer(&t.slots[idx]))
	if p == nil || p.hash != hash {
		return ExactBound, 0, eval.InvalidScore, board.NoMove, false
	}
	return p.bound, int(p.depth), p.score.FromTT(ply), p.move, true
}

func (t *Table) Store(hash board.ZobristKey, ply, depth int, bound Bound, score eval.Score, move board.Move) {
	idx := uint64(hash) & t.mask
	fresh := &entry{
		hash:  hash,
		score: score.ToTT(ply),
		move:  move,
		depth: int16(depth),
		bound: bound,
	}
	for {
		old := (*entry)(atomic.LoadPointer(&t.slots[idx]))
		if old != nil && old.hash == hash && old.depth > fresh.depth {
			return // keep the deeper existing entry for this position
		}
		if atomic.CompareAndSwapPointer(&t.slots[idx], unsafe.Pointer(old), unsafe.Pointer(fresh)) {
			if old == nil {
				atomic.AddInt64(&t.used, 1)
			}
			return
		}
	}
}

// NoTable is a no-op TranspositionTable, useful for tests or TT-less search.
type NoTable struct{}

func (NoTable) Probe(board.ZobristKey, int) (Bound, int, eval.Score, board.Move, bool) {
	return ExactBound, 0, eval.InvalidScore, board.NoMove, false
}
func (NoTable) Store(board.ZobristKey, int, int, Bound, eval.Score, board.Move) {}
func (NoTable) Size() uint64                                                   { return 0 }
func (NoTable) Used() float64                                                  { return 0 }
