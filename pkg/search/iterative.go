package search

import (
	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/eval"
)

// Info reports one completed iterative-deepening pass: how deep it went, how much
// work it did, and the resulting principal variation. A root-move progress ping
// (sent while a depth is still being searched, not a completed iteration) carries
// only CurrMove/CurrMoveNumber and leaves Depth zero.
type Info struct {
	Depth int
	Nodes uint64
	Score eval.Score
	PV    board.MoveList

	CurrMove       board.Move
	CurrMoveNumber int
}
