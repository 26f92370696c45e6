package book

import (
	"math/rand"
	"time"

	"github.com/herohde/daydreamer/pkg/board"
)

// lookup resolves pos's canonical signature to a book entry, if the position is
// covered by the book at all.
func (b *Book) lookup(pos *board.Position) (entry, bool) {
	sig := positionSignature(pos)
	hash := signatureHash(sig)

	page, ok := b.pageIndex(hash)
	if !ok {
		return entry{}, false
	}
	return b.lookupEntry(page, sig)
}

// Move returns a book reply for pos, weighted by the recorded outcome statistics of
// the positions each candidate reply leads to, or false if pos isn't in the book.
func (b *Book) Move(pos *board.Position) (board.Move, bool) {
	return b.MoveRand(pos, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// MoveRand is Move with an explicit random source, for deterministic tests.
func (b *Book) MoveRand(pos *board.Position, rng *rand.Rand) (board.Move, bool) {
	e, ok := b.lookup(pos)
	if !ok || e.numMoves() == 0 {
		return board.NoMove, false
	}

	cands := b.candidates(pos, e)
	return pickMove(rng, cands)
}
