package book

import (
	"math/rand"

	"github.com/herohde/daydreamer/pkg/board"
)

// candidate is one decoded, weighted reply available from a book position.
type candidate struct {
	Move   board.Move
	Weight int
}

// moveWeight scores a candidate move by the outcome statistics recorded for the
// position it leads to (not the position it's played from): the book keys wins,
// losses, and draws by the position reached, so weighing the move means playing it
// and looking up what happened from there.
func (b *Book) moveWeight(pos *board.Position, m board.Move) int {
	u := pos.Do(m)
	defer pos.Undo(u)

	e, ok := b.lookup(pos)
	if !ok {
		return 0
	}

	halfPoints := float64(2*e.wins + e.draws + 1)
	games := float64(e.wins + e.draws + e.losses + 1)
	weight := int(halfPoints / games * 100000)

	switch e.recommendation {
	case 64:
		weight = 0
	case 128:
		weight *= 128
	}
	return weight
}

// candidates decodes every move byte in e against pos and weighs each by the
// statistics of the position it leads to. Moves that fail to decode (a corrupt or
// unrecognized byte) are silently skipped.
func (b *Book) candidates(pos *board.Position, e entry) []candidate {
	var out []candidate
	for i := 0; i+1 < len(e.moveBytes); i += 2 {
		m, ok := byteToMove(pos, e.moveBytes[i])
		if !ok {
			continue
		}
		out = append(out, candidate{Move: m, Weight: b.moveWeight(pos, m)})
	}
	return out
}

// pickMove draws a move from candidates, weighted proportionally. It mirrors the
// reference engine's cumulative-weight selection, adapted to math/rand. A
// zero-total-weight book arises when every candidate was suppressed (recommendation
// 64), so no move is played rather than picking one of the suppressed candidates
// uniformly.
func pickMove(rng *rand.Rand, cands []candidate) (board.Move, bool) {
	if len(cands) == 0 {
		return board.NoMove, false
	}

	total := 0
	for _, c := range cands {
		total += c.Weight
	}
	if total <= 0 {
		return board.NoMove, false
	}

	choice := rng.Intn(total)
	cum := 0
	for _, c := range cands {
		cum += c.Weight
		if choice < cum {
			return c.Move, true
		}
	}
	return cands[len(cands)-1].Move, true
}
