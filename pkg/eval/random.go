package eval

import (
	"math/rand"

	"github.com/herohde/daydreamer/pkg/board"
)

// Random adds a small amount of noise to leaf evaluations, in centipawns, within
// [-limit/2; limit/2]. It exists so identical positions reached by different move
// orders don't always produce the engine's exact same choice; the zero value adds
// no noise.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{limit: limit, rand: rand.New(rand.NewSource(seed))}
}

func (n Random) Next() Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}

// Noisy wraps an Evaluator, adding Random's noise to every static evaluation.
type Noisy struct {
	Eval   Evaluator
	Random Random
}

func (n Noisy) Evaluate(pos *board.Position) Score {
	return n.Eval.Evaluate(pos) + n.Random.Next()
}
