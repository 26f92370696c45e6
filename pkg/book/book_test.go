package book

import (
	"math/rand"
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) *board.Position {
	t.Helper()
	pos, err := fen.Decode(s, board.NewZobristTable(1))
	require.NoError(t, err)
	return pos
}

func TestPositionSignatureDeterministic(t *testing.T) {
	pos := mustDecode(t, fen.StartPosition)
	a := positionSignature(pos)
	b := positionSignature(pos)
	assert.Equal(t, a.buf, b.buf)
}

func TestPositionSignatureMirrorsSideToMove(t *testing.T) {
	// A symmetric position (only kings, mirrored across the board) must produce the
	// same canonical signature whichever side is to move, since the encoding always
	// normalizes to "white" being the side on move.
	white := mustDecode(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	black := mustDecode(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")

	assert.Equal(t, positionSignature(white).buf, positionSignature(black).buf)
}

func TestPositionSignatureHeaderByte(t *testing.T) {
	pos := mustDecode(t, fen.StartPosition)
	sig := positionSignature(pos)

	require.NotEmpty(t, sig.buf)
	assert.Equal(t, byte(len(sig.buf)), sig.buf[0]&0x1f, "low 5 bits of the header byte record the signature length")
	assert.NotZero(t, sig.buf[0]&(1<<6), "starting position has full castling rights, so the castle flag bit must be set")
}

func TestSignatureHashDeterministic(t *testing.T) {
	pos := mustDecode(t, fen.StartPosition)
	sig := positionSignature(pos)

	assert.Equal(t, signatureHash(sig), signatureHash(sig))
}

func TestSignatureHashDiffersAcrossPositions(t *testing.T) {
	a := positionSignature(mustDecode(t, fen.StartPosition))
	b := positionSignature(mustDecode(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"))

	assert.NotEqual(t, signatureHash(a), signatureHash(b))
}

func TestSquaresToMoveDefaultsPromotionToQueen(t *testing.T) {
	pos := mustDecode(t, "8/P7/8/8/8/8/8/k1K5 w - - 0 1")

	m, ok := squaresToMove(pos, board.NewSquare(0, 6), board.NewSquare(0, 7))
	require.True(t, ok)
	assert.Equal(t, board.Queen, m.Promotion)
}

func TestPickMoveWeightedSelection(t *testing.T) {
	e4 := board.Move{From: board.NewSquare(4, 1), To: board.NewSquare(4, 3)}
	d4 := board.Move{From: board.NewSquare(3, 1), To: board.NewSquare(3, 3)}
	cands := []candidate{
		{Move: e4, Weight: 0},
		{Move: d4, Weight: 100},
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		m, ok := pickMove(rng, cands)
		require.True(t, ok)
		assert.Equal(t, d4, m, "the only nonzero-weight candidate must always be chosen")
	}
}

func TestPickMoveDeclinesWhenAllWeightsZero(t *testing.T) {
	e4 := board.Move{From: board.NewSquare(4, 1), To: board.NewSquare(4, 3)}
	d4 := board.Move{From: board.NewSquare(3, 1), To: board.NewSquare(3, 3)}
	cands := []candidate{
		{Move: e4, Weight: 0},
		{Move: d4, Weight: 0},
	}

	rng := rand.New(rand.NewSource(1))
	_, ok := pickMove(rng, cands)
	require.False(t, ok, "when every candidate weighs zero, no book move is played")
}

func TestPickMoveEmptyCandidates(t *testing.T) {
	_, ok := pickMove(rand.New(rand.NewSource(1)), nil)
	assert.False(t, ok)
}
