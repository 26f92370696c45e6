package board_test

import (
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string, zt *board.ZobristTable) *board.Position {
	t.Helper()
	pos, err := fen.Decode(s, zt)
	require.NoError(t, err)
	return pos
}

func TestDoUndoRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(1)

	tests := []struct {
		name string
		fen  string
		move string
	}{
		{"quiet", fen.StartPosition, "g1f3"},
		{"double push", fen.StartPosition, "e2e4"},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5"},
		{"en passant", "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3", "d4e3"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8"},
		{"promotion", "8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8q"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustDecode(t, tc.fen, zt)
			before := *pos

			legal := pos.GenerateLegalMoves()
			var match board.Move
			found := false
			for _, m := range legal {
				if m.From.String()+m.To.String() == tc.move[:4] {
					match = m
					found = true
					break
				}
			}
			require.True(t, found, "move %s not found among legal moves %v", tc.move, legal)

			beforeKey := pos.Key()
			u := pos.Do(match)
			assert.NotEqual(t, beforeKey, pos.Key(), "key should change after a move")
			pos.Undo(u)

			assert.Equal(t, before, *pos, "Undo must exactly reverse Do")
			assert.Equal(t, beforeKey, pos.Key())
		})
	}
}

func TestIsCheck(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := mustDecode(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", zt)
	assert.True(t, pos.IsCheck(board.White))
}

func TestStartPositionMoveCount(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := mustDecode(t, fen.StartPosition, zt)
	assert.Len(t, pos.GenerateLegalMoves(), 20)
}

func TestStaticExchangeEval(t *testing.T) {
	zt := board.NewZobristTable(1)
	// White rook takes a pawn defended by a bishop: RxP, BxR nets -400 for White.
	pos := mustDecode(t, "4k3/8/8/4b3/8/2p5/2R5/4K3 w - - 0 1", zt)
	legal := pos.GenerateLegalMoves()
	var capture board.Move
	for _, m := range legal {
		if m.From == board.NewSquare(2, 1) && m.To == board.NewSquare(2, 2) {
			capture = m
		}
	}
	require.False(t, capture.IsNone())
	assert.Equal(t, board.PawnValue-board.RookValue, pos.StaticExchangeEval(capture))
}
