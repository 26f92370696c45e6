package board_test

import (
	"testing"

	"github.com/herohde/daydreamer/pkg/board"
	"github.com/herohde/daydreamer/pkg/board/fen"
	"github.com/stretchr/testify/assert"
)

func TestPerftFromStartingPosition(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := mustDecode(t, fen.StartPosition, zt)

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, board.Perft(pos, tt.depth))
	}
}

func TestPerftKiwipeteMiddlegamePosition(t *testing.T) {
	// A well-known perft stress position exercising castling, en passant and
	// promotions: https://www.chessprogramming.org/Perft_Results#Position_2
	zt := board.NewZobristTable(1)
	pos := mustDecode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", zt)

	assert.Equal(t, uint64(48), board.Perft(pos, 1))
	assert.Equal(t, uint64(2039), board.Perft(pos, 2))
}
