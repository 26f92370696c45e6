package board

import "math/rand"

// ZobristKey is a 64-bit position key used both for transposition table addressing and
// for draw-by-repetition detection.
type ZobristKey uint64

// ZobristTable is a pseudo-randomized table for incrementally computing ZobristKeys.
// See: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristTable struct {
	piece  [15][128]ZobristKey // by combined Piece code, by Square
	castle [NumCastleRights]ZobristKey
	ep     [128]ZobristKey // by Square (only en-passant-capturable squares are populated)
	turn   ZobristKey
}

// NewZobristTable builds a table from the given seed. Seed zero is the engine default;
// a different seed only matters for tests that want reproducible-but-distinct keys.
func NewZobristTable(seed int64) *ZobristTable {
	r := rand.New(rand.NewSource(seed))
	t := &ZobristTable{}

	for p := Piece(0); p < 15; p++ {
		for sq := Square(0); sq < 128; sq++ {
			if !sq.IsValid() {
				continue
			}
			t.piece[p][sq] = ZobristKey(r.Uint64())
		}
	}
	for c := CastleRights(0); c < NumCastleRights; c++ {
		t.castle[c] = ZobristKey(r.Uint64())
	}
	for file := 0; file < 8; file++ {
		t.ep[NewSquare(file, 2)] = ZobristKey(r.Uint64())
		t.ep[NewSquare(file, 5)] = ZobristKey(r.Uint64())
	}
	t.turn = ZobristKey(r.Uint64())
	return t
}

// Hash computes the full Zobrist key for a position from scratch. Used at load time;
// Do/Undo maintain the key incrementally afterwards.
func (t *ZobristTable) Hash(pos *Position) ZobristKey {
	var h ZobristKey
	for sq := Square(0); sq < 128; sq++ {
		if !sq.IsValid() {
			continue
		}
		if p := pos.board[sq]; !p.IsEmpty() {
			h ^= t.piece[p][sq]
		}
	}
	h ^= t.castle[pos.castle]
	if pos.epSquare != 0 {
		h ^= t.ep[pos.epSquare]
	}
	if pos.sideToMove == Black {
		h ^= t.turn
	}
	return h
}
