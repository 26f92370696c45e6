// Package book reads Chessbase's CTG opening-book format: a position-keyed store of
// recommended moves with win/draw/loss statistics, spread across a paged .ctg data
// file, a .cto hash index, and a .ctb header holding the valid page-index bounds.
package book

import "github.com/herohde/daydreamer/pkg/board"

// signature is the canonical, side-to-move-and-mirror-normalized encoding of a
// position that the book is keyed by. Byte 0 is a header (length plus flags); the
// rest packs one variable-width code per square, followed by castling/en-passant
// flag bits.
type signature struct {
	buf []byte
}

// pieceCode holds the (LSB-first bit pattern, bit count) used to encode each
// occupant of a square, indexed by board.Piece. These exact codes are what let a
// signature computed here match entries in a real CTG file.
var pieceCode = [15]struct {
	bits    uint8
	numBits int
}{
	board.Empty: {0x0, 1},
	board.WP:    {0x3, 3},
	board.WN:    {0x9, 5},
	board.WB:    {0x5, 5},
	board.WR:    {0xD, 5},
	board.WQ:    {0x11, 6},
	board.WK:    {0x1, 6},
	board.BP:    {0x7, 3},
	board.BN:    {0x19, 5},
	board.BB:    {0x15, 5},
	board.BR:    {0x1D, 5},
	board.BQ:    {0x31, 6},
	board.BK:    {0x21, 6},
}

// flipPieceColor swaps a piece's color while keeping its type, used to relabel a
// black-to-move position as if it were white's canonical perspective.
func flipPieceColor(p board.Piece) board.Piece {
	if p.IsEmpty() {
		return board.Empty
	}
	return board.NewPiece(p.Color().Opponent(), p.Type())
}

// bitWriter appends bits one at a time, most-significant-bit first within each byte,
// auto-extending the backing buffer -- the same layout as the format's own
// append_bits_reverse helper.
type bitWriter struct {
	buf []byte
	pos int
}

// writeBits appends the low numBits bits of v, least-significant bit first.
func (w *bitWriter) writeBits(v uint8, numBits int) {
	for i := 0; i < numBits; i++ {
		byteIdx := w.pos / 8
		for byteIdx >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if v&1 != 0 {
			w.buf[byteIdx] |= 1 << (7 - uint(w.pos%8))
		}
		v >>= 1
		w.pos++
	}
}

// positionSignature computes the canonical signature for pos: mirrored to put the
// side to move "on move as White", and further mirrored file-wise if that side's
// king sits queenside with nobody able to castle.
func positionSignature(pos *board.Position) signature {
	w := &bitWriter{buf: make([]byte, 1, 40), pos: 8} // byte 0 reserved for the header

	flipBoard := pos.SideToMove() == board.Black
	white := board.White
	if flipBoard {
		white = board.Black
	}
	mirrorBoard := pos.King(white).File() < 4 && pos.Castle() == 0

	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			sq := board.NewSquare(file, rank)
			if flipBoard {
				sq = sq.MirrorRank()
			}
			if mirrorBoard {
				sq = sq.MirrorFile()
			}
			p := pos.At(sq)
			if flipBoard {
				p = flipPieceColor(p)
			}
			c := pieceCode[p]
			w.writeBits(c.bits, c.numBits)
		}
	}

	ep := -1
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.File()
		if mirrorBoard {
			ep = 7 - ep
		}
	}

	castle := 0
	if pos.Castle().HasOO(white) {
		castle += 4
	}
	if pos.Castle().HasOOO(white) {
		castle += 8
	}
	if pos.Castle().HasOO(white.Opponent()) {
		castle += 1
	}
	if pos.Castle().HasOOO(white.Opponent()) {
		castle += 2
	}

	flagBitLength := 0
	if ep != -1 {
		flagBitLength = 3
	}
	if castle != 0 {
		flagBitLength += 4
	}

	hasEP := ep != -1
	flagBits := uint8(castle)
	if hasEP {
		flagBits <<= 3
		for i := 0; i < 3; i++ {
			if ep&1 != 0 {
				flagBits |= 1 << uint(2-i)
			}
			ep >>= 1
		}
	}

	if rem := 8 - w.pos%8; rem < flagBitLength {
		w.writeBits(0, rem)
	}
	pad := 8 - w.pos%8 - flagBitLength
	if pad < 0 {
		pad += 8
	}
	w.writeBits(0, pad)
	w.writeBits(flagBits, flagBitLength)

	length := (w.pos + 7) / 8
	for len(w.buf) < length {
		w.buf = append(w.buf, 0)
	}
	w.buf = w.buf[:length]

	w.buf[0] = byte(length)
	if hasEP {
		w.buf[0] |= 1 << 5
	}
	if castle != 0 {
		w.buf[0] |= 1 << 6
	}

	return signature{buf: w.buf}
}
