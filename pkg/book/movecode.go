package book

import "github.com/herohde/daydreamer/pkg/board"

// moveGlyph maps a move byte to the piece type that makes the move, as a glyph
// character ('P','N','B','R','Q','K'); 'x' marks byte values the format never
// actually emits.
const moveGlyph = "PNxQPQPxQBKxPBRNxxBKPBxxPxQBxBxxxRBQPxBPQQNxxPBQNQBxNxNQQQBQBxxx" +
	"xQQxKQxxxxPQNQxxRxRxBPxxxxxxPxxPxQPQxxBKxRBxxxRQxxBxQxxxxBRRPRQR" +
	"QRPxxNRRxxNPKxQQxxQxQxPKRRQPxQxBQxQPxRxxxRxQxRQxQPBxxRxQxBxPQQKx" +
	"xBBBRRQPPQBPBRxPxPNNxxxQRQNPxxPKNRxRxQPQRNxPPQQRQQxNRBxNQQQQxQQx"

// pieceIndex gives which occurrence (1-based) of moveGlyph's piece type is the one
// making the move, counting squares in file-major, rank-minor order.
var pieceIndex = [256]int{
	5, 2, 9, 2, 2, 1, 4, 9, 2, 2, 1, 9, 1, 1, 2, 1,
	9, 9, 1, 1, 8, 1, 9, 9, 7, 9, 2, 1, 9, 2, 9, 9,
	9, 2, 2, 2, 8, 9, 1, 3, 1, 1, 2, 9, 9, 6, 1, 1,
	2, 1, 2, 9, 1, 9, 1, 1, 2, 1, 1, 2, 1, 9, 9, 9,
	9, 2, 1, 9, 1, 1, 9, 9, 9, 9, 8, 1, 2, 2, 9, 9,
	1, 9, 1, 9, 2, 3, 9, 9, 9, 9, 9, 9, 7, 9, 9, 5,
	9, 1, 2, 2, 9, 9, 1, 1, 9, 2, 1, 0, 9, 9, 1, 2,
	9, 9, 2, 9, 1, 9, 9, 9, 9, 2, 1, 2, 3, 2, 1, 1,
	1, 1, 6, 9, 9, 1, 1, 1, 9, 9, 1, 1, 1, 9, 2, 1,
	9, 9, 2, 9, 1, 9, 2, 1, 1, 1, 1, 3, 9, 1, 9, 2,
	2, 9, 1, 8, 9, 2, 9, 9, 9, 2, 9, 2, 9, 2, 2, 9,
	2, 6, 1, 9, 9, 2, 9, 1, 9, 2, 9, 5, 2, 2, 1, 9,
	9, 1, 2, 1, 2, 2, 2, 7, 7, 2, 2, 6, 2, 1, 9, 4,
	9, 2, 2, 2, 9, 9, 9, 1, 2, 1, 1, 1, 9, 9, 5, 1,
	2, 1, 9, 2, 9, 1, 4, 1, 1, 1, 9, 4, 1, 1, 2, 1,
	2, 1, 9, 2, 2, 2, 0, 1, 2, 2, 2, 2, 9, 1, 2, 9,
}

// forward gives the destination square's rank offset from the source, mod 8.
var forward = [256]int{
	1, -1, 9, 0, 1, 1, 1, 9, 0, 6, -1, 9, 1, 3, 0, -1,
	9, 9, 7, 1, 1, 5, 9, 9, 1, 9, 6, 1, 9, 7, 9, 9,
	9, 0, 2, 6, 1, 9, 7, 1, 5, 0, -2, 9, 9, 1, 1, 0,
	-2, 0, 5, 9, 2, 9, 1, 4, 4, 0, 6, 5, 5, 9, 9, 9,
	9, 5, 7, 9, -1, 3, 9, 9, 9, 9, 2, 5, 2, 1, 9, 9,
	6, 9, 0, 9, 1, 1, 9, 9, 9, 9, 9, 9, 1, 9, 9, 2,
	9, 6, 2, 7, 9, 9, 3, 1, 9, 7, 4, 0, 9, 9, 0, 7,
	9, 9, 7, 9, 0, 9, 9, 9, 9, 6, 3, 6, 1, 1, 3, 0,
	6, 1, 1, 9, 9, 2, 0, 5, 9, 9, -2, 1, -1, 9, 2, 0,
	9, 9, 1, 9, 3, 9, 1, 0, 0, 4, 6, 2, 9, 2, 9, 4,
	3, 9, 2, 1, 9, 5, 9, 9, 9, 0, 9, 6, 9, 0, 3, 9,
	4, 2, 6, 9, 9, 0, 9, 5, 9, 3, 9, 1, 0, 2, 0, 9,
	9, 2, 2, 2, 0, 4, 5, 1, 2, 7, 3, 1, 5, 0, 9, 1,
	9, 1, 1, 1, 9, 9, 9, 1, 0, 2, -2, 2, 9, 9, 1, 1,
	-1, 7, 9, 3, 9, 0, 2, 4, 2, -1, 9, 1, 1, 7, 1, 0,
	0, 1, 9, 2, 2, 1, 0, 1, 0, 6, 0, 2, 9, 7, 3, 9,
}

// left gives the destination square's file offset from the source, mod 8 (negated:
// a positive value moves toward file a).
var left = [256]int{
	-1, 2, 9, -2, 0, 0, 1, 9, -4, -6, 0, 9, 1, -3, -3, 2,
	9, 9, -7, 0, -1, -5, 9, 9, 0, 9, 0, 1, 9, -7, 9, 9,
	9, -7, 2, -6, 1, 9, 7, 1, -5, -6, -1, 9, 9, -1, -1, -1,
	1, -3, -5, 9, -1, 9, -2, 0, 4, -5, -6, 5, 5, 9, 9, 9,
	9, -5, 7, 9, -1, -3, 9, 9, 9, 9, 0, 5, -1, 0, 9, 9,
	0, 9, -6, 9, 1, 0, 9, 9, 9, 9, 9, 9, -1, 9, 9, 0,
	9, -6, 0, 7, 9, 9, 3, -1, 9, 0, -4, 0, 9, 9, -5, -7,
	9, 9, 7, 9, -2, 9, 9, 9, 9, 6, 0, 0, -1, 0, 3, -1,
	6, 0, 1, 9, 9, 1, -7, 0, 9, 9, -1, -1, 1, 9, 2, -7,
	9, 9, -1, 9, 0, 9, -1, 1, -3, 0, 0, 0, 9, 0, 9, 4,
	0, 9, -2, 0, 9, 0, 9, 9, 9, -2, 9, 6, 9, -4, -3, 9,
	0, 0, 6, 9, 9, -5, 9, 0, 9, -3, 9, 0, -5, 0, -1, 9,
	9, -2, -2, 2, -1, 0, 0, 1, 0, 0, 3, 0, 5, -2, 9, 0,
	9, 1, -2, 2, 9, 9, 9, 1, -6, 2, 1, 0, 9, 9, 1, 1,
	-2, 0, 9, 0, 9, -4, 0, -4, 0, -2, 9, -1, 0, -7, 1, -4,
	-7, -1, 9, 1, 0, -1, 0, 2, -1, 0, -3, -2, 9, 0, 3, 9,
}

func glyphToType(g byte) board.PieceType {
	switch g {
	case 'P':
		return board.Pawn
	case 'N':
		return board.Knight
	case 'B':
		return board.Bishop
	case 'R':
		return board.Rook
	case 'Q':
		return board.Queen
	case 'K':
		return board.King
	default:
		return board.NoPieceType
	}
}

// byteToMove decodes a single CTG move byte against pos, the move's actual
// legality (and promotion, which the format always treats as queening) is resolved
// by matching the decoded (from, to) pair against pos's legal moves.
func byteToMove(pos *board.Position, b byte) (board.Move, bool) {
	flipBoard := pos.SideToMove() == board.Black
	white := board.White
	if flipBoard {
		white = board.Black
	}
	mirrorBoard := pos.King(white).File() < 4 && pos.Castle() == 0

	if b == 107 || b == 246 {
		fileFrom, fileTo := 4, 6
		if b == 246 {
			fileTo = 2
		}
		rank := 0
		if flipBoard {
			rank = 7
		}
		return squaresToMove(pos, board.NewSquare(fileFrom, rank), board.NewSquare(fileTo, rank))
	}

	pt := glyphToType(moveGlyph[b])
	if pt == board.NoPieceType {
		return board.NoMove, false
	}

	nth, count := pieceIndex[b], 0
	fileFrom, rankFrom := -1, -1
	found := false
	for file := 0; file < 8 && !found; file++ {
		for rank := 0; rank < 8 && !found; rank++ {
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
			if !p.IsEmpty() && p.Color() == board.White && p.Type() == pt {
				count++
			}
			if count == nth {
				fileFrom, rankFrom = file, rank
				found = true
			}
		}
	}
	if !found {
		return board.NoMove, false
	}

	fileTo := ((fileFrom - left[b]) + 8) % 8
	rankTo := ((rankFrom + forward[b]) + 8) % 8
	if flipBoard {
		rankFrom, rankTo = 7-rankFrom, 7-rankTo
	}
	if mirrorBoard {
		fileFrom, fileTo = 7-fileFrom, 7-fileTo
	}

	return squaresToMove(pos, board.NewSquare(fileFrom, rankFrom), board.NewSquare(fileTo, rankTo))
}

// squaresToMove resolves a bare (from, to) pair against pos's legal moves, defaulting
// an ambiguous promotion to queening since that's all the CTG format ever records.
func squaresToMove(pos *board.Position, from, to board.Square) (board.Move, bool) {
	for _, m := range pos.GenerateLegalMoves() {
		if m.From == from && m.To == to && (m.Promotion == board.NoPieceType || m.Promotion == board.Queen) {
			return m, true
		}
	}
	return board.NoMove, false
}
