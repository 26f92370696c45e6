package board

// PieceType identifies a kind of piece without color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return " "
	}
}

// Piece is a combined color+type board code, matching the numbering used by the
// CTG book format and by the king-safety tables: 0 is empty, White pieces occupy
// 1..6 (P,N,B,R,Q,K) and Black pieces occupy 9..14. Codes 7,8,15,16 are unused
// padding inherited from the original encoding; keeping the gap lets the book
// and evaluator lookup tables below be transcribed from the source unchanged.
type Piece uint8

const (
	Empty Piece = 0

	WP Piece = 1
	WN Piece = 2
	WB Piece = 3
	WR Piece = 4
	WQ Piece = 5
	WK Piece = 6

	BP Piece = 9
	BN Piece = 10
	BB Piece = 11
	BR Piece = 12
	BQ Piece = 13
	BK Piece = 14
)

const blackBase = 8

// NewPiece builds the combined code for a color and piece type.
func NewPiece(c Color, t PieceType) Piece {
	if t == NoPieceType {
		return Empty
	}
	if c == Black {
		return Piece(blackBase) + Piece(t)
	}
	return Piece(t)
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

func (p Piece) Color() Color {
	if p >= blackBase {
		return Black
	}
	return White
}

func (p Piece) Type() PieceType {
	if p.IsEmpty() {
		return NoPieceType
	}
	if p >= blackBase {
		return PieceType(p - blackBase)
	}
	return PieceType(p)
}

func ParsePieceType(r rune) (PieceType, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPieceType, false
	}
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	s := p.Type().String()
	if p.Color() == White {
		return toUpper(s)
	}
	return s
}

func toUpper(s string) string {
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
