package board

import "fmt"

// Square is a square on the board in 0x88 layout: the low nibble is the file (0=a..7=h),
// the high nibble is the rank (0=rank1..7=rank8), and bit 0x08/0x80 being set marks an
// off-board index. This layout is what lets the king-safety offsets of the evaluator
// (king-1, king+push, king+2*push+1, ...) be plain integer arithmetic that naturally
// detects falling off the board, exactly as the original mailbox-based engine relied on.
type Square uint8

const invalidBit = 0x88

const (
	A1 Square = 0x00
	B1 Square = 0x01
	C1 Square = 0x02
	D1 Square = 0x03
	E1 Square = 0x04
	F1 Square = 0x05
	G1 Square = 0x06
	H1 Square = 0x07

	A8 Square = 0x70
	B8 Square = 0x71
	C8 Square = 0x72
	D8 Square = 0x73
	E8 Square = 0x74
	F8 Square = 0x75
	G8 Square = 0x76
	H8 Square = 0x77
)

// NewSquare builds a square from 0-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

func (s Square) File() int {
	return int(s) & 0x07
}

func (s Square) Rank() int {
	return int(s) >> 4 & 0x07
}

// IsValid reports whether the square lies on the board.
func (s Square) IsValid() bool {
	return int(s)&invalidBit == 0
}

// MirrorRank flips a square across the board's equator (rank 1 <-> rank 8), used by the
// CTG side-to-move canonicalization.
func (s Square) MirrorRank() Square {
	return NewSquare(s.File(), 7-s.Rank())
}

// MirrorFile flips a square across the central file (a <-> h), used by the CTG
// queenside-mirror canonicalization.
func (s Square) MirrorFile() Square {
	return NewSquare(7-s.File(), s.Rank())
}

func ParseSquare(file, rank rune) (Square, error) {
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("invalid square: %c%c", file, rank)
	}
	return NewSquare(int(file-'a'), int(rank-'1')), nil
}

func (s Square) String() string {
	if !s.IsValid() {
		return "--"
	}
	return fmt.Sprintf("%c%c", 'a'+rune(s.File()), '1'+rune(s.Rank()))
}
