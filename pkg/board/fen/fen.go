// Package fen reads and writes Forsyth-Edwards Notation, the standard text form for a
// chess position.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/daydreamer/pkg/board"
)

// StartPosition is the FEN for the standard chess starting position.
const StartPosition = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a fresh Position bound to the given Zobrist table.
func Decode(s string, zt *board.ZobristTable) (*board.Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d: %q", len(fields), s)
	}

	pos := board.NewPosition(zt)

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d: %q", len(ranks), fields[0])
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, r := range row {
			switch {
			case r >= '1' && r <= '8':
				file += int(r - '0')
			default:
				pt, ok := board.ParsePieceType(r)
				if !ok {
					return nil, fmt.Errorf("fen: invalid piece %q in %q", r, s)
				}
				c := board.White
				if r >= 'a' && r <= 'z' {
					c = board.Black
				}
				if file > 7 {
					return nil, fmt.Errorf("fen: rank %d overflows: %q", rank+1, row)
				}
				pos.Place(board.NewSquare(file, rank), board.NewPiece(c, pt))
				file++
			}
		}
	}

	switch fields[1] {
	case "w":
		pos.SetSideToMove(board.White)
	case "b":
		pos.SetSideToMove(board.Black)
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	var rights board.CastleRights
	if fields[2] != "-" {
		for _, r := range fields[2] {
			switch r {
			case 'K':
				rights |= board.WhiteOO
			case 'Q':
				rights |= board.WhiteOOO
			case 'k':
				rights |= board.BlackOO
			case 'q':
				rights |= board.BlackOOO
			default:
				return nil, fmt.Errorf("fen: invalid castling field %q", fields[2])
			}
		}
	}
	pos.SetCastle(rights)

	if fields[3] != "-" {
		r := []rune(fields[3])
		if len(r) != 2 {
			return nil, fmt.Errorf("fen: invalid en-passant square %q", fields[3])
		}
		sq, err := board.ParseSquare(r[0], r[1])
		if err != nil {
			return nil, fmt.Errorf("fen: %v", err)
		}
		pos.SetEnPassant(sq)
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
		pos.SetHalfmoveClock(n)
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
		pos.SetFullmoveNumber(n)
	}

	pos.ResetKey()
	return pos, nil
}

// Encode renders a Position back to FEN.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.At(board.NewSquare(file, rank))
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.SideToMove().String())

	sb.WriteByte(' ')
	sb.WriteString(pos.Castle().String())

	sb.WriteByte(' ')
	if ep, ok := pos.EnPassant(); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", pos.HalfmoveClock(), pos.FullmoveNumber())
	return sb.String()
}
