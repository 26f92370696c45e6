package book

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

const pageSize = 4096

// Book is an opened CTG opening book: the three files Chessbase's format splits a
// book across. ctg holds the paged position entries, cto is a hash index mapping a
// signature hash to a page, ctb just carries the valid page-index range.
type Book struct {
	ctg      *os.File
	cto      *os.File
	pageLow  uint32
	pageHigh uint32
}

// Open loads a CTG book given the path to any one of its three files (.ctg, .cto,
// or .ctb); the other two are located by replacing the extension.
func Open(path string) (*Book, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(path, ".ctg"), ".cto"), ".ctb")

	ctb, err := os.Open(base + ".ctb")
	if err != nil {
		return nil, fmt.Errorf("book: opening .ctb: %w", err)
	}
	defer ctb.Close()

	var header [12]byte
	if _, err := ctb.ReadAt(header[:], 0); err != nil {
		return nil, fmt.Errorf("book: reading .ctb header: %w", err)
	}
	low := binary.BigEndian.Uint32(header[4:8])
	high := binary.BigEndian.Uint32(header[8:12])
	if low > high {
		return nil, fmt.Errorf("book: invalid page bounds [%d, %d]", low, high)
	}

	ctg, err := os.Open(base + ".ctg")
	if err != nil {
		return nil, fmt.Errorf("book: opening .ctg: %w", err)
	}
	cto, err := os.Open(base + ".cto")
	if err != nil {
		ctg.Close()
		return nil, fmt.Errorf("book: opening .cto: %w", err)
	}

	return &Book{ctg: ctg, cto: cto, pageLow: low, pageHigh: high}, nil
}

func (b *Book) Close() error {
	err1 := b.ctg.Close()
	err2 := b.cto.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// pageIndex finds the .ctg page a given signature hash lives on by widening a bit
// mask over the hash until the resulting key falls in the valid page range, then
// looking that key up in the .cto index. It returns false if the hash isn't covered
// by any page (an empty book, or a position truly not in the book).
func (b *Book) pageIndex(hash int32) (int, bool) {
	var key uint32
	for mask := uint32(0); key <= b.pageHigh; mask = (mask << 1) + 1 {
		key = (uint32(hash) & mask) + mask
		if key >= b.pageLow {
			var buf [4]byte
			if _, err := b.cto.ReadAt(buf[:], 16+int64(key)*4); err != nil {
				return 0, false
			}
			idx := int32(binary.BigEndian.Uint32(buf[:]))
			if idx >= 0 {
				return int(idx), true
			}
		}
	}
	return 0, false
}

// entry is one book position's recorded statistics and candidate reply moves.
type entry struct {
	moveBytes      []byte // two bytes per candidate move; only the first of each pair is decoded
	total          int
	losses         int
	wins           int
	draws          int
	recommendation int
}

func (e entry) numMoves() int {
	return len(e.moveBytes) / 2
}

// lookupEntry scans page pageIndex of the .ctg file for sig, Chessbase packs many
// variable-length position records per 4KiB page with no index within the page, so
// a linear scan is how the format itself works.
func (b *Book) lookupEntry(pageIndex int, sig signature) (entry, bool) {
	buf := make([]byte, pageSize)
	if _, err := b.ctg.ReadAt(buf, int64(pageSize)*int64(pageIndex+1)); err != nil {
		return entry{}, false
	}

	numPositions := int(buf[0])<<8 + int(buf[1])
	pos := 4
	for i := 0; i < numPositions; i++ {
		if pos >= len(buf) {
			return entry{}, false
		}
		entrySize := int(buf[pos]) % 32
		equal := entrySize == len(sig.buf)
		for j := 0; j < len(sig.buf) && equal; j++ {
			if buf[pos+j] != sig.buf[j] {
				equal = false
			}
		}
		if !equal {
			pos += entrySize + int(buf[pos+entrySize]) + 33
			continue
		}

		pos += entrySize
		moveBlockSize := int(buf[pos])
		moveBytes := make([]byte, moveBlockSize-1)
		copy(moveBytes, buf[pos+1:pos+moveBlockSize])
		pos += moveBlockSize

		e := entry{
			moveBytes: moveBytes,
			total:     read24(buf, pos),
			losses:    read24(buf, pos+3),
			wins:      read24(buf, pos+6),
			draws:     read24(buf, pos+9),
		}
		pos += 3*4 + 21
		e.recommendation = int(buf[pos])
		return e, true
	}
	return entry{}, false
}

func read24(buf []byte, pos int) int {
	return int(buf[pos])<<16 + int(buf[pos+1])<<8 + int(buf[pos+2])
}
