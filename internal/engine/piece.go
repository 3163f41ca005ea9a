// Package engine implements the chess rules used by the opening trainer:
// board state, legal move generation, SAN encoding/decoding, move
// application and undo, and FEN export. It knows nothing about training
// semantics; the training package drives it one half-move at a time.
package engine

import "fmt"

// Color identifies a chess side.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// PieceType is one of the six chess piece kinds.
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

var pieceLetters = [...]string{"", "", "N", "B", "R", "Q", "K"}

// Letter returns the SAN letter for the piece type; empty for pawns.
func (p PieceType) Letter() string {
	if int(p) < len(pieceLetters) {
		return pieceLetters[p]
	}
	return ""
}

// Piece is a colored piece occupying a square. The zero value means an
// empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// IsEmpty reports whether the piece represents an empty square.
func (p Piece) IsEmpty() bool { return p.Type == NoPieceType }

func (p Piece) fenRune() byte {
	var r byte
	switch p.Type {
	case Pawn:
		r = 'p'
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Rook:
		r = 'r'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	default:
		return '?'
	}
	if p.Color == White {
		return r - 'a' + 'A'
	}
	return r
}

// Square addresses one of the 64 board squares. a1 is 0, b1 is 1, h8 is 63.
type Square int8

// NoSquare is the sentinel for "no square" (e.g. no en passant target).
const NoSquare Square = -1

// NewSquare builds a square from zero-based file (a=0) and rank (1st=0)
// coordinates.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic coordinates such as "e4". An error is
// returned for anything that is not exactly [a-h][1-8].
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("engine: invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// MustSquare is ParseSquare for trusted literals; it panics on malformed
// input since that is a caller contract violation.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// File returns the zero-based column (a-file = 0).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the zero-based row (1st rank = 0).
func (s Square) Rank() int { return int(s) >> 3 }

// Valid reports whether the square is on the board.
func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}
