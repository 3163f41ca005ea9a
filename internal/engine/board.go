package engine

import (
	"strconv"
	"strings"
)

type castleRights struct {
	whiteKing  bool
	whiteQueen bool
	blackKing  bool
	blackQueen bool
}

// Board holds a full chess position: piece placement, side to move,
// castling rights, en passant target and move clocks. It is a value type
// so legality checks can work on cheap copies.
type Board struct {
	squares  [64]Piece
	turn     Color
	castling castleRights
	epSquare Square
	halfMove int
	fullMove int
}

var startRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// newStartingBoard returns the standard initial position.
func newStartingBoard() Board {
	var b Board
	for file := 0; file < 8; file++ {
		b.squares[NewSquare(file, 0)] = Piece{Type: startRank[file], Color: White}
		b.squares[NewSquare(file, 1)] = Piece{Type: Pawn, Color: White}
		b.squares[NewSquare(file, 6)] = Piece{Type: Pawn, Color: Black}
		b.squares[NewSquare(file, 7)] = Piece{Type: startRank[file], Color: Black}
	}
	b.turn = White
	b.castling = castleRights{true, true, true, true}
	b.epSquare = NoSquare
	b.fullMove = 1
	return b
}

func (b *Board) piece(sq Square) Piece { return b.squares[sq] }

func (b *Board) kingSquare(c Color) Square {
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p.Type == King && p.Color == c {
			return sq
		}
	}
	return NoSquare
}

// apply mutates the board by the given move. The move must come from the
// generator; no legality checks happen here. The returned undoState is
// only meaningful when the caller intends to revert.
func (b *Board) apply(m Move) undoState {
	st := undoState{
		captured:   Piece{},
		capturedSq: NoSquare,
		castling:   b.castling,
		epSquare:   b.epSquare,
		halfMove:   b.halfMove,
		fullMove:   b.fullMove,
	}

	capturedSq := m.To
	if m.EnPassant {
		capturedSq = NewSquare(m.To.File(), m.From.Rank())
	}
	if !b.squares[capturedSq].IsEmpty() {
		st.captured = b.squares[capturedSq]
		st.capturedSq = capturedSq
		b.squares[capturedSq] = Piece{}
	}

	moving := b.squares[m.From]
	b.squares[m.From] = Piece{}
	if m.Promotion != NoPieceType {
		moving.Type = m.Promotion
	}
	b.squares[m.To] = moving

	if m.Castle != CastleNone {
		rank := m.From.Rank()
		switch m.Castle {
		case CastleKing:
			b.squares[NewSquare(5, rank)] = b.squares[NewSquare(7, rank)]
			b.squares[NewSquare(7, rank)] = Piece{}
		case CastleQueen:
			b.squares[NewSquare(3, rank)] = b.squares[NewSquare(0, rank)]
			b.squares[NewSquare(0, rank)] = Piece{}
		}
	}

	b.updateCastlingRights(m, st.capturedSq)

	b.epSquare = NoSquare
	if m.Piece == Pawn {
		if diff := m.To.Rank() - m.From.Rank(); diff == 2 || diff == -2 {
			b.epSquare = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		}
	}

	if m.Piece == Pawn || m.Captured {
		b.halfMove = 0
	} else {
		b.halfMove++
	}
	if b.turn == Black {
		b.fullMove++
	}
	b.turn = b.turn.Other()
	return st
}

// revert undoes a move previously applied to this board.
func (b *Board) revert(m Move, st undoState) {
	moving := b.squares[m.To]
	if m.Promotion != NoPieceType {
		moving.Type = Pawn
	}
	b.squares[m.From] = moving
	b.squares[m.To] = Piece{}

	if m.Castle != CastleNone {
		rank := m.From.Rank()
		switch m.Castle {
		case CastleKing:
			b.squares[NewSquare(7, rank)] = b.squares[NewSquare(5, rank)]
			b.squares[NewSquare(5, rank)] = Piece{}
		case CastleQueen:
			b.squares[NewSquare(0, rank)] = b.squares[NewSquare(3, rank)]
			b.squares[NewSquare(3, rank)] = Piece{}
		}
	}

	if st.capturedSq != NoSquare {
		b.squares[st.capturedSq] = st.captured
	}

	b.castling = st.castling
	b.epSquare = st.epSquare
	b.halfMove = st.halfMove
	b.fullMove = st.fullMove
	b.turn = b.turn.Other()
}

func (b *Board) updateCastlingRights(m Move, capturedSq Square) {
	clear := func(sq Square) {
		switch sq {
		case MustSquare("e1"):
			b.castling.whiteKing, b.castling.whiteQueen = false, false
		case MustSquare("h1"):
			b.castling.whiteKing = false
		case MustSquare("a1"):
			b.castling.whiteQueen = false
		case MustSquare("e8"):
			b.castling.blackKing, b.castling.blackQueen = false, false
		case MustSquare("h8"):
			b.castling.blackKing = false
		case MustSquare("a8"):
			b.castling.blackQueen = false
		}
	}
	clear(m.From)
	if capturedSq != NoSquare {
		clear(capturedSq)
	}
}

// fen renders the position in Forsyth-Edwards Notation.
func (b *Board) fen() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[NewSquare(file, rank)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.fenRune())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	rights := ""
	if b.castling.whiteKing {
		rights += "K"
	}
	if b.castling.whiteQueen {
		rights += "Q"
	}
	if b.castling.blackKing {
		rights += "k"
	}
	if b.castling.blackQueen {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	sb.WriteString(b.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMove))
	return sb.String()
}
