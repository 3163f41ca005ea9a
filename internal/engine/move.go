package engine

// CastleSide distinguishes the two castling moves.
type CastleSide uint8

const (
	CastleNone CastleSide = iota
	CastleKing
	CastleQueen
)

// Move is one applied (or candidate) half-move. All fields are set at
// construction by the move generator; a Move is never mutated after the
// engine has applied it.
type Move struct {
	From      Square
	To        Square
	SAN       string
	Color     Color
	Piece     PieceType
	Captured  bool
	Promotion PieceType
	Castle    CastleSide
	EnPassant bool
}

// matches reports whether the move has the given coordinates and, when pt
// is not NoPieceType, the given promotion piece.
func (m Move) matches(from, to Square, promo PieceType) bool {
	if m.From != from || m.To != to {
		return false
	}
	if promo == NoPieceType {
		// Coordinate input without an explicit promotion piece selects
		// the queen promotion.
		return m.Promotion == NoPieceType || m.Promotion == Queen
	}
	return m.Promotion == promo
}

// undoState captures everything a move destroys so Undo can restore it.
type undoState struct {
	captured   Piece
	capturedSq Square
	castling   castleRights
	epSquare   Square
	halfMove   int
	fullMove   int
}

type appliedMove struct {
	move Move
	undo undoState
}
