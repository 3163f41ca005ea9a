package engine

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// attacked reports whether sq is attacked by any piece of color by.
// Castling and en passant never matter for attack detection.
func (b *Board) attacked(sq Square, by Color) bool {
	file, rank := sq.File(), sq.Rank()

	// Pawn attacks come from one rank behind the attacker's push direction.
	pawnRank := rank - 1
	if by == Black {
		pawnRank = rank + 1
	}
	for _, df := range [2]int{-1, 1} {
		if onBoard(file+df, pawnRank) {
			p := b.squares[NewSquare(file+df, pawnRank)]
			if p.Type == Pawn && p.Color == by {
				return true
			}
		}
	}

	for _, s := range knightSteps {
		if onBoard(file+s[0], rank+s[1]) {
			p := b.squares[NewSquare(file+s[0], rank+s[1])]
			if p.Type == Knight && p.Color == by {
				return true
			}
		}
	}

	for _, s := range kingSteps {
		if onBoard(file+s[0], rank+s[1]) {
			p := b.squares[NewSquare(file+s[0], rank+s[1])]
			if p.Type == King && p.Color == by {
				return true
			}
		}
	}

	slider := func(dirs [4][2]int, want PieceType) bool {
		for _, d := range dirs {
			f, r := file+d[0], rank+d[1]
			for onBoard(f, r) {
				p := b.squares[NewSquare(f, r)]
				if !p.IsEmpty() {
					if p.Color == by && (p.Type == want || p.Type == Queen) {
						return true
					}
					break
				}
				f += d[0]
				r += d[1]
			}
		}
		return false
	}
	return slider(bishopDirs, Bishop) || slider(rookDirs, Rook)
}

func (b *Board) inCheck(c Color) bool {
	king := b.kingSquare(c)
	if king == NoSquare {
		return false
	}
	return b.attacked(king, c.Other())
}

// pseudoMovesFrom generates the pseudo-legal moves for the piece on from.
// The piece must belong to the side to move; callers filter with
// king-safety afterwards.
func (b *Board) pseudoMovesFrom(from Square) []Move {
	p := b.squares[from]
	if p.IsEmpty() || p.Color != b.turn {
		return nil
	}

	var moves []Move
	add := func(to Square, captured bool) {
		moves = append(moves, Move{
			From:     from,
			To:       to,
			Color:    p.Color,
			Piece:    p.Type,
			Captured: captured,
		})
	}
	steps := func(patterns [][2]int) {
		for _, s := range patterns {
			f, r := from.File()+s[0], from.Rank()+s[1]
			if !onBoard(f, r) {
				continue
			}
			target := b.squares[NewSquare(f, r)]
			if target.IsEmpty() {
				add(NewSquare(f, r), false)
			} else if target.Color != p.Color {
				add(NewSquare(f, r), true)
			}
		}
	}
	slides := func(dirs [4][2]int) {
		for _, d := range dirs {
			f, r := from.File()+d[0], from.Rank()+d[1]
			for onBoard(f, r) {
				target := b.squares[NewSquare(f, r)]
				if target.IsEmpty() {
					add(NewSquare(f, r), false)
				} else {
					if target.Color != p.Color {
						add(NewSquare(f, r), true)
					}
					break
				}
				f += d[0]
				r += d[1]
			}
		}
	}

	switch p.Type {
	case Pawn:
		moves = b.pawnMoves(from, p.Color)
	case Knight:
		steps(knightSteps[:])
	case Bishop:
		slides(bishopDirs)
	case Rook:
		slides(rookDirs)
	case Queen:
		slides(bishopDirs)
		slides(rookDirs)
	case King:
		steps(kingSteps[:])
		moves = append(moves, b.castleMoves(from, p.Color)...)
	}
	return moves
}

func (b *Board) pawnMoves(from Square, c Color) []Move {
	var moves []Move
	dir, startRank, promoRank := 1, 1, 7
	if c == Black {
		dir, startRank, promoRank = -1, 6, 0
	}
	file, rank := from.File(), from.Rank()

	emit := func(to Square, captured, enPassant bool) {
		base := Move{
			From:      from,
			To:        to,
			Color:     c,
			Piece:     Pawn,
			Captured:  captured,
			EnPassant: enPassant,
		}
		if to.Rank() == promoRank {
			for _, promo := range [4]PieceType{Queen, Rook, Bishop, Knight} {
				m := base
				m.Promotion = promo
				moves = append(moves, m)
			}
			return
		}
		moves = append(moves, base)
	}

	if onBoard(file, rank+dir) && b.squares[NewSquare(file, rank+dir)].IsEmpty() {
		emit(NewSquare(file, rank+dir), false, false)
		if rank == startRank && b.squares[NewSquare(file, rank+2*dir)].IsEmpty() {
			emit(NewSquare(file, rank+2*dir), false, false)
		}
	}
	for _, df := range [2]int{-1, 1} {
		if !onBoard(file+df, rank+dir) {
			continue
		}
		to := NewSquare(file+df, rank+dir)
		target := b.squares[to]
		if !target.IsEmpty() && target.Color != c {
			emit(to, true, false)
		} else if to == b.epSquare {
			emit(to, true, true)
		}
	}
	return moves
}

// castleMoves emits castling candidates. Transit-square safety is checked
// here since the generic king-safety filter only covers the destination.
func (b *Board) castleMoves(from Square, c Color) []Move {
	rank := 0
	kingSide, queenSide := b.castling.whiteKing, b.castling.whiteQueen
	if c == Black {
		rank = 7
		kingSide, queenSide = b.castling.blackKing, b.castling.blackQueen
	}
	if from != NewSquare(4, rank) || b.inCheck(c) {
		return nil
	}

	var moves []Move
	empty := func(files ...int) bool {
		for _, f := range files {
			if !b.squares[NewSquare(f, rank)].IsEmpty() {
				return false
			}
		}
		return true
	}
	safe := func(files ...int) bool {
		for _, f := range files {
			if b.attacked(NewSquare(f, rank), c.Other()) {
				return false
			}
		}
		return true
	}

	if kingSide && empty(5, 6) && safe(5, 6) {
		moves = append(moves, Move{
			From: from, To: NewSquare(6, rank),
			Color: c, Piece: King, Castle: CastleKing,
		})
	}
	if queenSide && empty(1, 2, 3) && safe(2, 3) {
		moves = append(moves, Move{
			From: from, To: NewSquare(2, rank),
			Color: c, Piece: King, Castle: CastleQueen,
		})
	}
	return moves
}

// legalMovesFrom filters the pseudo-legal moves of the piece on from,
// excluding any move that leaves the mover's own king in check.
func (b *Board) legalMovesFrom(from Square) []Move {
	pseudo := b.pseudoMovesFrom(from)
	if len(pseudo) == 0 {
		return nil
	}
	mover := b.turn
	legal := pseudo[:0]
	for _, m := range pseudo {
		scratch := *b
		scratch.apply(m)
		if !scratch.inCheck(mover) {
			legal = append(legal, m)
		}
	}
	return legal
}

// legalMoves generates every legal move in the position.
func (b *Board) legalMoves() []Move {
	var moves []Move
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p.IsEmpty() || p.Color != b.turn {
			continue
		}
		moves = append(moves, b.legalMovesFrom(sq)...)
	}
	return moves
}
