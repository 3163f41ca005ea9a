package engine

import (
	"fmt"
	"regexp"
	"strings"
)

var sanPattern = regexp.MustCompile(`^([NBRQK]?)([a-h]?)([1-8]?)(x?)([a-h][1-8])(?:=([NBRQ]))?$`)

var promoLetters = map[string]PieceType{
	"N": Knight,
	"B": Bishop,
	"R": Rook,
	"Q": Queen,
}

// normalizeSAN strips check/mate markers and annotation glyphs and
// canonicalizes castling to the letter O form.
func normalizeSAN(san string) string {
	s := strings.TrimSpace(san)
	s = strings.TrimRight(s, "+#!?")
	s = strings.TrimSuffix(s, " e.p.")
	s = strings.ReplaceAll(s, "0", "O")
	return s
}

// encodeSAN renders a generated move in Standard Algebraic Notation
// relative to the position the move is about to be played in. The check
// or mate suffix is appended separately once the move has been applied.
func (b *Board) encodeSAN(m Move) string {
	switch m.Castle {
	case CastleKing:
		return "O-O"
	case CastleQueen:
		return "O-O-O"
	}

	var sb strings.Builder
	if m.Piece == Pawn {
		if m.Captured {
			sb.WriteByte(byte('a' + m.From.File()))
		}
	} else {
		sb.WriteString(m.Piece.Letter())
		sb.WriteString(b.disambiguation(m))
	}
	if m.Captured {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Promotion != NoPieceType {
		sb.WriteByte('=')
		sb.WriteString(m.Promotion.Letter())
	}
	return sb.String()
}

// disambiguation returns the file and/or rank qualifier needed when more
// than one piece of the same type can legally reach the destination.
func (b *Board) disambiguation(m Move) string {
	var rivals []Square
	for _, other := range b.legalMoves() {
		if other.Piece == m.Piece && other.To == m.To && other.From != m.From {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	fileClash, rankClash := false, false
	for _, sq := range rivals {
		if sq.File() == m.From.File() {
			fileClash = true
		}
		if sq.Rank() == m.From.Rank() {
			rankClash = true
		}
	}
	switch {
	case !fileClash:
		return string([]byte{byte('a' + m.From.File())})
	case !rankClash:
		return string([]byte{byte('1' + m.From.Rank())})
	default:
		return m.From.String()
	}
}

// decodeSAN resolves a SAN string to the unique legal move it denotes.
func (b *Board) decodeSAN(san string) (Move, error) {
	s := normalizeSAN(san)
	if s == "" {
		return Move{}, fmt.Errorf("engine: empty move text")
	}

	if s == "O-O" || s == "O-O-O" {
		want := CastleKing
		if s == "O-O-O" {
			want = CastleQueen
		}
		for _, m := range b.legalMoves() {
			if m.Castle == want {
				return m, nil
			}
		}
		return Move{}, fmt.Errorf("engine: cannot castle %s", san)
	}

	parts := sanPattern.FindStringSubmatch(s)
	if parts == nil {
		return Move{}, fmt.Errorf("engine: unparsable move %q", san)
	}

	pieceType := Pawn
	if parts[1] != "" {
		pieceType = pieceFromLetter(parts[1])
	}
	to := MustSquare(parts[5])
	promo := NoPieceType
	if parts[6] != "" {
		promo = promoLetters[parts[6]]
	}

	var found []Move
	for _, m := range b.legalMoves() {
		if m.Piece != pieceType || m.To != to {
			continue
		}
		if parts[2] != "" && m.From.File() != int(parts[2][0]-'a') {
			continue
		}
		if parts[3] != "" && m.From.Rank() != int(parts[3][0]-'1') {
			continue
		}
		if promo != m.Promotion && !(promo == NoPieceType && m.Promotion == NoPieceType) {
			continue
		}
		found = append(found, m)
	}
	switch len(found) {
	case 0:
		return Move{}, fmt.Errorf("engine: move %q is not legal here", san)
	case 1:
		return found[0], nil
	default:
		return Move{}, fmt.Errorf("engine: move %q is ambiguous", san)
	}
}

func pieceFromLetter(letter string) PieceType {
	switch letter {
	case "N":
		return Knight
	case "B":
		return Bishop
	case "R":
		return Rook
	case "Q":
		return Queen
	case "K":
		return King
	default:
		return Pawn
	}
}
