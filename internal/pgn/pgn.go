// Package pgn extracts the move sequence to drill from PGN movetext. It
// is deliberately forgiving: anything that is not a move token (move
// numbers, results, comments, variations, NAGs, tag pairs) is dropped,
// and malformed input degrades to an empty sequence instead of an error.
package pgn

import (
	"regexp"
	"strings"
)

// Sequence is the canonical line to be drilled, split per color. Moves
// are indexed by half-move number within each color's own list, not by
// global ply.
type Sequence struct {
	White []string
	Black []string
}

// Len returns the total number of plies in the sequence.
func (s Sequence) Len() int { return len(s.White) + len(s.Black) }

// IsEmpty reports whether there is nothing to drill.
func (s Sequence) IsEmpty() bool { return s.Len() == 0 }

// MoveIndexForColor maps a global ply index to the mover's index within
// their own move list: white moves sit on even plies, black on odd.
func MoveIndexForColor(ply int, white bool) int {
	if white {
		return ply / 2
	}
	return (ply - 1) / 2
}

// MoveAt returns the expected SAN at the given global ply, with ok false
// once the sequence is exhausted.
func (s Sequence) MoveAt(ply int) (string, bool) {
	if ply < 0 {
		return "", false
	}
	if ply%2 == 0 {
		idx := MoveIndexForColor(ply, true)
		if idx >= len(s.White) {
			return "", false
		}
		return s.White[idx], true
	}
	idx := MoveIndexForColor(ply, false)
	if idx >= len(s.Black) {
		return "", false
	}
	return s.Black[idx], true
}

var (
	moveNumberPattern = regexp.MustCompile(`^\d+\.(\.\.)?$`)
	nagPattern        = regexp.MustCompile(`^\$\d+$`)
	sanPattern        = regexp.MustCompile(`^(?:[NBRQK]?[a-h]?[1-8]?x?[a-h][1-8](?:=[NBRQ])?|[O0]-[O0](?:-[O0])?)[+#]?$`)
)

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// Parse splits PGN movetext into per-color SAN lists. Tag pairs,
// comments ({...} and ; to end of line), parenthesized variations
// (nested), move numbers, NAGs and result tokens are stripped; the
// remaining tokens alternate white/black in original order.
func Parse(movetext string) Sequence {
	stripped := stripBlocks(movetext)

	var seq Sequence
	white := true
	for _, tok := range strings.Fields(stripped) {
		tok = cleanToken(tok)
		if tok == "" {
			continue
		}
		if white {
			seq.White = append(seq.White, tok)
		} else {
			seq.Black = append(seq.Black, tok)
		}
		white = !white
	}
	return seq
}

// stripBlocks removes tag pairs, brace comments, semicolon comments and
// (nested) variations before tokenization.
func stripBlocks(text string) string {
	var sb strings.Builder
	depth := 0
	inBrace := false
	inTag := false
	inLineComment := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
				sb.WriteByte(' ')
			}
		case inBrace:
			if c == '}' {
				inBrace = false
				sb.WriteByte(' ')
			}
		case inTag:
			if c == ']' {
				inTag = false
				sb.WriteByte(' ')
			}
		case c == '{':
			inBrace = true
		case c == '[':
			inTag = true
		case c == ';':
			inLineComment = true
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
				sb.WriteByte(' ')
			}
		case depth > 0:
			// inside a variation
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// cleanToken normalizes one whitespace-delimited token, returning ""
// when it is not a move.
func cleanToken(tok string) string {
	// "1.e4" style glued move numbers.
	for {
		dot := strings.IndexByte(tok, '.')
		if dot < 0 {
			break
		}
		prefix := tok[:dot+1]
		rest := strings.TrimLeft(tok[dot+1:], ".")
		if !moveNumberPattern.MatchString(strings.TrimSuffix(prefix, ".") + ".") {
			break
		}
		tok = rest
	}
	if tok == "" {
		return ""
	}
	if moveNumberPattern.MatchString(tok) || nagPattern.MatchString(tok) || resultTokens[tok] {
		return ""
	}
	tok = strings.TrimRight(tok, "!?")
	if tok == "" || resultTokens[tok] {
		return ""
	}
	if !sanPattern.MatchString(tok) {
		return ""
	}
	return tok
}
