package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a requested move is not legal in the
// current position. Callers treat it as a normal outcome, not a fault.
var ErrIllegalMove = errors.New("engine: illegal move")

// Engine owns a single mutable position plus the history of applied
// moves. It is not safe for concurrent use; each training session owns
// exactly one Engine.
type Engine struct {
	board   Board
	history []appliedMove
}

// New returns an engine set to the standard initial position.
func New() *Engine {
	return &Engine{board: newStartingBoard()}
}

// Reset restores the initial position and clears the history.
func (e *Engine) Reset() {
	e.board = newStartingBoard()
	e.history = e.history[:0]
}

// Turn returns the side to move.
func (e *Engine) Turn() Color { return e.board.turn }

// Piece returns the piece on sq, with ok false for an empty square.
func (e *Engine) Piece(sq Square) (Piece, bool) {
	if !sq.Valid() {
		panic(fmt.Sprintf("engine: piece lookup on invalid square %d", sq))
	}
	p := e.board.piece(sq)
	return p, !p.IsEmpty()
}

// LegalMoves returns the destination squares reachable from sq under full
// chess rules. It is empty when sq is empty or holds a piece of the side
// not to move.
func (e *Engine) LegalMoves(sq Square) []Square {
	if !sq.Valid() {
		panic(fmt.Sprintf("engine: legal moves on invalid square %d", sq))
	}
	moves := e.board.legalMovesFrom(sq)
	targets := make([]Square, 0, len(moves))
	for _, m := range moves {
		// Promotion fans out into four moves with one destination.
		if n := len(targets); n > 0 && targets[n-1] == m.To {
			continue
		}
		targets = append(targets, m.To)
	}
	return targets
}

// Move applies the move from-to if it is legal and returns the applied
// record. Coordinate moves into the last rank promote to a queen.
func (e *Engine) Move(from, to Square) (Move, error) {
	if !from.Valid() || !to.Valid() {
		panic(fmt.Sprintf("engine: move with invalid squares %d-%d", from, to))
	}
	for _, m := range e.board.legalMovesFrom(from) {
		if m.matches(from, to, NoPieceType) {
			return e.commit(m), nil
		}
	}
	return Move{}, ErrIllegalMove
}

// MoveSAN applies the move denoted by san if it is legal.
func (e *Engine) MoveSAN(san string) (Move, error) {
	m, err := e.board.decodeSAN(san)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	return e.commit(m), nil
}

// PreviewSAN resolves san against the current position without mutating
// it, for hint rendering.
func (e *Engine) PreviewSAN(san string) (from, to Square, err error) {
	m, err := e.board.decodeSAN(san)
	if err != nil {
		return NoSquare, NoSquare, err
	}
	return m.From, m.To, nil
}

// commit finalizes the SAN (including the check/mate suffix) and applies
// the move.
func (e *Engine) commit(m Move) Move {
	san := e.board.encodeSAN(m)
	st := e.board.apply(m)
	if e.board.inCheck(e.board.turn) {
		if len(e.board.legalMoves()) == 0 {
			san += "#"
		} else {
			san += "+"
		}
	}
	m.SAN = san
	e.history = append(e.history, appliedMove{move: m, undo: st})
	return m
}

// Undo reverts the last applied move. It reports false (and does
// nothing) when the history is empty.
func (e *Engine) Undo() bool {
	if len(e.history) == 0 {
		return false
	}
	last := e.history[len(e.history)-1]
	e.board.revert(last.move, last.undo)
	e.history = e.history[:len(e.history)-1]
	return true
}

// InCheck reports whether the side to move is in check.
func (e *Engine) InCheck() bool { return e.board.inCheck(e.board.turn) }

// Checkmate reports whether the side to move is checkmated.
func (e *Engine) Checkmate() bool {
	return e.InCheck() && len(e.board.legalMoves()) == 0
}

// Stalemate reports whether the side to move has no legal move while not
// in check.
func (e *Engine) Stalemate() bool {
	return !e.InCheck() && len(e.board.legalMoves()) == 0
}

// History returns the applied moves in order. Its length is the ply count.
func (e *Engine) History() []Move {
	out := make([]Move, len(e.history))
	for i, am := range e.history {
		out[i] = am.move
	}
	return out
}

// PlyCount returns the number of applied half-moves.
func (e *Engine) PlyCount() int { return len(e.history) }

// FEN returns the current position in Forsyth-Edwards Notation.
func (e *Engine) FEN() string { return e.board.fen() }
