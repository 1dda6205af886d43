package model

import "strings"

const Size = 8

// Board is the only mutable entity of the rules engine. Search code explores
// continuations with ApplyMove/UndoMove or on a Clone, never by editing a
// shared board without restoring it.
type Board struct {
	squares         [Size][Size]*Piece
	turn            Color
	history         []Move
	undo            []undoRecord
	EnPassantTarget *Position
}

var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard initial position with White to move.
func NewBoard() *Board {
	board := NewEmptyBoard(White)
	for col := 0; col < Size; col++ {
		board.squares[0][col] = NewPiece(backRank[col], Black)
		board.squares[1][col] = NewPiece(Pawn, Black)
		board.squares[6][col] = NewPiece(Pawn, White)
		board.squares[7][col] = NewPiece(backRank[col], White)
	}
	return board
}

// NewEmptyBoard returns a board without pieces, used to set up fixtures.
func NewEmptyBoard(toMove Color) *Board {
	return &Board{turn: toMove}
}

func (b *Board) CurrentPlayer() Color {
	return b.turn
}

func (b *Board) SetCurrentPlayer(c Color) {
	b.turn = c
}

// History returns the applied moves, oldest first.
func (b *Board) History() []Move {
	out := make([]Move, len(b.history))
	copy(out, b.history)
	return out
}

// PieceAt returns nil for an empty cell or an out of range square.
func (b *Board) PieceAt(row, col int) *Piece {
	if !(Position{Row: row, Col: col}).InBounds() {
		return nil
	}
	return b.squares[row][col]
}

// Place writes a cell. Out of range squares are ignored.
func (b *Board) Place(row, col int, piece *Piece) {
	if !(Position{Row: row, Col: col}).InBounds() {
		return
	}
	b.squares[row][col] = piece
}

// CountPieces returns how many pieces of the given color are on the board.
func (b *Board) CountPieces(color Color) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; p != nil && p.Color == color {
				n++
			}
		}
	}
	return n
}

// ApplyMove relocates the piece without any legality check, marks it moved,
// records the move and passes the turn. It fails only when the source cell
// is empty (or a square is off the board).
func (b *Board) ApplyMove(move Move) bool {
	if !move.To.InBounds() {
		return false
	}
	piece := b.PieceAt(move.From.Row, move.From.Col)
	if piece == nil {
		return false
	}

	b.undo = append(b.undo, undoRecord{
		captured: b.squares[move.To.Row][move.To.Col],
		hadMoved: piece.HasMoved,
		turn:     b.turn,
	})
	b.squares[move.To.Row][move.To.Col] = piece
	b.squares[move.From.Row][move.From.Col] = nil
	piece.HasMoved = true
	b.history = append(b.history, move)
	b.turn = b.turn.Opponent()
	return true
}

// UndoMove reverts the last ApplyMove. It returns false when there is
// nothing to undo.
func (b *Board) UndoMove() bool {
	n := len(b.undo)
	if n == 0 {
		return false
	}
	rec := b.undo[n-1]
	move := b.history[len(b.history)-1]
	b.undo = b.undo[:n-1]
	b.history = b.history[:len(b.history)-1]

	piece := b.squares[move.To.Row][move.To.Col]
	b.squares[move.From.Row][move.From.Col] = piece
	b.squares[move.To.Row][move.To.Col] = rec.captured
	if piece != nil {
		piece.HasMoved = rec.hadMoved
	}
	b.turn = rec.turn
	return true
}

// Clone returns a deep copy. Pieces referenced from the history and undo
// stack are remapped so the copy never shares a Piece with the original.
func (b *Board) Clone() *Board {
	copies := make(map[*Piece]*Piece)
	dup := func(p *Piece) *Piece {
		if p == nil {
			return nil
		}
		if c, ok := copies[p]; ok {
			return c
		}
		c := *p
		copies[p] = &c
		return &c
	}

	out := &Board{turn: b.turn}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out.squares[row][col] = dup(b.squares[row][col])
		}
	}
	if len(b.history) > 0 {
		out.history = make([]Move, len(b.history))
		for i, m := range b.history {
			m.Piece = dup(m.Piece)
			m.Captured = dup(m.Captured)
			out.history[i] = m
		}
	}
	if len(b.undo) > 0 {
		out.undo = make([]undoRecord, len(b.undo))
		for i, rec := range b.undo {
			rec.captured = dup(rec.captured)
			out.undo[i] = rec
		}
	}
	if b.EnPassantTarget != nil {
		target := *b.EnPassantTarget
		out.EnPassantTarget = &target
	}
	return out
}

// String renders the board with rank and file labels, White at the bottom.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < Size; row++ {
		rank := string(rune('8' - row))
		sb.WriteString(rank + " ")
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; p != nil {
				sb.WriteString(p.Symbol() + " ")
			} else {
				sb.WriteString("· ")
			}
		}
		sb.WriteString(rank + "\n")
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString("Current player: " + string(b.turn) + "\n")
	return sb.String()
}
