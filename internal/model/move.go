package model

// Move is a single ply. Castling, EnPassant and Promotion are carried for
// future rules and are never set by the generator.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Piece     *Piece    `json:"piece"`
	Captured  *Piece    `json:"captured,omitempty"`
	Castling  bool      `json:"castling"`
	EnPassant bool      `json:"enPassant"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// SameSquares reports whether two moves go from and to the same squares.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// undoRecord is what UndoMove needs to restore the position before a move.
type undoRecord struct {
	captured *Piece
	hadMoved bool
	turn     Color
}
