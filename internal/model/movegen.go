package model

var (
	rookDirs   = []Position{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = []Position{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
	kingDirs = append(append([]Position{}, rookDirs...), bishopDirs...)
)

// pawnDirection is the row delta of a forward pawn step. White moves toward row 0.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// PseudoLegalMoves lists the geometric moves of the piece on (row, col).
// It is empty when the cell is empty or holds a piece of the side not to move.
func (b *Board) PseudoLegalMoves(row, col int) []Move {
	piece := b.PieceAt(row, col)
	if piece == nil || piece.Color != b.turn {
		return nil
	}
	return b.pieceMoves(Position{Row: row, Col: col}, piece)
}

// pieceMoves generates moves for piece at from regardless of whose turn it is.
func (b *Board) pieceMoves(from Position, piece *Piece) []Move {
	switch piece.Type {
	case Pawn:
		return b.pawnMoves(from, piece)
	case Rook:
		return b.slidingMoves(from, piece, rookDirs)
	case Knight:
		return b.steppingMoves(from, piece, knightDirs)
	case Bishop:
		return b.slidingMoves(from, piece, bishopDirs)
	case Queen:
		return append(b.slidingMoves(from, piece, rookDirs), b.slidingMoves(from, piece, bishopDirs)...)
	case King:
		return b.steppingMoves(from, piece, kingDirs)
	default:
		return nil
	}
}

func (b *Board) pawnMoves(from Position, piece *Piece) []Move {
	var moves []Move
	dir := pawnDirection(piece.Color)

	// Forward 1, then forward 2 from the starting rank
	one := Position{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && b.squares[one.Row][one.Col] == nil {
		moves = append(moves, Move{From: from, To: one, Piece: piece})
		two := Position{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == pawnStartRow(piece.Color) && two.InBounds() && b.squares[two.Row][two.Col] == nil {
			moves = append(moves, Move{From: from, To: two, Piece: piece})
		}
	}

	// Diagonal captures, left then right
	for _, dc := range []int{-1, 1} {
		target := Position{Row: from.Row + dir, Col: from.Col + dc}
		if !target.InBounds() {
			continue
		}
		if victim := b.squares[target.Row][target.Col]; victim != nil && victim.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target, Piece: piece, Captured: victim})
		}
	}
	return moves
}

func (b *Board) slidingMoves(from Position, piece *Piece, dirs []Position) []Move {
	var moves []Move
	for _, dir := range dirs {
		target := from.offset(dir)
		for target.InBounds() {
			occupant := b.squares[target.Row][target.Col]
			if occupant == nil {
				moves = append(moves, Move{From: from, To: target, Piece: piece})
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, Move{From: from, To: target, Piece: piece, Captured: occupant})
				}
				break
			}
			target = target.offset(dir)
		}
	}
	return moves
}

func (b *Board) steppingMoves(from Position, piece *Piece, offsets []Position) []Move {
	var moves []Move
	for _, dir := range offsets {
		target := from.offset(dir)
		if !target.InBounds() {
			continue
		}
		occupant := b.squares[target.Row][target.Col]
		if occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, Move{From: from, To: target, Piece: piece, Captured: occupant})
		}
	}
	return moves
}
