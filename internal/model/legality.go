package model

// IsMoveLegal plays the move, checks whether the mover's king is attacked,
// and takes the move back. The board is left exactly as it was.
func (b *Board) IsMoveLegal(move Move) bool {
	piece := b.PieceAt(move.From.Row, move.From.Col)
	if piece == nil {
		return false
	}
	mover := piece.Color
	if !b.ApplyMove(move) {
		return false
	}
	legal := !b.IsInCheck(mover)
	b.UndoMove()
	return legal
}

// LegalMovesFrom filters PseudoLegalMoves(row, col) through IsMoveLegal.
func (b *Board) LegalMovesFrom(row, col int) []Move {
	return b.filterLegalMoves(b.PseudoLegalMoves(row, col))
}

// AllLegalMoves lists every legal move of color, scanning rows then columns.
// That order is what search tie-breaks depend on. The color does not have to
// be the side to move.
func (b *Board) AllLegalMoves(color Color) []Move {
	var moves []Move
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := b.squares[row][col]
			if piece == nil || piece.Color != color {
				continue
			}
			moves = append(moves, b.filterLegalMoves(b.pieceMoves(Position{Row: row, Col: col}, piece))...)
		}
	}
	return moves
}

// HasLegalMove reports whether AllLegalMoves(color) would be non-empty,
// stopping at the first legal move found.
func (b *Board) HasLegalMove(color Color) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := b.squares[row][col]
			if piece == nil || piece.Color != color {
				continue
			}
			for _, move := range b.pieceMoves(Position{Row: row, Col: col}, piece) {
				if b.IsMoveLegal(move) {
					return true
				}
			}
		}
	}
	return false
}

func (b *Board) filterLegalMoves(pseudoMoves []Move) []Move {
	var legalMoves []Move
	for _, move := range pseudoMoves {
		if b.IsMoveLegal(move) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// IsInCheck reports whether color's king is attacked. A board without that
// king is never in check.
func (b *Board) IsInCheck(color Color) bool {
	king, ok := b.findKing(color)
	if !ok {
		return false
	}
	return b.isSquareAttacked(color.Opponent(), king)
}

func (b *Board) findKing(color Color) (Position, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; p != nil && p.Type == King && p.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// isSquareAttacked looks outward from target for an attacker of the given
// color. It answers the same question as "does any pseudo-legal move of that
// color land on target", without generating those moves.
func (b *Board) isSquareAttacked(attacker Color, target Position) bool {
	attackedBy := func(pos Position, types ...PieceType) bool {
		p := b.squares[pos.Row][pos.Col]
		if p == nil || p.Color != attacker {
			return false
		}
		for _, t := range types {
			if p.Type == t {
				return true
			}
		}
		return false
	}

	for _, dir := range rookDirs {
		pos := target.offset(dir)
		for pos.InBounds() {
			if b.squares[pos.Row][pos.Col] != nil {
				if attackedBy(pos, Rook, Queen) {
					return true
				}
				break
			}
			pos = pos.offset(dir)
		}
	}
	for _, dir := range bishopDirs {
		pos := target.offset(dir)
		for pos.InBounds() {
			if b.squares[pos.Row][pos.Col] != nil {
				if attackedBy(pos, Bishop, Queen) {
					return true
				}
				break
			}
			pos = pos.offset(dir)
		}
	}
	for _, dir := range knightDirs {
		if pos := target.offset(dir); pos.InBounds() && attackedBy(pos, Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		if pos := target.offset(dir); pos.InBounds() && attackedBy(pos, King) {
			return true
		}
	}
	// A pawn attacks diagonally forward, so it sits one row behind target
	// from its own point of view.
	pawnRow := target.Row - pawnDirection(attacker)
	for _, dc := range []int{-1, 1} {
		if pos := (Position{Row: pawnRow, Col: target.Col + dc}); pos.InBounds() && attackedBy(pos, Pawn) {
			return true
		}
	}
	return false
}
