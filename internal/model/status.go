package model

// IsCheckmate: in check with no legal move.
func (b *Board) IsCheckmate(color Color) bool {
	return b.IsInCheck(color) && !b.HasLegalMove(color)
}

// IsStalemate: not in check with no legal move.
func (b *Board) IsStalemate(color Color) bool {
	return !b.IsInCheck(color) && !b.HasLegalMove(color)
}

// IsGameOver classifies the position for the side to move. On checkmate the
// winner is the opponent of the side to move; on stalemate winner is nil.
func (b *Board) IsGameOver() (bool, *Color) {
	if b.HasLegalMove(b.turn) {
		return false, nil
	}
	if b.IsInCheck(b.turn) {
		winner := b.turn.Opponent()
		return true, &winner
	}
	return true, nil
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.AllLegalMoves(b.turn)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, move := range moves {
		b.ApplyMove(move)
		nodes += Perft(b, depth-1)
		b.UndoMove()
	}
	return nodes
}
