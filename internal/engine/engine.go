// Package engine picks moves for the computer player with a fixed-depth
// minimax search and alpha-beta pruning over a material evaluation.
package engine

import (
	"sync/atomic"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

const (
	DefaultDepth = 3
	// MateScore is returned by Evaluate for a checkmated side.
	MateScore = 999999
)

var PieceValues = map[model.PieceType]int{
	model.Pawn:   100,
	model.Knight: 320,
	model.Bishop: 330,
	model.Rook:   500,
	model.Queen:  900,
	model.King:   20000,
}

type Engine struct {
	// Depth is the search depth in plies, counting the root move.
	Depth int
	// Workers > 1 searches root moves concurrently, each on its own clone.
	Workers int

	nodes atomic.Uint64
}

func New(depth int) *Engine {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Engine{Depth: depth, Workers: 1}
}

// Nodes returns how many positions the last SelectBestMove visited.
func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}

// Evaluate scores the board from perspective's point of view. Mate checks
// come before material, so a mating position scores as a win whatever the
// material balance.
func (e *Engine) Evaluate(b *model.Board, perspective model.Color) int {
	if b.IsCheckmate(perspective) {
		return -MateScore
	}
	if b.IsCheckmate(perspective.Opponent()) {
		return MateScore
	}
	if b.IsStalemate(perspective) {
		return 0
	}

	score := 0
	for row := 0; row < model.Size; row++ {
		for col := 0; col < model.Size; col++ {
			piece := b.PieceAt(row, col)
			if piece == nil {
				continue
			}
			if piece.Color == perspective {
				score += PieceValues[piece.Type]
			} else {
				score -= PieceValues[piece.Type]
			}
		}
	}
	return score
}
