package engine

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

const infinity = math.MaxInt

// Minimax returns the value of b searched depth plies deep, from
// perspective's point of view. Moves are played and taken back on b, so b is
// unchanged when Minimax returns.
func (e *Engine) Minimax(b *model.Board, depth, alpha, beta int, maximizing bool, perspective model.Color) int {
	e.nodes.Add(1)
	if depth <= 0 {
		return e.Evaluate(b, perspective)
	}
	// No legal move for the side to move is exactly checkmate or stalemate.
	moves := b.AllLegalMoves(b.CurrentPlayer())
	if len(moves) == 0 {
		return e.Evaluate(b, perspective)
	}

	if maximizing {
		best := -infinity
		for _, move := range moves {
			b.ApplyMove(move)
			score := e.Minimax(b, depth-1, alpha, beta, false, perspective)
			b.UndoMove()
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := infinity
	for _, move := range moves {
		b.ApplyMove(move)
		score := e.Minimax(b, depth-1, alpha, beta, true, perspective)
		b.UndoMove()
		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// SelectBestMove returns the move with the highest score for the side to
// move, or nil when it has no legal move. Among equal scores the move that
// comes first in AllLegalMoves order wins. b is left as it was.
func (e *Engine) SelectBestMove(b *model.Board) *model.Move {
	e.nodes.Store(0)
	moves := b.AllLegalMoves(b.CurrentPlayer())
	if len(moves) == 0 {
		return nil
	}

	scores := e.scoreRootMoves(b, moves)
	best, bestScore := -1, -infinity
	for i, score := range scores {
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	move := moves[best]
	return &move
}

// scoreRootMoves searches every root move with a full window, so each score
// is the exact minimax value and the result does not depend on Workers.
func (e *Engine) scoreRootMoves(b *model.Board, moves []model.Move) []int {
	perspective := b.CurrentPlayer()
	scores := make([]int, len(moves))

	if e.Workers <= 1 {
		for i, move := range moves {
			b.ApplyMove(move)
			scores[i] = e.Minimax(b, e.Depth-1, -infinity, infinity, false, perspective)
			b.UndoMove()
		}
		return scores
	}

	var g errgroup.Group
	g.SetLimit(e.Workers)
	for i, move := range moves {
		position := b.Clone()
		g.Go(func() error {
			position.ApplyMove(move)
			scores[i] = e.Minimax(position, e.Depth-1, -infinity, infinity, false, perspective)
			return nil
		})
	}
	_ = g.Wait()
	return scores
}

// SelectBestMove searches b to the given depth with a single-threaded engine.
func SelectBestMove(b *model.Board, depth int) *model.Move {
	return New(depth).SelectBestMove(b)
}
