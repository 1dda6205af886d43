// Package notation converts between the engine's (row, col) coordinates and
// the text formats clients speak: algebraic squares, FEN and PGN.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

var ErrInvalidSquare = errors.New("invalid square")

// ParseSquare turns "e4" into a Position. Row 0 is rank 8.
func ParseSquare(s string) (model.Position, error) {
	if len(s) != 2 {
		return model.Position{}, fmt.Errorf("%w: %q, expected a square like e4", ErrInvalidSquare, s)
	}
	s = strings.ToLower(s)
	p := model.Position{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}
	if !p.InBounds() {
		return model.Position{}, fmt.Errorf("%w: %q is not between a1 and h8", ErrInvalidSquare, s)
	}
	return p, nil
}

func SquareName(p model.Position) string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, 8-p.Row)
}

// MoveName is the coordinate form of a move, e.g. "e2e4".
func MoveName(m model.Move) string {
	return SquareName(m.From) + SquareName(m.To)
}
