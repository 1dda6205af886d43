package notation

import (
	"fmt"

	"github.com/notnil/chess"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

// StartFEN is the standard initial position without castling rights.
var StartFEN = FEN(model.NewBoard())

func chessSquare(p model.Position) chess.Square {
	return chess.Square((7-p.Row)*8 + p.Col)
}

// replay plays history on a notnil game started from startFEN. It stops at
// the first move standard chess cannot express (a pawn reaching the last
// rank without promoting) and returns that move's index, or len(history).
func replay(startFEN string, history []model.Move) (*chess.Game, []string, int, error) {
	opt, err := chess.FEN(startFEN)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	game := chess.NewGame(opt)
	san := make([]string, 0, len(history))

	for i, m := range history {
		pos := game.Position()
		var found *chess.Move
		for _, valid := range game.ValidMoves() {
			if valid.S1() == chessSquare(m.From) && valid.S2() == chessSquare(m.To) && valid.Promo() == chess.NoPieceType {
				found = valid
				break
			}
		}
		if found == nil {
			return game, san, i, nil
		}
		text := chess.AlgebraicNotation{}.Encode(pos, found)
		if err := game.Move(found); err != nil {
			return game, san, i, nil
		}
		san = append(san, text)
	}
	return game, san, len(history), nil
}

// SAN lists the history in standard algebraic notation. Moves after one that
// leaves standard chess are given in coordinate form.
func SAN(startFEN string, history []model.Move) ([]string, error) {
	_, san, stop, err := replay(startFEN, history)
	if err != nil {
		return nil, err
	}
	for _, m := range history[stop:] {
		san = append(san, MoveName(m))
	}
	return san, nil
}

// PGN exports the game with the given tag pairs, sorted by name. Only the
// part of the history expressible in standard chess is included.
func PGN(startFEN string, history []model.Move, tags map[string]string) (string, error) {
	game, _, _, err := replay(startFEN, history)
	if err != nil {
		return "", err
	}
	keys := maps.Keys(tags)
	slices.Sort(keys)
	for _, k := range keys {
		game.AddTagPair(k, tags[k])
	}
	return game.String(), nil
}
