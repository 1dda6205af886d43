package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

var ErrInvalidFEN = errors.New("invalid FEN")

var fenPieces = map[byte]model.PieceType{
	'p': model.Pawn,
	'n': model.Knight,
	'b': model.Bishop,
	'r': model.Rook,
	'q': model.Queen,
	'k': model.King,
}

var fenLetters = map[model.PieceType]byte{
	model.Pawn:   'p',
	model.Knight: 'n',
	model.Bishop: 'b',
	model.Rook:   'r',
	model.Queen:  'q',
	model.King:   'k',
}

// FEN encodes the board. Castling and en passant are always "-" since the
// engine implements neither.
func FEN(b *model.Board) string {
	var sb strings.Builder
	for row := 0; row < model.Size; row++ {
		empty := 0
		for col := 0; col < model.Size; col++ {
			p := b.PieceAt(row, col)
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			letter := fenLetters[p.Type]
			if p.Color == model.White {
				letter -= 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < model.Size-1 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if b.CurrentPlayer() == model.Black {
		side = "b"
	}
	fullMove := len(b.History())/2 + 1
	return fmt.Sprintf("%s %s - - 0 %d", sb.String(), side, fullMove)
}

// ParseFEN reads piece placement and side to move. Remaining fields are
// accepted and ignored.
func ParseFEN(s string) (*model.Board, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: want at least placement and side to move", ErrInvalidFEN)
	}

	var toMove model.Color
	switch fields[1] {
	case "w":
		toMove = model.White
	case "b":
		toMove = model.Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != model.Size {
		return nil, fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}

	b := model.NewEmptyBoard(toMove)
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			color := model.Black
			lower := c
			if c >= 'A' && c <= 'Z' {
				color = model.White
				lower = c + ('a' - 'A')
			}
			pt, ok := fenPieces[lower]
			if !ok {
				return nil, fmt.Errorf("%w: piece %q", ErrInvalidFEN, c)
			}
			if col >= model.Size {
				return nil, fmt.Errorf("%w: rank %d has more than 8 files", ErrInvalidFEN, 8-row)
			}
			b.Place(row, col, model.NewPiece(pt, color))
			col++
		}
		if col != model.Size {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-row, col)
		}
	}
	return b, nil
}
