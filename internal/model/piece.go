package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// ParseColor accepts "white" or "black".
func ParseColor(s string) (Color, bool) {
	switch Color(s) {
	case White:
		return White, true
	case Black:
		return Black, true
	}
	return "", false
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Piece is owned by the single board cell holding it.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c}
}

var pieceSymbols = map[Color]map[PieceType]string{
	White: {Pawn: "♙", Rook: "♖", Knight: "♘", Bishop: "♗", Queen: "♕", King: "♔"},
	Black: {Pawn: "♟", Rook: "♜", Knight: "♞", Bishop: "♝", Queen: "♛", King: "♚"},
}

// Symbol returns the unicode glyph for the piece, or "?" for an unknown kind.
func (p *Piece) Symbol() string {
	if s, ok := pieceSymbols[p.Color][p.Type]; ok {
		return s
	}
	return "?"
}

func (p *Piece) String() string {
	return p.Symbol()
}

// Position is a (row, col) pair. Row 0 is Black's back rank, row 7 is White's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) offset(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}
