package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/alphabeta-chess/internal/engine"
	"github.com/benbeisheim/alphabeta-chess/internal/model"
	"github.com/benbeisheim/alphabeta-chess/internal/notation"
	"github.com/benbeisheim/alphabeta-chess/internal/ws"
)

// Observer receives pushed game states. A websocket connection is one.
type Observer interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections watching a specific game
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

// Game is one human-versus-engine session: a board, the engine that answers
// the human, and the observers to notify after every move.
type Game struct {
	ID          string
	OwnerID     string
	mu          sync.Mutex
	board       *model.Board
	engine      *engine.Engine
	humanColor  model.Color
	lastMove    *SimpleMove
	connections *GameConnections
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SquareState struct {
	Type   model.PieceType `json:"type"`
	Color  model.Color     `json:"color"`
	Symbol string          `json:"symbol"`
}

type GameState struct {
	ID            string                               `json:"gameId"`
	Board         [model.Size][model.Size]*SquareState `json:"board"`
	CurrentPlayer model.Color                          `json:"currentPlayer"`
	HumanColor    model.Color                          `json:"humanColor"`
	InCheck       bool                                 `json:"inCheck"`
	GameOver      bool                                 `json:"gameOver"`
	Winner        string                               `json:"winner,omitempty"` // white, black or draw
	LastMove      *SimpleMove                          `json:"lastMove"`
	MoveHistory   []string                             `json:"moveHistory"`
	FEN           string                               `json:"fen"`
}

type MoveResult struct {
	State        GameState   `json:"state"`
	ComputerMove *SimpleMove `json:"computerMove"`
}

// NewGame starts a game from the initial position. When the engine has the
// first move it is played before NewGame returns.
func NewGame(id, ownerID string, humanColor model.Color, eng *engine.Engine) *Game {
	g := &Game{
		ID:          id,
		OwnerID:     ownerID,
		board:       model.NewBoard(),
		engine:      eng,
		humanColor:  humanColor,
		connections: NewGameConnections(),
	}
	if g.board.CurrentPlayer() != humanColor {
		g.playComputerMove()
	}
	return g
}

func simpleMove(m model.Move) *SimpleMove {
	return &SimpleMove{From: notation.SquareName(m.From), To: notation.SquareName(m.To)}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

// LastMove is the most recent move on the board, nil before the first one.
func (g *Game) LastMove() *SimpleMove {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lastMove
}

func (g *Game) state() GameState {
	s := GameState{
		ID:            g.ID,
		CurrentPlayer: g.board.CurrentPlayer(),
		HumanColor:    g.humanColor,
		InCheck:       g.board.IsInCheck(g.board.CurrentPlayer()),
		LastMove:      g.lastMove,
		FEN:           notation.FEN(g.board),
	}
	for row := 0; row < model.Size; row++ {
		for col := 0; col < model.Size; col++ {
			if p := g.board.PieceAt(row, col); p != nil {
				s.Board[row][col] = &SquareState{Type: p.Type, Color: p.Color, Symbol: p.Symbol()}
			}
		}
	}

	over, winner := g.board.IsGameOver()
	s.GameOver = over
	if over {
		s.Winner = "draw"
		if winner != nil {
			s.Winner = string(*winner)
		}
	}

	history, err := notation.SAN(notation.StartFEN, g.board.History())
	if err != nil {
		log.Errorw("failed to build move history", "game", g.ID, "error", err)
	}
	s.MoveHistory = history
	if s.MoveHistory == nil {
		s.MoveHistory = []string{}
	}
	return s
}

// MakeMove plays the owner's move from one square to another and, unless
// that ends the game, the engine's reply. Observers get the new state before
// the game is unlocked, so they see states in move order.
func (g *Game) MakeMove(playerID, from, to string) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, err := g.makeMove(playerID, from, to)
	if err != nil {
		return MoveResult{}, err
	}
	g.broadcastState(result.State)
	return result, nil
}

// makeMove requires g.mu.
func (g *Game) makeMove(playerID, from, to string) (MoveResult, error) {
	log.Debugw("making move", "game", g.ID, "player", playerID, "from", from, "to", to)

	if playerID != g.OwnerID {
		return MoveResult{}, ErrNotPlayer
	}
	start, err := notation.ParseSquare(from)
	if err != nil {
		return MoveResult{}, err
	}
	end, err := notation.ParseSquare(to)
	if err != nil {
		return MoveResult{}, err
	}
	if over, _ := g.board.IsGameOver(); over {
		return MoveResult{}, ErrGameOver
	}
	if g.board.CurrentPlayer() != g.humanColor {
		return MoveResult{}, ErrNotYourTurn
	}

	move, ok := g.findLegalMove(start, end)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s to %s", ErrInvalidMove, from, to)
	}
	g.board.ApplyMove(move)
	g.lastMove = simpleMove(move)

	var reply *SimpleMove
	if over, _ := g.board.IsGameOver(); !over && g.board.CurrentPlayer() != g.humanColor {
		reply = g.playComputerMove()
	}
	return MoveResult{State: g.state(), ComputerMove: reply}, nil
}

func (g *Game) findLegalMove(from, to model.Position) (model.Move, bool) {
	for _, legalMove := range g.board.AllLegalMoves(g.board.CurrentPlayer()) {
		if legalMove.From == from && legalMove.To == to {
			return legalMove, true
		}
	}
	return model.Move{}, false
}

// playComputerMove lets the engine move for the side to move. It returns nil
// when the engine has no legal move.
func (g *Game) playComputerMove() *SimpleMove {
	started := time.Now()
	move := g.engine.SelectBestMove(g.board)
	if move == nil {
		log.Warnw("engine has no legal move", "game", g.ID)
		return nil
	}
	g.board.ApplyMove(*move)
	g.lastMove = simpleMove(*move)
	log.Infow("engine moved",
		"game", g.ID,
		"move", notation.MoveName(*move),
		"depth", g.engine.Depth,
		"nodes", g.engine.Nodes(),
		"elapsed", time.Since(started).String(),
	)
	return g.lastMove
}

// LegalDestinations lists where the piece on from may move. It is empty for
// an empty square or a piece of the side not to move.
func (g *Game) LegalDestinations(from string) ([]string, error) {
	start, err := notation.ParseSquare(from)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	destinations := []string{}
	for _, m := range g.board.LegalMovesFrom(start.Row, start.Col) {
		destinations = append(destinations, notation.SquareName(m.To))
	}
	return destinations, nil
}

// PGN exports the game so far.
func (g *Game) PGN() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	white, black := "Human", "Engine"
	if g.humanColor == model.Black {
		white, black = black, white
	}
	return notation.PGN(notation.StartFEN, g.board.History(), map[string]string{
		"Event": "Game " + g.ID,
		"White": white,
		"Black": black,
	})
}

// RegisterConnection adds conn as playerID's observer and sends it the
// current state. Other observers are not notified.
func (g *Game) RegisterConnection(playerID string, conn Observer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the new one
		return ErrAlreadyConnected
	}

	msg, err := stateMessage(g.state())
	if err != nil {
		log.Errorw("failed to marshal state", "game", g.ID, "error", err)
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Warnw("failed to send initial state", "game", g.ID, "player", playerID, "error", err)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	log.Infow("registered connection", "game", g.ID, "player", playerID)
	return nil
}

// UnregisterConnection forgets playerID's connection if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn Observer) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infow("unregistered connection", "game", g.ID, "player", playerID)
		delete(g.connections.connections, playerID)
	}
}

// closeConnections drops every observer, used when the game is removed.
func (g *Game) closeConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		_ = conn.Close()
		delete(g.connections.connections, playerID)
	}
}

func stateMessage(state GameState) (ws.Message, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return ws.Message{}, err
	}
	return ws.Message{Type: ws.MessageTypeGameState, Payload: payload}, nil
}

// broadcastState sends state to every observer, dropping those that fail.
// Callers hold g.mu so broadcasts follow move order.
func (g *Game) broadcastState(state GameState) {
	msg, err := stateMessage(state)
	if err != nil {
		log.Errorw("failed to marshal state", "game", g.ID, "error", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnw("failed to send state, dropping connection", "game", g.ID, "player", playerID, "error", err)
			_ = conn.Close()
			delete(g.connections.connections, playerID)
		}
	}
}
