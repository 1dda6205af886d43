package service

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a game for ownerID playing humanColor ("white" when
// empty). An empty gameID gets a fresh UUID.
func (gs *GameService) CreateGame(gameID, ownerID, humanColor string) (MoveResult, error) {
	color := model.White
	if humanColor != "" {
		c, ok := model.ParseColor(humanColor)
		if !ok {
			return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidColor, humanColor)
		}
		color = c
	}
	if gameID == "" {
		gameID = uuid.New().String()
	}

	game, err := gs.gameManager.CreateGame(gameID, ownerID, color)
	if err != nil {
		return MoveResult{}, fmt.Errorf("failed to create game: %w", err)
	}
	log.Infow("game created", "game", gameID, "player", ownerID, "humanColor", color)

	state := game.GetState()
	result := MoveResult{State: state}
	if color != model.White {
		result.ComputerMove = state.LastMove
	}
	return result, nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.ListGames()
}

func (gs *GameService) DeleteGame(gameID, playerID string) error {
	return gs.gameManager.DeleteGame(gameID, playerID)
}

func (gs *GameService) HandleMove(gameID, playerID, from, to string) (MoveResult, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return MoveResult{}, err
	}
	return game.MakeMove(playerID, from, to)
}

func (gs *GameService) LegalMoves(gameID, from string) ([]string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(from)
}

func (gs *GameService) PGN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.PGN()
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn Observer) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn Observer) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
