// service/game_manager.go
package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/benbeisheim/alphabeta-chess/internal/engine"
	"github.com/benbeisheim/alphabeta-chess/internal/model"
)

// GameManager owns every running game, keyed by game ID.
type GameManager struct {
	games   map[string]*Game
	depth   int
	workers int
	mu      sync.RWMutex
}

func NewGameManager(depth, workers int) *GameManager {
	return &GameManager{
		games:   make(map[string]*Game),
		depth:   depth,
		workers: workers,
	}
}

func (gm *GameManager) newEngine() *engine.Engine {
	eng := engine.New(gm.depth)
	eng.Workers = gm.workers
	return eng
}

// CreateGame starts a game under gameID. An existing game with that ID is
// restarted if ownerID owns it and refused otherwise.
func (gm *GameManager) CreateGame(gameID, ownerID string, humanColor model.Color) (*Game, error) {
	gm.mu.RLock()
	existing, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists && existing.OwnerID != ownerID {
		return nil, ErrGameExists
	}

	// The engine may move first, so build the game before taking the lock.
	game := NewGame(gameID, ownerID, humanColor, gm.newEngine())

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if current, ok := gm.games[gameID]; ok {
		if current.OwnerID != ownerID {
			return nil, ErrGameExists
		}
		current.closeConnections()
		log.Infow("restarting game", "game", gameID, "player", ownerID)
	}
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) DeleteGame(gameID, playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, exists := gm.games[gameID]
	if !exists {
		return ErrGameNotFound
	}
	if game.OwnerID != playerID {
		return ErrNotPlayer
	}
	game.closeConnections()
	delete(gm.games, gameID)
	return nil
}

// ListGames returns the IDs of all games in sorted order.
func (gm *GameManager) ListGames() []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := maps.Keys(gm.games)
	slices.Sort(ids)
	return ids
}
