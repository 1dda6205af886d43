package service

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrNotPlayer        = errors.New("player is not in this game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidMove      = errors.New("invalid move")
	ErrGameOver         = errors.New("game is over")
	ErrAlreadyConnected = errors.New("connection already exists")
	ErrInvalidColor     = errors.New("invalid color")
)
