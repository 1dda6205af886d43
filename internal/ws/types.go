package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages sent over a game socket
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope for every websocket frame
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload is the payload of an inbound move message, in square names ("e2").
type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ErrorPayload is the payload of an outbound error message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewErrorMessage wraps an error text in an error message.
func NewErrorMessage(text string) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: text})
	return Message{Type: MessageTypeError, Payload: payload}
}
