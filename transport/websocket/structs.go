package websocket

import "encoding/json"

// Message is one WebSocket frame: an action type plus a raw payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the request and response body shared by all actions.
type Payload struct {
	Player *PlayerRef `json:"player,omitempty"`
	Game   *GameRef   `json:"game,omitempty"`
	Cell   *int       `json:"cell,omitempty"`
}

type PlayerRef struct {
	ID string `json:"id"`
}

type GameRef struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
}

// ResponsePayload is what the server sends back: the caller's player, the
// full game state and the currently legal cell indices.
type ResponsePayload struct {
	Player     interface{} `json:"player,omitempty"`
	Game       interface{} `json:"game,omitempty"`
	LegalMoves []int       `json:"legal_moves,omitempty"`
	Error      string      `json:"error,omitempty"`
}
