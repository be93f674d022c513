package entity

import (
	"strings"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

// BotIDPrefix marks the IDs of bot players.
const BotIDPrefix = "bot:"

type Player struct {
	ID     string        `json:"id"`
	Mark   ultimate.Cell `json:"mark,omitempty"`
	GameID string        `json:"game_id,omitempty"`
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, BotIDPrefix)
}
