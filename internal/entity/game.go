package entity

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

// Game is one Ultimate Tic-Tac-Toe session: the board plus the turn order,
// status and players the engine itself stays agnostic of.
type Game struct {
	ID      string          `json:"id"`
	Board   *ultimate.Board `json:"board"`
	Turn    ultimate.Cell   `json:"player_turn"`
	Winner  ultimate.Cell   `json:"winner"`
	Tie     bool            `json:"tie,omitempty"`
	Status  string          `json:"status"`
	Players []*Player       `json:"players,omitempty"`
	Type    string          `json:"type,omitempty"`
}

func NewGame(id, gameType string, rules ultimate.Rules) *Game {
	return &Game{
		ID:     id,
		Board:  ultimate.NewBoardWithRules(rules),
		Turn:   ultimate.PlayerOne,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// MakeTurn applies one move for the given mark. Turn alternation and the
// stop-after-a-winner policy live here; the board below only validates cell
// legality and the forced-subgrid constraint.
func (that *Game) MakeTurn(mark ultimate.Cell, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.UpdateCell(cell, mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.UpdateGameState()

	return nil
}

// UpdateGameState derives winner, tie and status from the board and passes
// the turn while the game is still open.
func (that *Game) UpdateGameState() {
	switch {
	case that.Board.OverallWinner() != ultimate.Empty:
		that.Winner = that.Board.OverallWinner()
		that.Status = StatusFinished
		that.Turn = ultimate.Empty
	case that.Board.IsFull():
		that.Tie = true
		that.Status = StatusFinished
		that.Turn = ultimate.Empty
	default:
		that.Status = StatusOngoing
		that.Turn = that.Turn.Opponent()
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetRandomMarks() (ultimate.Cell, ultimate.Cell) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return ultimate.PlayerOne, ultimate.PlayerTwo
	}
	return ultimate.PlayerTwo, ultimate.PlayerOne
}
