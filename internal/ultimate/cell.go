package ultimate

import "fmt"

// Cell is the value of a single board cell.
type Cell uint8

const (
	Empty Cell = iota
	PlayerOne
	PlayerTwo
)

const (
	markEmpty     = ""
	markPlayerOne = "X"
	markPlayerTwo = "O"
)

// IsPlayer reports whether the cell holds one of the two player marks.
func (that Cell) IsPlayer() bool {
	return that == PlayerOne || that == PlayerTwo
}

// Opponent returns the other player's mark. Empty stays Empty.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return Empty
	}
}

func (that Cell) String() string {
	switch that {
	case PlayerOne:
		return markPlayerOne
	case PlayerTwo:
		return markPlayerTwo
	default:
		return markEmpty
	}
}

// MarshalJSON encodes the cell as "", "X" or "O" so stored boards stay
// readable in Redis and over the wire.
func (that Cell) MarshalJSON() ([]byte, error) {
	return []byte(`"` + that.String() + `"`), nil
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `""`:
		*that = Empty
	case `"` + markPlayerOne + `"`:
		*that = PlayerOne
	case `"` + markPlayerTwo + `"`:
		*that = PlayerTwo
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPlayer, data)
	}

	return nil
}
