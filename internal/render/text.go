// Package render holds the presentation consumers of the board query API.
// Renderers only read state; they never mutate a board.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

const emptyGlyph = "."

// Text writes a human-readable 9x9 board to w, with heavy separators
// between the 3x3 subgrids.
func Text(w io.Writer, board *ultimate.Board) error {
	var sb strings.Builder

	for row := 0; row < ultimate.GridSize; row++ {
		if row > 0 && row%ultimate.SubgridSize == 0 {
			sb.WriteString("------+-------+------\n")
		}

		for col := 0; col < ultimate.GridSize; col++ {
			if col > 0 && col%ultimate.SubgridSize == 0 {
				sb.WriteString("| ")
			}

			glyph := board.CellAt(row, col).String()
			if glyph == "" {
				glyph = emptyGlyph
			}
			sb.WriteString(glyph + " ")
		}

		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}

// Winners writes the per-subgrid and overall winner summary to w.
func Winners(w io.Writer, board *ultimate.Board) error {
	var sb strings.Builder

	sb.WriteString("Subgrid winners:\n")
	for subgrid := 0; subgrid < ultimate.SubgridCount; subgrid++ {
		winner := board.SubgridWinner(subgrid)
		if winner == ultimate.Empty {
			sb.WriteString(fmt.Sprintf("  subgrid %d: no winner\n", subgrid))
			continue
		}
		sb.WriteString(fmt.Sprintf("  subgrid %d: %s wins\n", subgrid, winner))
	}

	if winner := board.OverallWinner(); winner != ultimate.Empty {
		sb.WriteString(fmt.Sprintf("Overall winner: %s\n", winner))
	} else {
		sb.WriteString("Overall winner: none\n")
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write winners: %w", err)
	}

	return nil
}
