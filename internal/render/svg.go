package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

const (
	cellSize  = 60
	boardSize = cellSize * ultimate.GridSize

	playerOneColor = "#1f4fd8"
	playerTwoColor = "#d81f1f"
)

// SVG writes the board as a standalone SVG image: thin grid lines, bold
// strokes on every third line, blue X and red O glyphs centered in their
// cells.
func SVG(w io.Writer, board *ultimate.Board) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		boardSize, boardSize, boardSize, boardSize))
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>`)

	for i := 0; i <= ultimate.GridSize; i++ {
		width := 1
		if i%ultimate.SubgridSize == 0 {
			width = 4
		}

		offset := i * cellSize
		sb.WriteString(fmt.Sprintf(
			`<line x1="%d" y1="0" x2="%d" y2="%d" stroke="black" stroke-width="%d"/>`,
			offset, offset, boardSize, width))
		sb.WriteString(fmt.Sprintf(
			`<line x1="0" y1="%d" x2="%d" y2="%d" stroke="black" stroke-width="%d"/>`,
			offset, boardSize, offset, width))
	}

	for row := 0; row < ultimate.GridSize; row++ {
		for col := 0; col < ultimate.GridSize; col++ {
			cell := board.CellAt(row, col)
			if cell == ultimate.Empty {
				continue
			}

			color := playerOneColor
			if cell == ultimate.PlayerTwo {
				color = playerTwoColor
			}

			x := col*cellSize + cellSize/2
			y := row*cellSize + cellSize/2
			sb.WriteString(fmt.Sprintf(
				`<text x="%d" y="%d" font-size="%d" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`,
				x, y, cellSize*2/3, color, cell))
		}
	}

	sb.WriteString(`</svg>`)

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}

	return nil
}
