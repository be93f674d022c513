package ultimate

import (
	"errors"
	"fmt"
)

const (
	// GridSize is the side length of the full board.
	GridSize = 9
	// SubgridSize is the side length of one subgrid.
	SubgridSize = 3
	// CellCount is the number of cells on the full board.
	CellCount = GridSize * GridSize
	// SubgridCount is the number of subgrids on the board.
	SubgridCount = GridSize

	// FreePlay marks the absence of a forced subgrid.
	FreePlay = -1
)

var (
	ErrOutOfRange      = errors.New("position is out of range")
	ErrInvalidPlayer   = errors.New("invalid player mark")
	ErrCellUnavailable = errors.New("cell is occupied or outside the forced subgrid")
	ErrInvalidSubgrid  = errors.New("subgrid must be exactly 3x3 cells")

	// WinCombos are the 8 winning lines of a 3x3 grid, in check order:
	// 3 rows, 3 columns, main diagonal, anti-diagonal.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// WinRule selects how the overall winner is detected.
type WinRule string

const (
	// WinRuleCellLines declares the overall winner from full 9-cell lines of
	// raw cell values across the whole grid, regardless of subgrid outcomes.
	WinRuleCellLines WinRule = "cells"
	// WinRuleSubgridLines declares the overall winner from 3-in-a-row on the
	// 3x3 grid of subgrid winners.
	WinRuleSubgridLines WinRule = "subgrids"
)

// Rules are the board policy toggles.
type Rules struct {
	// StrictGating rejects moves into subgrids that already have a winner.
	// Off by default: a decided subgrid still accepts moves into its empty
	// cells, its recorded winner just never changes.
	StrictGating bool `json:"strict_gating,omitempty"`
	// WinRule defaults to WinRuleCellLines when empty.
	WinRule WinRule `json:"win_rule,omitempty"`
}

// Board is the Ultimate Tic-Tac-Toe rules engine: a 9x9 grid of cells split
// into nine 3x3 subgrids, per-subgrid winners, the overall winner and the
// forced-subgrid constraint derived from the last move. Mutation goes through
// UpdateCell/UpdateCellInSubgrid/SetSubgrid only; everything else is a query.
//
// A Board is not safe for concurrent use. A single move reads and writes the
// grid, the subgrid winners, the overall winner and the constraint together,
// so concurrent callers must serialize on one lock around the whole value.
type Board struct {
	Cells       [CellCount]Cell    `json:"cells"`
	SubgridWins [SubgridCount]Cell `json:"subgrid_wins"`
	Winner      Cell               `json:"winner"`
	NextSubgrid int                `json:"next_subgrid"`
	Rules       Rules              `json:"rules,omitempty"`
}

// NewBoard creates an empty board with free choice of subgrid and the
// reference rule set.
func NewBoard() *Board {
	return NewBoardWithRules(Rules{})
}

func NewBoardWithRules(rules Rules) *Board {
	return &Board{
		NextSubgrid: FreePlay,
		Rules:       rules,
	}
}

// UpdateCell applies a player's move at a flat index in [0,81).
//
// On success the cell is written, the containing subgrid's winner is
// re-evaluated, the forced-subgrid constraint is recomputed from the move's
// local position, and the overall winner is re-evaluated for the mover. On
// any error the board is left untouched.
func (that *Board) UpdateCell(index int, player Cell) error {
	if index < 0 || index >= CellCount {
		return fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}

	row, col := positionOf(index, GridSize)

	return that.applyMove(row, col, player)
}

// UpdateCellAt is UpdateCell addressed by (row, col).
func (that *Board) UpdateCellAt(row, col int, player Cell) error {
	if !inRange(row, col) {
		return fmt.Errorf("%w: row %d, col %d", ErrOutOfRange, row, col)
	}

	return that.applyMove(row, col, player)
}

// UpdateCellInSubgrid applies a move addressed by subgrid index and the flat
// cell index within that subgrid, both in [0,9). It is equivalent to
// UpdateCell at the corresponding global position.
func (that *Board) UpdateCellInSubgrid(subgrid, cell int, player Cell) error {
	if subgrid < 0 || subgrid >= SubgridCount {
		return fmt.Errorf("%w: subgrid %d", ErrOutOfRange, subgrid)
	}

	if cell < 0 || cell >= GridSize {
		return fmt.Errorf("%w: subgrid cell %d", ErrOutOfRange, cell)
	}

	localRow, localCol := positionOf(cell, SubgridSize)
	rowStart, colStart := subgridOrigin(subgrid)

	return that.applyMove(rowStart+localRow, colStart+localCol, player)
}

// applyMove validates every precondition before the first write, so a failed
// move leaves no partial state behind.
func (that *Board) applyMove(row, col int, player Cell) error {
	if !player.IsPlayer() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}

	if !that.IsValidMove(row, col) {
		return fmt.Errorf("%w: row %d, col %d", ErrCellUnavailable, row, col)
	}

	that.Cells[row*GridSize+col] = player

	that.recordSubgridWinner(SubgridIndexOf(row, col))
	that.updateNextSubgrid(row, col)
	that.recordOverallWinner(player)

	return nil
}

// IsValidMove reports whether a move at (row, col) is currently legal: the
// position is on the board, the cell is empty, and the move lands in the
// forced subgrid when one is set. With StrictGating it additionally rejects
// subgrids that already have a winner.
func (that *Board) IsValidMove(row, col int) bool {
	if !inRange(row, col) {
		return false
	}

	subgrid := SubgridIndexOf(row, col)

	if that.NextSubgrid != FreePlay && subgrid != that.NextSubgrid {
		return false
	}

	if that.Rules.StrictGating && that.SubgridWins[subgrid] != Empty {
		return false
	}

	return that.Cells[row*GridSize+col] == Empty
}

// SetSubgrid replaces a whole 3x3 subgrid with the given cells, 9 values in
// row-major order. The subgrid's winner is re-evaluated afterwards; an already
// recorded winner is never overwritten. The constraint and overall winner are
// left alone; this is a bulk load for setting up positions, not a move.
func (that *Board) SetSubgrid(index int, cells []Cell) error {
	if index < 0 || index >= SubgridCount {
		return fmt.Errorf("%w: subgrid %d", ErrOutOfRange, index)
	}

	if len(cells) != GridSize {
		return fmt.Errorf("%w: got %d cells", ErrInvalidSubgrid, len(cells))
	}

	for _, cell := range cells {
		if cell != Empty && !cell.IsPlayer() {
			return fmt.Errorf("%w: %d", ErrInvalidPlayer, cell)
		}
	}

	rowStart, colStart := subgridOrigin(index)
	for i, cell := range cells {
		localRow, localCol := positionOf(i, SubgridSize)
		that.Cells[(rowStart+localRow)*GridSize+colStart+localCol] = cell
	}

	that.recordSubgridWinner(index)

	return nil
}

// CellAt returns the cell value at (row, col), Empty for out-of-range
// positions.
func (that *Board) CellAt(row, col int) Cell {
	if !inRange(row, col) {
		return Empty
	}

	return that.Cells[row*GridSize+col]
}

// CellAtIndex returns the cell value at a flat index in [0,81).
func (that *Board) CellAtIndex(index int) Cell {
	if index < 0 || index >= CellCount {
		return Empty
	}

	return that.Cells[index]
}

// Subgrid returns the 9 cells of a subgrid in row-major order.
func (that *Board) Subgrid(index int) [GridSize]Cell {
	var cells [GridSize]Cell

	if index < 0 || index >= SubgridCount {
		return cells
	}

	rowStart, colStart := subgridOrigin(index)
	for i := range cells {
		localRow, localCol := positionOf(i, SubgridSize)
		cells[i] = that.Cells[(rowStart+localRow)*GridSize+colStart+localCol]
	}

	return cells
}

// SubgridWinner returns the recorded winner of a subgrid, Empty while
// undecided.
func (that *Board) SubgridWinner(index int) Cell {
	if index < 0 || index >= SubgridCount {
		return Empty
	}

	return that.SubgridWins[index]
}

// OverallWinner returns the recorded overall winner, Empty while undecided.
func (that *Board) OverallWinner() Cell {
	return that.Winner
}

// IsFreePlay reports whether the next mover may choose any subgrid.
func (that *Board) IsFreePlay() bool {
	return that.NextSubgrid == FreePlay
}

// IsSubgridFull reports whether a subgrid has no empty cells left.
func (that *Board) IsSubgridFull(index int) bool {
	if index < 0 || index >= SubgridCount {
		return false
	}

	for _, cell := range that.Subgrid(index) {
		if cell == Empty {
			return false
		}
	}

	return true
}

// IsFull reports whether the whole board has no empty cells left.
func (that *Board) IsFull() bool {
	for _, cell := range that.Cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

// LegalMoves enumerates the flat indices a move is currently allowed at,
// combining the forced-subgrid constraint with cell emptiness.
func (that *Board) LegalMoves() []int {
	moves := make([]int, 0, CellCount)

	for index := range that.Cells {
		row, col := positionOf(index, GridSize)
		if that.IsValidMove(row, col) {
			moves = append(moves, index)
		}
	}

	return moves
}

// recordSubgridWinner re-evaluates one subgrid and records the first
// qualifying player. A recorded winner is final.
func (that *Board) recordSubgridWinner(index int) {
	if that.SubgridWins[index] != Empty {
		return
	}

	cells := that.Subgrid(index)

	for _, player := range [2]Cell{PlayerOne, PlayerTwo} {
		for _, combo := range WinCombos {
			if cells[combo[0]] == player && cells[combo[1]] == player && cells[combo[2]] == player {
				that.SubgridWins[index] = player
				return
			}
		}
	}
}

// updateNextSubgrid derives the forced subgrid for the next move from the
// local position of the move just played. A full or already decided target
// opens the board to free play.
func (that *Board) updateNextSubgrid(row, col int) {
	next := (row%SubgridSize)*SubgridSize + col%SubgridSize

	if that.IsSubgridFull(next) || that.SubgridWins[next] != Empty {
		that.NextSubgrid = FreePlay
		return
	}

	that.NextSubgrid = next
}

// recordOverallWinner re-evaluates the overall winner for the mover under the
// configured win rule. A recorded winner is final.
func (that *Board) recordOverallWinner(player Cell) {
	if that.Winner != Empty {
		return
	}

	won := false
	switch that.Rules.WinRule {
	case WinRuleSubgridLines:
		won = hasSubgridLine(that.SubgridWins, player)
	default:
		won = that.hasCellLine(player)
	}

	if won {
		that.Winner = player
	}
}

// hasCellLine checks the 20 full-length lines of the 9x9 grid (9 rows, 9
// columns, both diagonals) against raw cell values.
func (that *Board) hasCellLine(player Cell) bool {
	for i := 0; i < GridSize; i++ {
		row, column := true, true
		for j := 0; j < GridSize; j++ {
			if that.Cells[i*GridSize+j] != player {
				row = false
			}
			if that.Cells[j*GridSize+i] != player {
				column = false
			}
		}

		if row || column {
			return true
		}
	}

	diagonal, antiDiagonal := true, true
	for i := 0; i < GridSize; i++ {
		if that.Cells[i*GridSize+i] != player {
			diagonal = false
		}
		if that.Cells[i*GridSize+(GridSize-1-i)] != player {
			antiDiagonal = false
		}
	}

	return diagonal || antiDiagonal
}

func hasSubgridLine(wins [SubgridCount]Cell, player Cell) bool {
	for _, combo := range WinCombos {
		if wins[combo[0]] == player && wins[combo[1]] == player && wins[combo[2]] == player {
			return true
		}
	}

	return false
}

// SubgridIndexOf maps a global (row, col) to the index of its subgrid.
func SubgridIndexOf(row, col int) int {
	return (row/SubgridSize)*SubgridSize + col/SubgridSize
}

func subgridOrigin(index int) (rowStart, colStart int) {
	return (index / SubgridSize) * SubgridSize, (index % SubgridSize) * SubgridSize
}

func positionOf(index, size int) (row, col int) {
	return index / size, index % size
}

func inRange(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}
