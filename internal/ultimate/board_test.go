package ultimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(row, col int) int { return row*GridSize + col }

// play applies alternating moves starting with PlayerOne and fails the test
// on the first rejected move.
func play(t *testing.T, board *Board, moves [][2]int) {
	t.Helper()

	player := PlayerOne
	for i, move := range moves {
		require.NoErrorf(t, board.UpdateCellAt(move[0], move[1], player), "move %d at (%d,%d)", i+1, move[0], move[1])
		player = player.Opponent()
	}
}

func TestNewBoard(t *testing.T) {
	// Given: a freshly created board
	board := NewBoard()

	// Then: every cell is empty, nothing is decided, any subgrid is playable
	for index := range board.Cells {
		require.Equal(t, Empty, board.CellAtIndex(index))
	}
	for subgrid := 0; subgrid < SubgridCount; subgrid++ {
		require.Equal(t, Empty, board.SubgridWinner(subgrid))
	}
	require.Equal(t, Empty, board.OverallWinner())
	require.True(t, board.IsFreePlay())
	require.Len(t, board.LegalMoves(), CellCount)
}

func TestBoard_UpdateCell(t *testing.T) {
	t.Run("First move forces the mirrored subgrid", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: player one plays the top-left corner (flat index 0)
		err := board.UpdateCell(0, PlayerOne)

		// Then: the cell is marked and the next move is forced into subgrid 0
		require.NoError(t, err)
		assert.Equal(t, PlayerOne, board.CellAt(0, 0))
		assert.False(t, board.IsFreePlay())
		assert.Equal(t, 0, board.NextSubgrid)
	})

	t.Run("Local position drives the constraint", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: player one plays (4,7), local (1,1) of subgrid 5
		err := board.UpdateCellAt(4, 7, PlayerOne)

		// Then: the next move is forced into subgrid 4
		require.NoError(t, err)
		assert.Equal(t, 4, board.NextSubgrid)
	})

	t.Run("Error on index out of range", func(t *testing.T) {
		board := NewBoard()

		// When: the flat index is past the board
		err := board.UpdateCell(85, PlayerOne)

		// Then: an ErrOutOfRange must be returned and nothing changed
		require.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, *NewBoard(), *board)

		// Then: negative indices fail the same way
		require.ErrorIs(t, board.UpdateCell(-1, PlayerOne), ErrOutOfRange)
	})

	t.Run("Error on empty mark", func(t *testing.T) {
		board := NewBoard()

		// When: the move carries Empty instead of a player mark
		err := board.UpdateCell(0, Empty)

		// Then: an ErrInvalidPlayer must be returned and nothing changed
		require.ErrorIs(t, err, ErrInvalidPlayer)
		assert.Equal(t, *NewBoard(), *board)
	})

	t.Run("Error on unknown mark", func(t *testing.T) {
		board := NewBoard()

		require.ErrorIs(t, board.UpdateCell(0, Cell(7)), ErrInvalidPlayer)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: player one already holds index 0
		board := NewBoard()
		require.NoError(t, board.UpdateCell(0, PlayerOne))

		// When: player two plays the same cell
		err := board.UpdateCell(0, PlayerTwo)

		// Then: an ErrCellUnavailable must be returned and the mark stays
		require.ErrorIs(t, err, ErrCellUnavailable)
		assert.Equal(t, PlayerOne, board.CellAtIndex(0))
	})

	t.Run("Error on move outside the forced subgrid", func(t *testing.T) {
		// Given: a move at (0,0) forcing subgrid 0
		board := NewBoard()
		require.NoError(t, board.UpdateCellAt(0, 0, PlayerOne))
		require.Equal(t, 0, board.NextSubgrid)

		// When: player two plays into subgrid 4 instead
		err := board.UpdateCellAt(4, 4, PlayerTwo)

		// Then: an ErrCellUnavailable must be returned and the cell stays empty
		require.ErrorIs(t, err, ErrCellUnavailable)
		assert.Equal(t, Empty, board.CellAt(4, 4))

		// When: player two plays inside subgrid 0
		// Then: the move is accepted
		require.NoError(t, board.UpdateCellAt(1, 1, PlayerTwo))
	})

	t.Run("Failed move leaves constraint untouched", func(t *testing.T) {
		// Given: a board forcing subgrid 0
		board := NewBoard()
		require.NoError(t, board.UpdateCell(0, PlayerOne))

		// When: an illegal move is rejected
		require.Error(t, board.UpdateCellAt(8, 8, PlayerTwo))

		// Then: the constraint still points at subgrid 0
		assert.Equal(t, 0, board.NextSubgrid)
	})
}

func TestBoard_UpdateCellInSubgrid(t *testing.T) {
	t.Run("Maps subgrid and local index to the global cell", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: player one plays cell 4 of subgrid 8 (the board center of rows 6-8, cols 6-8)
		err := board.UpdateCellInSubgrid(8, 4, PlayerOne)

		// Then: the global cell (7,7) is marked and subgrid 4 is forced
		require.NoError(t, err)
		assert.Equal(t, PlayerOne, board.CellAt(7, 7))
		assert.Equal(t, 4, board.NextSubgrid)
	})

	t.Run("Equivalent to the flat-index entry point", func(t *testing.T) {
		// Given: the same move through both entry points
		bySubgrid := NewBoard()
		byIndex := NewBoard()

		require.NoError(t, bySubgrid.UpdateCellInSubgrid(5, 7, PlayerTwo))
		require.NoError(t, byIndex.UpdateCellAt(5, 7, PlayerTwo))

		// Then: both boards end up identical
		assert.Equal(t, *byIndex, *bySubgrid)
	})

	t.Run("Error on out-of-range subgrid or cell", func(t *testing.T) {
		board := NewBoard()

		require.ErrorIs(t, board.UpdateCellInSubgrid(9, 0, PlayerOne), ErrOutOfRange)
		require.ErrorIs(t, board.UpdateCellInSubgrid(-1, 0, PlayerOne), ErrOutOfRange)
		require.ErrorIs(t, board.UpdateCellInSubgrid(0, 9, PlayerOne), ErrOutOfRange)
	})
}

func TestBoard_SubgridWin(t *testing.T) {
	t.Run("Completing a local row wins the subgrid", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: player one collects (0,0),(0,1),(0,2) through legal
		// alternating play, player two answering in between each time
		play(t, board, [][2]int{
			{0, 0}, // P1, forces subgrid 0
			{1, 1}, // P2, forces subgrid 4
			{4, 4}, // P1, forces subgrid 4
			{3, 3}, // P2, corner of subgrid 4, forces subgrid 0
			{0, 1}, // P1, forces subgrid 1
			{0, 3}, // P2, corner of subgrid 1, forces subgrid 0
		})
		require.Equal(t, Empty, board.SubgridWinner(0))

		// When: player one sets the third mark of the local top row
		require.NoError(t, board.UpdateCellAt(0, 2, PlayerOne))

		// Then: subgrid 0 is recorded for player one right away
		require.Equal(t, PlayerOne, board.SubgridWinner(0))

		// When: play continues through subgrid 0 afterwards
		require.NoError(t, board.UpdateCellAt(0, 6, PlayerTwo)) // corner of subgrid 2, won target opens free play
		require.NoError(t, board.UpdateCellAt(2, 2, PlayerOne))

		// Then: the cells are still playable and the winner never changes
		assert.Equal(t, PlayerOne, board.CellAt(2, 2))
		assert.Equal(t, PlayerOne, board.SubgridWinner(0))
	})

	t.Run("First winner of a subgrid is final", func(t *testing.T) {
		// Given: subgrid 0 already recorded for player one, with player two
		// one mark short of a line in the same subgrid
		board := NewBoard()
		board.Cells[at(0, 0)] = PlayerOne
		board.Cells[at(0, 1)] = PlayerOne
		board.Cells[at(0, 2)] = PlayerOne
		board.SubgridWins[0] = PlayerOne
		board.Cells[at(2, 0)] = PlayerTwo
		board.Cells[at(2, 1)] = PlayerTwo

		// When: player two completes their own line in subgrid 0
		err := board.UpdateCellAt(2, 2, PlayerTwo)

		// Then: the move is cell-legal but the recorded winner never changes
		require.NoError(t, err)
		assert.Equal(t, PlayerOne, board.SubgridWinner(0))
	})

	t.Run("Won subgrid still accepts moves by default", func(t *testing.T) {
		// Given: subgrid 4 won by player one, free play
		board := NewBoard()
		board.SubgridWins[4] = PlayerOne

		// When: player two plays an empty cell of subgrid 4
		err := board.UpdateCellAt(3, 3, PlayerTwo)

		// Then: the move is accepted under the default gating
		require.NoError(t, err)
		assert.Equal(t, PlayerTwo, board.CellAt(3, 3))
	})

	t.Run("Strict gating rejects moves into a decided subgrid", func(t *testing.T) {
		// Given: the same position with strict gating enabled
		board := NewBoardWithRules(Rules{StrictGating: true})
		board.SubgridWins[4] = PlayerOne

		// When: player two plays an empty cell of subgrid 4
		err := board.UpdateCellAt(3, 3, PlayerTwo)

		// Then: an ErrCellUnavailable must be returned
		require.ErrorIs(t, err, ErrCellUnavailable)
		assert.Equal(t, Empty, board.CellAt(3, 3))
	})

	t.Run("Player one is scanned before player two", func(t *testing.T) {
		// Given: both players hold a complete line in subgrid 0 (unreachable
		// through alternating play, but the checker must not assume that)
		board := NewBoard()
		board.Cells[at(0, 0)] = PlayerOne
		board.Cells[at(0, 1)] = PlayerOne
		board.Cells[at(0, 2)] = PlayerOne
		board.Cells[at(1, 0)] = PlayerTwo
		board.Cells[at(1, 1)] = PlayerTwo
		board.Cells[at(1, 2)] = PlayerTwo

		// When: the subgrid is re-evaluated
		board.recordSubgridWinner(0)

		// Then: player one is recorded
		assert.Equal(t, PlayerOne, board.SubgridWinner(0))
	})
}

func TestBoard_NextSubgrid(t *testing.T) {
	t.Run("Forced subgrid mirrors the local position", func(t *testing.T) {
		board := NewBoard()

		for _, tc := range []struct {
			row, col, next int
		}{
			{0, 0, 0}, {0, 4, 1}, {0, 8, 2},
			{4, 0, 3}, {4, 4, 4}, {4, 8, 5},
			{8, 0, 6}, {8, 4, 7}, {8, 8, 8},
		} {
			assert.Equal(t, tc.next, (tc.row%3)*3+tc.col%3)
			board.updateNextSubgrid(tc.row, tc.col)
			assert.Equal(t, tc.next, board.NextSubgrid)
		}
	})

	t.Run("Won target subgrid opens free play", func(t *testing.T) {
		// Given: subgrid 4 already decided
		board := NewBoard()
		board.SubgridWins[4] = PlayerTwo

		// When: player one plays a cell whose local position points at subgrid 4
		require.NoError(t, board.UpdateCellAt(1, 1, PlayerOne))

		// Then: the next mover has free choice
		assert.True(t, board.IsFreePlay())
	})

	t.Run("Full target subgrid opens free play", func(t *testing.T) {
		// Given: subgrid 4 completely filled without a line
		board := NewBoard()
		require.NoError(t, board.SetSubgrid(4, []Cell{
			PlayerOne, PlayerTwo, PlayerOne,
			PlayerOne, PlayerTwo, PlayerTwo,
			PlayerTwo, PlayerOne, PlayerOne,
		}))
		require.Equal(t, Empty, board.SubgridWinner(4))
		require.True(t, board.IsSubgridFull(4))

		// When: player one plays a cell whose local position points at subgrid 4
		require.NoError(t, board.UpdateCellAt(1, 1, PlayerOne))

		// Then: the next mover has free choice
		assert.True(t, board.IsFreePlay())
	})
}

func TestBoard_SetSubgrid(t *testing.T) {
	t.Run("Writes the cells and re-evaluates the winner", func(t *testing.T) {
		// Given: a fresh board
		board := NewBoard()

		// When: subgrid 7 is bulk-loaded with a player two column
		require.NoError(t, board.SetSubgrid(7, []Cell{
			PlayerTwo, Empty, PlayerOne,
			PlayerTwo, Empty, Empty,
			PlayerTwo, PlayerOne, Empty,
		}))

		// Then: the cells land at rows 6-8, cols 3-5 and the win is recorded
		assert.Equal(t, PlayerTwo, board.CellAt(6, 3))
		assert.Equal(t, PlayerOne, board.CellAt(6, 5))
		assert.Equal(t, PlayerTwo, board.SubgridWinner(7))
	})

	t.Run("Error on wrong shape", func(t *testing.T) {
		board := NewBoard()

		// When: the payload is not exactly 9 cells
		err := board.SetSubgrid(0, []Cell{PlayerOne, PlayerTwo})

		// Then: an ErrInvalidSubgrid must be returned and the board stays empty
		require.ErrorIs(t, err, ErrInvalidSubgrid)
		assert.Equal(t, *NewBoard(), *board)
	})

	t.Run("Error on invalid cell value", func(t *testing.T) {
		board := NewBoard()

		err := board.SetSubgrid(0, []Cell{
			PlayerOne, PlayerTwo, Cell(9),
			Empty, Empty, Empty,
			Empty, Empty, Empty,
		})

		require.ErrorIs(t, err, ErrInvalidPlayer)
	})

	t.Run("Does not overwrite a recorded winner", func(t *testing.T) {
		// Given: subgrid 0 recorded for player one
		board := NewBoard()
		board.SubgridWins[0] = PlayerOne

		// When: the subgrid is replaced with a player two line
		require.NoError(t, board.SetSubgrid(0, []Cell{
			PlayerTwo, PlayerTwo, PlayerTwo,
			Empty, Empty, Empty,
			Empty, Empty, Empty,
		}))

		// Then: the recorded winner stays
		assert.Equal(t, PlayerOne, board.SubgridWinner(0))
	})
}

func TestBoard_OverallWinner(t *testing.T) {
	t.Run("Nine cells across row 4 win the board", func(t *testing.T) {
		// Given: a fresh board; player one aims at the full row 4 while
		// player two answers legally. Player two first gives away subgrids
		// 3, 4 and 5 via row 3, so every later constraint pointing at the
		// middle band dissolves into free play.
		board := NewBoard()

		play(t, board, [][2]int{
			{1, 0}, {3, 0}, // middle band: P2 builds row 3
			{1, 1}, {3, 3},
			{1, 2}, {3, 6}, // P1 wins subgrid 0 here
			{7, 0}, {3, 1},
			{1, 3}, {3, 2}, // P2 wins subgrid 3
			{1, 6}, {3, 4},
			{1, 4}, {3, 5}, // P2 wins subgrid 4
			{1, 7}, {3, 7},
			{1, 5}, {3, 8}, // P1 wins subgrid 1, P2 wins subgrid 5
			{0, 6}, {1, 8},
			{4, 0}, {7, 1}, // row 4 begins
			{4, 1}, {7, 2},
			{4, 2}, {7, 3},
			{4, 3}, {7, 4},
			{4, 4}, {7, 5},
			{4, 5}, {7, 6},
			{4, 6}, {7, 7},
			{4, 7}, {7, 8},
		})

		// Then: the middle band belongs to player two on the subgrid level
		require.Equal(t, PlayerTwo, board.SubgridWinner(3))
		require.Equal(t, PlayerTwo, board.SubgridWinner(4))
		require.Equal(t, PlayerTwo, board.SubgridWinner(5))
		require.Equal(t, Empty, board.OverallWinner())

		// When: player one sets the ninth cell of row 4
		require.NoError(t, board.UpdateCellAt(4, 8, PlayerOne))

		// Then: the overall winner is recorded immediately, regardless of
		// the subgrid outcomes
		assert.Equal(t, PlayerOne, board.OverallWinner())
	})

	t.Run("Full column wins the board", func(t *testing.T) {
		// Given: column 2 held by player two except one cell, free play
		board := NewBoard()
		for row := 0; row < GridSize-1; row++ {
			board.Cells[at(row, 2)] = PlayerTwo
		}

		// When: player two completes the column
		require.NoError(t, board.UpdateCellAt(8, 2, PlayerTwo))

		// Then: player two is the overall winner
		assert.Equal(t, PlayerTwo, board.OverallWinner())
	})

	t.Run("Full diagonals win the board", func(t *testing.T) {
		main := NewBoard()
		anti := NewBoard()
		for i := 0; i < GridSize-1; i++ {
			main.Cells[at(i, i)] = PlayerOne
			anti.Cells[at(i, GridSize-1-i)] = PlayerOne
		}

		require.NoError(t, main.UpdateCellAt(8, 8, PlayerOne))
		require.NoError(t, anti.UpdateCellAt(8, 0, PlayerOne))

		assert.Equal(t, PlayerOne, main.OverallWinner())
		assert.Equal(t, PlayerOne, anti.OverallWinner())
	})

	t.Run("First overall winner is final", func(t *testing.T) {
		// Given: the overall winner already recorded for player one
		board := NewBoard()
		board.Winner = PlayerOne
		for row := 0; row < GridSize-1; row++ {
			board.Cells[at(row, 0)] = PlayerTwo
		}

		// When: player two completes a full column afterwards
		require.NoError(t, board.UpdateCellAt(8, 0, PlayerTwo))

		// Then: the recorded winner stays player one
		assert.Equal(t, PlayerOne, board.OverallWinner())
	})

	t.Run("No lockout after the overall win", func(t *testing.T) {
		// Given: an overall winner on the board
		board := NewBoard()
		for col := 0; col < GridSize-1; col++ {
			board.Cells[at(0, col)] = PlayerOne
		}
		require.NoError(t, board.UpdateCellAt(0, 8, PlayerOne))
		require.Equal(t, PlayerOne, board.OverallWinner())

		// When: another move arrives; (0,8) points at subgrid 2, which the
		// winning move just decided, so play is free
		require.True(t, board.IsFreePlay())
		err := board.UpdateCellAt(1, 6, PlayerTwo)

		// Then: the engine still validates and applies it; stopping is the
		// caller's policy
		require.NoError(t, err)
		assert.Equal(t, PlayerTwo, board.CellAt(1, 6))
	})

	t.Run("Subgrid-lines rule ignores raw cell lines", func(t *testing.T) {
		// Given: the natural-rules board, top row of subgrids for player one
		board := NewBoardWithRules(Rules{WinRule: WinRuleSubgridLines})
		board.SubgridWins[0] = PlayerOne
		board.SubgridWins[1] = PlayerOne

		// When: player one wins subgrid 2 with a local column
		board.Cells[at(0, 6)] = PlayerOne
		board.Cells[at(1, 6)] = PlayerOne
		require.NoError(t, board.UpdateCellAt(2, 6, PlayerOne))

		// Then: three subgrids in a row decide the game
		assert.Equal(t, PlayerOne, board.SubgridWinner(2))
		assert.Equal(t, PlayerOne, board.OverallWinner())
	})

	t.Run("Subgrid-lines rule does not fire on cell rows", func(t *testing.T) {
		// Given: a full cell row but no subgrid line, natural rules
		board := NewBoardWithRules(Rules{WinRule: WinRuleSubgridLines})
		for col := 0; col < GridSize-1; col++ {
			board.Cells[at(4, col)] = PlayerOne
		}

		// When: player one completes row 4
		require.NoError(t, board.UpdateCellAt(4, 8, PlayerOne))

		// Then: no overall winner without three subgrids in a line
		assert.Equal(t, Empty, board.OverallWinner())
	})
}

func TestBoard_Queries(t *testing.T) {
	t.Run("Queries do not mutate state", func(t *testing.T) {
		// Given: a board mid-game
		board := NewBoard()
		require.NoError(t, board.UpdateCell(40, PlayerOne))
		snapshot := *board

		// When: every query runs repeatedly
		for i := 0; i < 3; i++ {
			_ = board.CellAt(4, 4)
			_ = board.CellAtIndex(40)
			_ = board.Subgrid(4)
			_ = board.SubgridWinner(4)
			_ = board.OverallWinner()
			_ = board.IsFreePlay()
			_ = board.IsSubgridFull(4)
			_ = board.IsFull()
			_ = board.IsValidMove(4, 5)
			_ = board.LegalMoves()
		}

		// Then: the state is bit-identical to the snapshot
		assert.Equal(t, snapshot, *board)
	})

	t.Run("LegalMoves respects the constraint", func(t *testing.T) {
		// Given: a move forcing subgrid 0
		board := NewBoard()
		require.NoError(t, board.UpdateCellAt(0, 0, PlayerOne))

		// When: legal moves are enumerated
		moves := board.LegalMoves()

		// Then: only the 8 remaining cells of subgrid 0 qualify
		require.Len(t, moves, 8)
		for _, index := range moves {
			row, col := index/GridSize, index%GridSize
			assert.Equal(t, 0, SubgridIndexOf(row, col))
			assert.Equal(t, Empty, board.CellAtIndex(index))
		}
	})

	t.Run("Out-of-range queries return zero values", func(t *testing.T) {
		board := NewBoard()

		assert.Equal(t, Empty, board.CellAt(-1, 0))
		assert.Equal(t, Empty, board.CellAt(0, 9))
		assert.Equal(t, Empty, board.CellAtIndex(81))
		assert.Equal(t, Empty, board.SubgridWinner(9))
		assert.False(t, board.IsSubgridFull(-1))
		assert.False(t, board.IsValidMove(9, 9))
	})

	t.Run("IsSubgridFull", func(t *testing.T) {
		board := NewBoard()
		require.NoError(t, board.SetSubgrid(2, []Cell{
			PlayerOne, PlayerTwo, PlayerOne,
			PlayerTwo, PlayerOne, PlayerTwo,
			PlayerTwo, PlayerOne, PlayerTwo,
		}))

		assert.True(t, board.IsSubgridFull(2))
		assert.False(t, board.IsSubgridFull(0))
		assert.False(t, board.IsFull())
	})
}
