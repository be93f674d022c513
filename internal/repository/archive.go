package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

var ErrArchivedGameNotFound = errors.New("archived game not found")

// ArchivedGame is the persisted record of a finished game.
type ArchivedGame struct {
	ID         string
	Winner     ultimate.Cell
	Tie        bool
	Board      *ultimate.Board
	FinishedAt time.Time
}

// ArchiveRepository keeps finished games in SQLite after they are evicted
// from the live Redis store.
type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*ArchivedGame, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game) error {
	boardJSON, err := json.Marshal(game.Board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	query := `INSERT OR REPLACE INTO archived_games (id, winner, tie, board, finished_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query, game.ID, game.Winner.String(), game.Tie, string(boardJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*ArchivedGame, error) {
	query := `SELECT id, winner, tie, board, finished_at FROM archived_games WHERE id = ?`

	var (
		archived   ArchivedGame
		winnerMark string
		boardJSON  string
	)

	row := that.conn.QueryRowContext(ctx, query, id)
	err := row.Scan(&archived.ID, &winnerMark, &archived.Tie, &boardJSON, &archived.FinishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArchivedGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get archived game by ID: %w", err)
	}

	if err = json.Unmarshal([]byte(`"`+winnerMark+`"`), &archived.Winner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winner: %w", err)
	}

	archived.Board = &ultimate.Board{}
	if err = json.Unmarshal([]byte(boardJSON), archived.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return &archived, nil
}
