package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/repository"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetWaitingPublicGame(ctx context.Context) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type archiveRepo interface {
	Save(ctx context.Context, game *entity.Game) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
}

// GameManager drives game sessions: players, matchmaking, turns, the bot
// reply for bot games, and archiving of finished games.
type GameManager struct {
	logger *slog.Logger

	playerRepo  playerRepo
	gameRepo    gameRepo
	archiveRepo archiveRepo
	bot         botService

	rules ultimate.Rules
}

func NewGameManager(logger *slog.Logger, players playerRepo, games gameRepo, archive archiveRepo, bot botService, rules ultimate.Rules) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo:  players,
		gameRepo:    games,
		archiveRepo: archive,
		bot:         bot,

		rules: rules,
	}
}

// GetOrCreatePlayer returns the stored player, creating one with a fresh
// uuid when the id is empty or unknown.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id != "" {
		player, err := that.playerRepo.GetByID(ctx, id)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	player := &entity.Player{ID: uuid.NewString()}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// GetOrCreateGame returns the player's current game or creates a new one of
// the given type. Bot games start immediately with a bot opponent.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		game, err := that.gameRepo.GetByID(ctx, player.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to get game by id: %w", err)
		}

		return game, nil
	}

	return that.createGame(ctx, player, gameType)
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), gameType, that.rules)

	playerMark, opponentMark := game.GetRandomMarks()
	player.Mark = playerMark
	player.GameID = game.ID
	game.Players = []*entity.Player{player}

	if game.IsWithBot() {
		botPlayer := &entity.Player{
			ID:     entity.BotIDPrefix + uuid.NewString(),
			Mark:   opponentMark,
			GameID: game.ID,
		}
		game.Players = append(game.Players, botPlayer)
		game.Status = entity.StatusOngoing
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	// the bot opens when it drew the first move
	if game.IsWithBot() && botHasMark(game, game.Turn) {
		if err := that.applyBotTurn(ctx, game); err != nil {
			return nil, err
		}
	}

	return game, nil
}

// CreateOrJoinToPublicGame puts the player into a waiting public game, or
// opens a fresh one when nobody is waiting.
func (that *GameManager) CreateOrJoinToPublicGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		game, err := that.gameRepo.GetByID(ctx, player.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to get game by id: %w", err)
		}

		return game, nil
	}

	game, err := that.gameRepo.GetWaitingPublicGame(ctx)
	if errors.Is(err, repository.ErrNoWaitingPublicGame) {
		return that.createGame(ctx, player, entity.PublicType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find waiting public game: %w", err)
	}

	return that.ConnectToGame(ctx, game.ID, player.ID)
}

// ConnectToGame joins a second player to an existing game and starts it.
func (that *GameManager) ConnectToGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, gameID)
	}

	player.GameID = game.ID
	player.Mark = game.Players[0].Mark.Opponent()
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// MakeTurn applies a player's move, lets the bot answer in bot games, and
// archives the game once it finishes.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if game.IsWaiting() {
		return game, apperror.ErrGameIsNotStarted
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsOngoing() && game.IsWithBot() && botHasMark(game, game.Turn) {
		if err = that.applyBotTurn(ctx, game); err != nil {
			return nil, err
		}
	}

	if game.IsFinished() {
		that.finishGame(ctx, game)

		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// GetGameByID returns a live game by its own ID.
func (that *GameManager) GetGameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// GetGameByPlayerID returns the player's current game.
func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *GameManager) applyBotTurn(ctx context.Context, game *entity.Game) error {
	if err := that.bot.MakeTurn(game); err != nil {
		return fmt.Errorf("failed to make bot turn: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// finishGame archives the result and evicts the live game. Both steps are
// best effort: a failed archive must not hide the finished game from the
// players.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("component", "game-manager", "gameID", game.ID)

	if err := that.archiveRepo.Save(ctx, game); err != nil {
		log.Error("could not archive finished game", "error", err)
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("could not delete finished game", "error", err)
	}

	for _, player := range game.Players {
		player.GameID = ""
		if player.IsBot() {
			continue
		}
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("could not detach player from game", "playerID", player.ID, "error", err)
		}
	}
}

func botHasMark(game *entity.Game, mark ultimate.Cell) bool {
	for _, player := range game.Players {
		if player.IsBot() && player.Mark == mark {
			return true
		}
	}

	return false
}
