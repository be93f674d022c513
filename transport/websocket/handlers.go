package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID := ""
	if payload.Player != nil {
		playerID = payload.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendError(conn, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, conn)

	resp := ResponsePayload{Player: player}

	if player.GameID != "" {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return that.sendError(conn, msg.Action, "failed to get the game")
		}

		resp.Game = game
		resp.LegalMoves = game.Board.LegalMoves()
	}

	log.Info("player connected", "playerID", player.ID)

	return that.sendMessage(conn, msg.Action, resp)
}

func (that *Server) handleNewGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.Player == nil {
		log.Error("player is missing in payload")
		return that.sendError(conn, msg.Action, "player is required")
	}

	gameType := ""
	if payload.Game != nil {
		gameType = payload.Game.Type
	}

	that.registerConnection(payload.Player.ID, conn)

	var game *entity.Game
	if gameType == entity.PublicType {
		game, err = that.gameUseCase.CreateOrJoinToPublicGame(ctx, payload.Player.ID)
	} else {
		game, err = that.gameUseCase.GetOrCreateGame(ctx, payload.Player.ID, gameType)
	}

	if err != nil {
		log.Error("failed to get or create game", "playerID", payload.Player.ID, "error", err)
		return that.sendError(conn, msg.Action, "failed to create game")
	}

	// a joined public game starts immediately; let the waiting side know
	if gameType == entity.PublicType && len(game.Players) == 2 {
		that.notifyPlayers(game, msg.Action)
		return nil
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{
		Game:       game,
		LegalMoves: game.Board.LegalMoves(),
	})
}

func (that *Server) handleJoinGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.Player == nil || payload.Game == nil || payload.Game.ID == "" {
		log.Error("player or game is missing in payload")
		return that.sendError(conn, msg.Action, "player and game are required")
	}

	that.registerConnection(payload.Player.ID, conn)

	game, err := that.gameUseCase.ConnectToGame(ctx, payload.Game.ID, payload.Player.ID)
	if err != nil {
		log.Error("failed to join game", "gameID", payload.Game.ID, "error", err)
		return that.sendError(conn, msg.Action, "failed to join game")
	}

	that.notifyPlayers(game, msg.Action)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.Player == nil || payload.Cell == nil {
		log.Error("player or cell is missing in payload")
		return that.sendError(conn, msg.Action, "player and cell are required")
	}

	game, err := that.gameUseCase.MakeTurn(ctx, payload.Player.ID, *payload.Cell)
	if err != nil {
		log.Error("failed to make turn", "playerID", payload.Player.ID, "cell", *payload.Cell, "error", err)
		return that.sendError(conn, msg.Action, err.Error())
	}

	that.notifyPlayers(game, msg.Action)

	return nil
}

func (that *Server) handleGameState(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleGameState")

	payload, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payload.Player == nil {
		log.Error("player is missing in payload")
		return that.sendError(conn, msg.Action, "player is required")
	}

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, payload.Player.ID)
	if err != nil {
		log.Error("failed to get game", "playerID", payload.Player.ID, "error", err)
		return that.sendError(conn, msg.Action, "failed to get the game")
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{
		Game:       game,
		LegalMoves: game.Board.LegalMoves(),
	})
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}
