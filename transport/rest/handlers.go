package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/render"
	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/repository"
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	game, ok := that.lookupGame(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(struct {
		*entity.Game
		LegalMoves []int `json:"legal_moves"`
	}{Game: game, LegalMoves: game.Board.LegalMoves()}); err != nil {
		that.logger.Error("failed to encode game", "gameID", game.ID, "error", err)
	}
}

func (that *Server) handleGameBoard(w http.ResponseWriter, r *http.Request) {
	game, ok := that.lookupGame(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := render.Text(w, game.Board); err != nil {
		that.logger.Error("failed to render board", "gameID", game.ID, "error", err)
		return
	}

	if err := render.Winners(w, game.Board); err != nil {
		that.logger.Error("failed to render winners", "gameID", game.ID, "error", err)
	}
}

func (that *Server) handleGameBoardSVG(w http.ResponseWriter, r *http.Request) {
	game, ok := that.lookupGame(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.SVG(w, game.Board); err != nil {
		that.logger.Error("failed to render board svg", "gameID", game.ID, "error", err)
	}
}

func (that *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*entity.Game, bool) {
	gameID := r.PathValue("id")

	game, err := that.games.GetGameByID(r.Context(), gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}

	if err != nil {
		that.logger.Error("failed to get game", "gameID", gameID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}

	return game, true
}
