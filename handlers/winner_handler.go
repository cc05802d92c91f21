package handlers

import (
	"context"
	"net/http"

	"artSparkAPI/services"

	"github.com/gorilla/mux"
)

type WinnerHandler struct {
	winnerService *services.WinnerService
}

func NewWinnerHandler(winnerService *services.WinnerService) *WinnerHandler {
	return &WinnerHandler{winnerService: winnerService}
}

func (h *WinnerHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	winners, err := h.winnerService.ListRecentWinners(ctx, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, winners)
}

func (h *WinnerHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	winner, err := h.winnerService.GetWinner(ctx, mux.Vars(r)["date"])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, winner)
}
