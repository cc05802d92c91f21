package handlers

import (
	"context"
	"net/http"
	"time"

	"artSparkAPI/internal/challenge"
	"artSparkAPI/services"

	"github.com/gorilla/mux"
)

// The winner job walks every submission of a day, so it gets more room than
// a regular request.
const jobTimeout = 60 * time.Second

type AdminHandler struct {
	challengeService *services.ChallengeService
	winnerService    *services.WinnerService
}

func NewAdminHandler(challengeService *services.ChallengeService, winnerService *services.WinnerService) *AdminHandler {
	return &AdminHandler{
		challengeService: challengeService,
		winnerService:    winnerService,
	}
}

// POST /admin/jobs/daily-winner?date=YYYY-MM-DD (defaults to yesterday)
func (h *AdminHandler) RunDailyWinner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), jobTimeout)
	defer cancel()

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.winnerService.Yesterday()
	}

	report, err := h.winnerService.DetermineWinner(ctx, date)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// PUT /admin/challenges/{date}
func (h *AdminHandler) PutChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req challenge.CreateManualRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ch, created, err := h.challengeService.CreateManualChallenge(ctx, mux.Vars(r)["date"], &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respondWithJSON(w, code, map[string]interface{}{
		"created":   created,
		"challenge": ch,
	})
}
