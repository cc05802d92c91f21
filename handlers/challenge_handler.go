package handlers

import (
	"context"
	"net/http"

	"artSparkAPI/internal/attempt"
	"artSparkAPI/services"

	"github.com/gorilla/mux"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	attemptService   *services.AttemptService
}

func NewChallengeHandler(challengeService *services.ChallengeService, attemptService *services.AttemptService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		attemptService:   attemptService,
	}
}

func (h *ChallengeHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	challenges, err := h.challengeService.ListRecentChallenges(ctx, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	h.getChallenge(w, r, "")
}

func (h *ChallengeHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	h.getChallenge(w, r, mux.Vars(r)["date"])
}

func (h *ChallengeHandler) getChallenge(w http.ResponseWriter, r *http.Request, date string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.challengeService.GetChallenge(ctx, date)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *ChallengeHandler) CreateToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	ch, err := h.challengeService.CreateChallengeForToday(ctx, uid)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ch)
}

func (h *ChallengeHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	rec, err := h.attemptService.RecordAttempt(ctx, uid, mux.Vars(r)["challengeId"])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, attempt.RecordResponse{OK: true, Record: rec})
}

func (h *ChallengeHandler) GetAttemptStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	status, err := h.attemptService.GetAttemptStatus(ctx, uid, mux.Vars(r)["challengeId"])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}
