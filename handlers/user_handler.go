package handlers

import (
	"context"
	"net/http"

	"artSparkAPI/internal/user"
	"artSparkAPI/services"
)

type UserHandler struct {
	userService        *services.UserService
	achievementService *services.AchievementService
}

func NewUserHandler(userService *services.UserService, achievementService *services.AchievementService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		achievementService: achievementService,
	}
}

// GET /api/v1/user - profile plus effective plan, created on first call
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(ctx, uid)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/user - display name and photo
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req user.UpsertIdentityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// The caller can only edit themselves.
	req.UID = uid

	if err := h.userService.UpsertIdentity(ctx, &req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	profile, err := h.userService.GetProfile(ctx, uid)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	achievements, err := h.achievementService.ListAchievements(ctx, uid)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, achievements)
}

// GET /api/v1/leaderboard?sort=likes&page=1 (likes, submissions, comments or achievements)
func (h *UserHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}

	board, err := h.userService.ListLeaderboard(ctx, r.URL.Query().Get("sort"), page)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, board)
}
