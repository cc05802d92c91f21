package handlers

import (
	"context"
	"net/http"

	"artSparkAPI/internal/submission"
	"artSparkAPI/services"

	"github.com/gorilla/mux"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
	engagementService *services.EngagementService
	storageService    *services.StorageService
}

func NewSubmissionHandler(
	submissionService *services.SubmissionService,
	engagementService *services.EngagementService,
	storageService *services.StorageService,
) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		engagementService: engagementService,
		storageService:    storageService,
	}
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req submission.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.submissionService.CreateSubmission(ctx, uid, mux.Vars(r)["challengeId"], &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) ListForChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	subs, err := h.submissionService.ListChallengeSubmissions(ctx, mux.Vars(r)["challengeId"], limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sub, err := h.submissionService.GetSubmission(ctx, mux.Vars(r)["submissionId"])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	res, err := h.engagementService.ToggleLike(ctx, mux.Vars(r)["submissionId"], uid)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *SubmissionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req submission.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.engagementService.AddComment(ctx, mux.Vars(r)["submissionId"], uid, req.Text)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}

func (h *SubmissionHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req submission.UploadURLRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.storageService.CreateUploadURL(ctx, uid, &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
