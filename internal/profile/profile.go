// Package profile serves the account page of a logged-in user.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Timber/internal/auth"
	"Timber/internal/calcerr"
	"Timber/internal/repo"
)

type Users interface {
	GetProfileByID(ctx context.Context, id int) (repo.Profile, error)
}

type Stats interface {
	EvaluationStats(ctx context.Context, userID int) (repo.Stats, error)
}

type ProfileHandler struct {
	Users Users
	Stats Stats
}

type Response struct {
	repo.Profile
	Evaluations repo.Stats `json:"evaluations"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prof, err := h.Users.GetProfileByID(r.Context(), userID)
	if errors.Is(err, calcerr.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get profile failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	stats, err := h.Stats.EvaluationStats(r.Context(), userID)
	if err != nil {
		slog.Error("evaluation stats failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Profile: prof, Evaluations: stats})
}
