// Package history records the beam evaluations of logged-in users and serves
// them back.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"Timber/internal/auth"
	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
	"Timber/internal/repo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Recorder stores timber results through an evaluation repository.
type Recorder struct {
	Repo repo.EvaluationRepository
}

func (rec *Recorder) Record(ctx context.Context, userID int, res timber.Result) error {
	in, err := json.Marshal(res.Input)
	if err != nil {
		return err
	}
	out, err := json.Marshal(res)
	if err != nil {
		return err
	}
	e := repo.Evaluation{
		UserID:   userID,
		Grade:    res.Input.Grade,
		WidthMM:  res.Input.WidthMM,
		HeightMM: res.Input.HeightMM,
		SpanM:    res.Input.SpanM,
		Passed:   res.AllPassed,
		Summary:  res.Summary,
		Input:    in,
		Result:   out,
	}
	if res.Fire != nil {
		e.FireMin = res.Fire.Params.DurationMin
	}
	_, err = rec.Repo.SaveEvaluation(ctx, e)
	return err
}

type Handler struct {
	Repo repo.EvaluationRepository
}

// List returns the newest evaluations of the current user; ?limit= caps them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, MaxLimit)
	}

	list, err := h.Repo.ListEvaluations(r.Context(), userID, limit)
	if err != nil {
		slog.Error("list evaluations failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []repo.Evaluation{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	e, err := h.Repo.GetEvaluation(r.Context(), userID, id)
	if errors.Is(err, calcerr.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get evaluation failed", "user_id", userID, "id", id, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}
