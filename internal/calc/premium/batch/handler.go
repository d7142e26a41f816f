package batch

import (
	"encoding/json"
	"net/http"

	"Timber/internal/calcerr"
)

type Handler struct {
	Eval Evaluator
}

func (h *Handler) Beam(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(r.Context(), h.Eval, input)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
