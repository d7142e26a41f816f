package recommend

import (
	"encoding/json"
	"net/http"

	"Timber/internal/calc/material"
	"Timber/internal/calcerr"
)

type Handler struct {
	Catalog *material.Catalog
	Eval    Evaluator
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Grade(h.Catalog, h.Eval, input)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
