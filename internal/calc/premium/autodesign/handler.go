package autodesign

import (
	"encoding/json"
	"net/http"

	"Timber/internal/calc/material"
	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
)

type Handler struct {
	Catalog *material.Catalog
}

func (h *Handler) Fire(w http.ResponseWriter, r *http.Request) {
	var input timber.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := FireSection(h.Catalog, input)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
