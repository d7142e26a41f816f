package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"Timber/internal/calc/timber"
	"Timber/internal/calcerr"
)

type Input struct {
	Project string       `json:"project"`
	Author  string       `json:"author"`
	Beam    timber.Input `json:"beam"`
}

type Handler struct {
	Timber *timber.Handler
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.Timber.Evaluate("report", input.Beam)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, res, Meta{Project: input.Project, Author: input.Author}); err != nil {
		slog.Error("report generation failed", "grade", input.Beam.Grade, "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName()))
	w.Write(buf.Bytes())
}
