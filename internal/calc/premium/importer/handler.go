package importer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"Timber/internal/calc/premium/batch"
	"Timber/internal/calcerr"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Eval batch.Evaluator
}

// Beam evaluates the rows of an uploaded workbook (multipart field "file").
func (h *Handler) Beam(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := Parse(file)
	if err != nil {
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	out := ImportResult{Rows: parsed.Rows, RowErrors: parsed.Errors}
	if len(parsed.Inputs) > 0 {
		res, err := batch.Calculate(r.Context(), h.Eval, batch.Input{Items: parsed.Inputs})
		if err != nil {
			http.Error(w, err.Error(), calcerr.Status(err))
			return
		}
		out.Result = res
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Export evaluates posted inputs and answers with an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var input batch.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := batch.Calculate(r.Context(), h.Eval, input)
	if err != nil {
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}

	var buf bytes.Buffer
	if err := Export(&buf, input.Items, res); err != nil {
		slog.Error("xlsx export failed", "items", len(input.Items), "error", err)
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="timber_checks.xlsx"`)
	w.Write(buf.Bytes())
}
