package timber

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"Timber/internal/auth"
	"Timber/internal/calc/material"
	"Timber/internal/calcerr"
	"Timber/internal/metrics"
)

// Recorder stores evaluations made by logged-in users.
type Recorder interface {
	Record(ctx context.Context, userID int, res Result) error
}

type Handler struct {
	Catalog *material.Catalog
	Metrics *metrics.Metrics
	History Recorder
	cache   *cache.Cache
}

// NewHandler caches results of identical inputs for ttl; a zero ttl disables
// the cache.
func NewHandler(cat *material.Catalog, ttl time.Duration, m *metrics.Metrics, history Recorder) *Handler {
	h := &Handler{Catalog: cat, Metrics: m, History: history}
	if ttl > 0 {
		h.cache = cache.New(ttl, 2*ttl)
	}
	return h
}

// Evaluate runs Calculate for operation and records metrics.
func (h *Handler) Evaluate(operation string, in Input) (Result, error) {
	start := time.Now()
	res, err := Calculate(h.Catalog, in)
	if err != nil {
		h.Metrics.RecordError(operation, ErrorType(err))
		return Result{}, err
	}
	h.Metrics.RecordEvaluation(operation, res.AllPassed, time.Since(start).Seconds())
	h.Metrics.RecordUtilization("normal", res.Structural.MaxULSUtilization)
	if res.Fire != nil {
		h.Metrics.RecordUtilization("fire", res.Fire.MaxUtilization())
	}
	return res, nil
}

// ErrorType is the metrics label of an evaluation error.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, calcerr.ErrValidation):
		return "validation"
	case errors.Is(err, calcerr.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func (h *Handler) cached(in Input) (Result, error) {
	if h.cache == nil {
		return h.Evaluate("check", in)
	}
	key, err := json.Marshal(in.Normalize())
	if err != nil {
		// non-finite numbers have no JSON key; validation reports them
		return h.Evaluate("check", in)
	}
	if v, ok := h.cache.Get(string(key)); ok {
		h.Metrics.RecordCache(true)
		return v.(Result), nil
	}
	h.Metrics.RecordCache(false)
	res, err := h.Evaluate("check", in)
	if err != nil {
		return Result{}, err
	}
	h.cache.Set(string(key), res, cache.DefaultExpiration)
	return res, nil
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := h.cached(input)
	if err != nil {
		slog.Warn("timber check rejected", "grade", input.Grade, "error", err)
		http.Error(w, err.Error(), calcerr.Status(err))
		return
	}
	slog.Debug("timber check",
		"grade", res.Input.Grade,
		"width_mm", res.Input.WidthMM,
		"height_mm", res.Input.HeightMM,
		"utilization", res.Structural.MaxULSUtilization,
		"passed", res.AllPassed)

	if userID, ok := auth.UserID(r.Context()); ok && h.History != nil {
		if err := h.History.Record(r.Context(), userID, res); err != nil {
			slog.Error("cannot record evaluation", "user_id", userID, "error", err)
		}
	}

	body, err := json.Marshal(res)
	if err != nil {
		slog.Error("cannot encode timber result", "grade", res.Input.Grade, "error", err)
		http.Error(w, "cannot encode result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(body, '\n'))
}

// Materials lists the catalog, optionally filtered by ?kind=solid|glulam.
func (h *Handler) Materials(w http.ResponseWriter, r *http.Request) {
	kind := material.Kind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		http.Error(w, "kind must be solid or glulam", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Catalog.ByKind(kind))
}
