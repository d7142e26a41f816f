package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/material"
	"Timber/internal/calc/timber"
)

func evaluate(t *testing.T, in timber.Input) timber.Result {
	t.Helper()
	cat, err := material.Default()
	require.NoError(t, err)
	res, err := timber.Calculate(cat, in)
	require.NoError(t, err)
	return res
}

func TestBarColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, green, barColor(0.5))
	assert.Equal(t, green, barColor(0.8))
	assert.Equal(t, orange, barColor(0.81))
	assert.Equal(t, orange, barColor(1.0))
	assert.Equal(t, red, barColor(1.01))
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   timber.Input
	}{
		{"structural only", timber.Input{Grade: "C24", WidthMM: 160, HeightMM: 400, SpanM: 5, LoadGKNM: 2, LoadQKNM: 5}},
		{"with fire", timber.Input{Grade: "GL28h", WidthMM: 160, HeightMM: 400, SpanM: 5, LoadGKNM: 2, LoadQKNM: 5,
			Fire: &timber.FireInput{DurationMin: 60, Exposure: fire.FourSides}}},
		{"failing and consumed", timber.Input{Grade: "C16", WidthMM: 60, HeightMM: 120, SpanM: 6, LoadGKNM: 5, LoadQKNM: 10,
			Fire: &timber.FireInput{DurationMin: 90}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := Render(&buf, evaluate(t, tt.in), Meta{Project: "Café roof", Author: "J. Novák", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
			assert.Greater(t, buf.Len(), 1000)
		})
	}
}

func TestHandlerGenerate(t *testing.T) {
	t.Parallel()

	cat, err := material.Default()
	require.NoError(t, err)
	h := &Handler{Timber: timber.NewHandler(cat, 0, nil, nil)}

	body, err := json.Marshal(Input{
		Project: "Garage",
		Beam: timber.Input{Grade: "C24", WidthMM: 160, HeightMM: 400, SpanM: 5, LoadGKNM: 2, LoadQKNM: 5,
			Fire: &timber.FireInput{DurationMin: 30}},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Generate(w, httptest.NewRequest(http.MethodPost, "/api/user/tools/timber/report/pdf", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="check_C24_160x400_R30.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = httptest.NewRecorder()
	h.Generate(w, httptest.NewRequest(http.MethodPost, "/api/user/tools/timber/report/pdf",
		bytes.NewBufferString(`{"beam":{"grade":"XX","width_mm":100,"height_mm":200,"span_m":3}}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
