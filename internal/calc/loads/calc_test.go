package loads

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/calcerr"
)

func TestKmodTable(t *testing.T) {
	t.Parallel()

	want := map[ServiceClass][]float64{
		ServiceClass1: {0.60, 0.70, 0.80, 0.90, 1.10},
		ServiceClass2: {0.60, 0.70, 0.80, 0.90, 1.10},
		ServiceClass3: {0.50, 0.55, 0.65, 0.70, 0.90},
	}
	n := 0
	for sc, row := range want {
		for i, d := range Durations {
			got, ok := Kmod(sc, d)
			require.True(t, ok)
			assert.Equal(t, row[i], got, "service class %d, %s", sc, d)
			n++
		}
	}
	assert.Equal(t, 15, n)

	_, ok := Kmod(4, MediumTerm)
	assert.False(t, ok)
}

func TestKdefTable(t *testing.T) {
	t.Parallel()

	for sc, want := range map[ServiceClass]float64{1: 0.6, 2: 0.8, 3: 2.0} {
		got, ok := Kdef(sc)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestPsi2FallsBackForUnknownCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.3, Psi2(CategoryA))
	assert.Equal(t, 0.6, Psi2(CategoryC))
	assert.Equal(t, 0.8, Psi2(CategoryE))
	assert.Equal(t, 0.0, Psi2(CategorySnow))
	assert.Equal(t, 0.3, Psi2("cat_Z"))
}

func TestCombinationsAndInternalForces(t *testing.T) {
	t.Parallel()

	tests := []struct{ gk, qk, span float64 }{
		{2, 5, 5},
		{0, 0, 3},
		{1.2, 0, 7.5},
		{0, 3.4, 2},
	}
	for _, tt := range tests {
		c, err := New(tt.gk, tt.qk, tt.span, ServiceClass1, MediumTerm, "")
		require.NoError(t, err)

		qEd := 1.35*tt.gk + 1.5*tt.qk
		assert.InDelta(t, qEd, c.QEd(), 1e-12)
		assert.InDelta(t, qEd*tt.span*tt.span/8, c.MEd(), 1e-12)
		assert.InDelta(t, qEd*tt.span/2, c.VEd(), 1e-12)
		assert.InDelta(t, tt.gk+tt.qk, c.QChar(), 1e-12)
		assert.InDelta(t, tt.gk+0.3*tt.qk, c.QQuasi(), 1e-12)
	}
}

func TestReferenceCase(t *testing.T) {
	t.Parallel()

	c, err := New(2, 5, 5, ServiceClass1, MediumTerm, "")
	require.NoError(t, err)
	assert.Equal(t, CategoryA, c.Category())
	assert.InDelta(t, 10.2, c.QEd(), 1e-12)
	assert.InDelta(t, 31.875, c.MEd(), 1e-12)
	assert.InDelta(t, 25.5, c.VEd(), 1e-12)
	assert.InDelta(t, 0.8, c.Kmod(), 1e-12)
	assert.InDelta(t, 0.6, c.Kdef(), 1e-12)
	assert.InDelta(t, 7*25/8.0, c.MChar(), 1e-12)
	assert.InDelta(t, 3.5*25/8.0, c.MQuasi(), 1e-12)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		gk, qk   float64
		span     float64
		sc       ServiceClass
		duration Duration
		field    string
	}{
		{"negative permanent", -1, 5, 5, 1, MediumTerm, "g_k"},
		{"negative variable", 2, -0.1, 5, 1, MediumTerm, "q_k"},
		{"zero span", 2, 5, 0, 1, MediumTerm, "span"},
		{"negative span", 2, 5, -3, 1, MediumTerm, "span"},
		{"NaN permanent", math.NaN(), 5, 5, 1, MediumTerm, "g_k"},
		{"infinite variable", 2, math.Inf(1), 5, 1, MediumTerm, "q_k"},
		{"infinite span", 2, 5, math.Inf(1), 1, MediumTerm, "span"},
		{"service class", 2, 5, 5, 4, MediumTerm, "service_class"},
		{"duration", 2, 5, 5, 1, "forever", "load_duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.gk, tt.qk, tt.span, tt.sc, tt.duration, "")
			var fe *calcerr.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.ErrorIs(t, err, calcerr.ErrValidation)
		})
	}
}

func TestDurationLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Medium-term", MediumTerm.Label())
	assert.Equal(t, "x", Duration("x").Label())
}

func TestHandlerCalc(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(Input{LoadGKNM: 2, LoadQKNM: 5, SpanM: 5})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/tools/loads/calc", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 31.875, res.MomentKNM, 1e-12)
	assert.InDelta(t, 0.8, res.Kmod, 1e-12)
	assert.Equal(t, CategoryA, res.Category)

	rec = httptest.NewRecorder()
	(&Handler{}).Calc(rec, httptest.NewRequest(http.MethodPost, "/tools/loads/calc", bytes.NewBufferString(`{"span_m":0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
