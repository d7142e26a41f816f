package fire

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/section"
	"Timber/internal/calcerr"
)

func inputs(t *testing.T, grade string, b, h, span, gk, qk float64) (material.Timber, section.Rectangular, loads.Case) {
	t.Helper()

	cat, err := material.Default()
	require.NoError(t, err)
	mat, err := cat.Lookup(grade)
	require.NoError(t, err)
	sec, err := section.New(b, h)
	require.NoError(t, err)
	load, err := loads.New(gk, qk, span, loads.ServiceClass1, loads.MediumTerm, loads.CategoryA)
	require.NoError(t, err)
	return mat, sec, load
}

func TestReferenceBeamR30(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "C24", 160, 400, 5, 2, 5)
	c, err := New(mat, sec, load, Exposure{DurationMin: 30})
	require.NoError(t, err)
	assert.Equal(t, ThreeSides, c.Exposure().Pattern)

	r := c.ReducedSection()
	assert.InDelta(t, 24.0, r.DChar, 1e-12)
	assert.InDelta(t, 31.0, r.DEf, 1e-12)
	assert.InDelta(t, 98.0, r.BFi, 1e-12)
	assert.InDelta(t, 369.0, r.HFi, 1e-12)
	assert.True(t, r.IsValid())
	assert.InDelta(t, 2223963.0, r.WyFi(), 1e-6)

	assert.InDelta(t, 4.5/10.2, c.EtaFi(), 1e-12)
	assert.InDelta(t, 14.0625, c.MEdFi(), 1e-9)
	assert.InDelta(t, 11.25, c.VEdFi(), 1e-9)
	assert.InDelta(t, 30.0, c.FmDFi(), 1e-12)
	assert.InDelta(t, 5.0, c.FvDFi(), 1e-12)

	rep := c.RunAll()
	assert.InDelta(t, 0.2107723914, rep.Bending.Utilization, 1e-9)
	assert.InDelta(t, 0.0933300149, rep.Shear.Utilization, 1e-9)
	assert.True(t, rep.AllPassed)
	assert.Equal(t, 30, rep.Params.DurationMin)
	assert.Equal(t, OriginalSection{B: 160, H: 400}, rep.Original)
	assert.InDelta(t, rep.Bending.Utilization, rep.MaxUtilization(), 1e-12)
	assert.Equal(t, "Bending (fire): 21.1% [OK]", rep.Bending.String())
}

func TestCharringRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind           material.Kind
		oneDimensional bool
		want           float64
	}{
		{material.KindSolid, false, 0.80},
		{material.KindSolid, true, 0.65},
		{material.KindGlulam, false, 0.70},
		{material.KindGlulam, true, 0.65},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Beta(tt.kind, tt.oneDimensional))
	}
}

func TestFourSidesReducesDepthTwice(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "GL24h", 200, 400, 6, 3, 4)
	c, err := New(mat, sec, load, Exposure{DurationMin: 60, Pattern: FourSides})
	require.NoError(t, err)

	r := c.ReducedSection()
	assert.InDelta(t, 49.0, r.DEf, 1e-9)
	assert.InDelta(t, 102.0, r.BFi, 1e-9)
	assert.InDelta(t, 302.0, r.HFi, 1e-9)
}

func TestOneDimensionalCharring(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "C24", 160, 400, 5, 2, 5)
	c, err := New(mat, sec, load, Exposure{DurationMin: 30, OneDimensional: true})
	require.NoError(t, err)
	assert.InDelta(t, 19.5, c.DChar(), 1e-12)
	assert.InDelta(t, 26.5, c.DEf(), 1e-12)
}

func TestConsumedSection(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "C24", 60, 100, 3, 1, 1)
	c, err := New(mat, sec, load, Exposure{DurationMin: 60, Pattern: FourSides})
	require.NoError(t, err)

	r := c.ReducedSection()
	assert.Zero(t, r.BFi)
	assert.Zero(t, r.HFi)
	assert.False(t, r.IsValid())

	rep := c.RunAll()
	for _, res := range []CheckResult{rep.Bending, rep.Shear} {
		assert.True(t, math.IsInf(res.Utilization, 1))
		assert.True(t, math.IsInf(res.StressMPa, 1))
		assert.True(t, res.Consumed)
		assert.False(t, res.Passed)
	}
	assert.Equal(t, c.FmDFi(), rep.Bending.StrengthMPa)
	assert.Equal(t, c.FvDFi(), rep.Shear.StrengthMPa)
	assert.False(t, rep.AllPassed)
	assert.Equal(t, "Shear (fire): section consumed [FAILED]", rep.Shear.String())
}

func TestConsumedResultJSON(t *testing.T) {
	t.Parallel()

	res := consumed("Bending (fire)", 30)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bending (fire)","utilization":null,"stress_d_fi_mpa":null,"strength_d_fi_mpa":30,"passed":false,"consumed":true}`, string(raw))

	var back CheckResult
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, math.IsInf(back.Utilization, 1))
	assert.True(t, back.Consumed)

	ok := newCheckResult("Shear (fire)", 1, 4)
	raw, err = json.Marshal(ok)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ok, back)
}

func TestEtaFiFallbackForZeroLoad(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "C24", 160, 400, 5, 0, 0)
	c, err := New(mat, sec, load, Exposure{DurationMin: 30})
	require.NoError(t, err)
	assert.Equal(t, EtaFiFallback, c.EtaFi())
	assert.True(t, c.RunAll().AllPassed)
}

func TestPassedMatchesUtilization(t *testing.T) {
	t.Parallel()

	for _, d := range Durations {
		for _, p := range []Pattern{ThreeSides, FourSides} {
			mat, sec, load := inputs(t, "C30", 140, 360, 6, 3, 4)
			c, err := New(mat, sec, load, Exposure{DurationMin: d, Pattern: p})
			require.NoError(t, err)
			rep := c.RunAll()
			assert.Equal(t, rep.Bending.Utilization <= 1.0, rep.Bending.Passed, "R%d %s", d, p)
			assert.Equal(t, rep.Shear.Utilization <= 1.0, rep.Shear.Passed, "R%d %s", d, p)
		}
	}
}

func TestNewValidatesExposure(t *testing.T) {
	t.Parallel()

	mat, sec, load := inputs(t, "C24", 160, 400, 5, 2, 5)

	_, err := New(mat, sec, load, Exposure{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, calcerr.ErrValidation))

	_, err = New(mat, sec, load, Exposure{DurationMin: 30, Pattern: "two_sides"})
	var fe *calcerr.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "exposure", fe.Field)

	_, err = New(mat, sec, load, Exposure{DurationMin: -30})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "fire_duration", fe.Field)
}

func TestExposureValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Exposure{DurationMin: 30}.Validate())
	assert.NoError(t, Exposure{DurationMin: 60, Pattern: FourSides}.Validate())
	assert.ErrorIs(t, Exposure{DurationMin: 0}.Validate(), calcerr.ErrValidation)
	assert.ErrorIs(t, Exposure{DurationMin: -30}.Validate(), calcerr.ErrValidation)
	assert.ErrorIs(t, Exposure{DurationMin: 30, Pattern: "two_sides"}.Validate(), calcerr.ErrValidation)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	t.Run("already passing", func(t *testing.T) {
		mat, sec, load := inputs(t, "C24", 160, 400, 5, 2, 5)
		rep, s, err := Suggest(mat, sec, load, Exposure{DurationMin: 30})
		require.NoError(t, err)
		assert.True(t, rep.AllPassed)
		assert.False(t, s.Found)
	})

	t.Run("consumed section grows", func(t *testing.T) {
		mat, sec, load := inputs(t, "C24", 100, 200, 5, 2, 5)
		rep, s, err := Suggest(mat, sec, load, Exposure{DurationMin: 60})
		require.NoError(t, err)
		assert.False(t, rep.Reduced.IsValid())
		require.True(t, s.Found)
		assert.Equal(t, 80.0, s.DeltaMM)
		assert.Equal(t, 180.0, s.WidthMM)
		assert.Equal(t, 280.0, s.HeightMM)
	})

	t.Run("overstressed section grows", func(t *testing.T) {
		mat, sec, load := inputs(t, "C24", 80, 160, 4, 1, 2)
		rep, s, err := Suggest(mat, sec, load, Exposure{DurationMin: 30})
		require.NoError(t, err)
		assert.True(t, rep.Reduced.IsValid())
		assert.False(t, rep.AllPassed)
		require.True(t, s.Found)
		assert.Equal(t, 20.0, s.DeltaMM)
	})

	t.Run("nothing in range", func(t *testing.T) {
		mat, sec, load := inputs(t, "C24", 20, 20, 20, 500, 500)
		_, s, err := Suggest(mat, sec, load, Exposure{DurationMin: 120})
		require.NoError(t, err)
		assert.False(t, s.Found)
		assert.Zero(t, s.DeltaMM)
	})
}
