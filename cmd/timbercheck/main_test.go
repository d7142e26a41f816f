package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/calc/timber"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var referenceBeam = []string{"--grade", "C24", "--width", "160", "--height", "400", "--span", "5", "--gk", "2", "--qk", "5"}

func TestCheck(t *testing.T) {
	out, err := execute(t, append([]string{"check"}, append(referenceBeam, "--fire", "30")...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Bending: 50.6% [OK]")
	assert.Contains(t, out, "Bending (fire)")
	assert.Contains(t, out, "ULS: 50.6% | Fire R30: 21.1%")
	assert.Contains(t, out, "The beam SATISFIES all checks")
}

func TestCheckJSON(t *testing.T) {
	out, err := execute(t, append([]string{"check", "--json"}, referenceBeam...)...)
	require.NoError(t, err)

	var res timber.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.AllPassed)
	assert.Nil(t, res.Fire)
	assert.InDelta(t, 0.505829, res.Structural.Bending.Utilization, 1e-6)
}

func TestCheckWritesPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	out, err := execute(t, append([]string{"check", "--pdf", path, "--project", "Test"}, referenceBeam...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Protocol written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestCheckInvalidInput(t *testing.T) {
	_, err := execute(t, "check", "--grade", "C99", "--width", "160", "--height", "400", "--span", "5")
	assert.Error(t, err)

	_, err = execute(t, append([]string{"check", "--lef", "3"}, referenceBeam...)...)
	assert.ErrorContains(t, err, "lef_factor")
}

func TestCheckRejectsInvalidFireDuration(t *testing.T) {
	for _, d := range []string{"-30", "0"} {
		_, err := execute(t, append([]string{"check", "--fire", d}, referenceBeam...)...)
		assert.ErrorContains(t, err, "fire_duration", d)
	}

	_, err := execute(t, append([]string{"suggest", "--fire", "-30"}, referenceBeam...)...)
	assert.ErrorContains(t, err, "fire_duration")
}

func TestCheckRejectsInfiniteDimensions(t *testing.T) {
	_, err := execute(t, "check", "--width", "inf", "--height", "400", "--span", "5", "--gk", "2", "--qk", "5")
	assert.ErrorContains(t, err, "width")

	_, err = execute(t, "check", "--width", "160", "--height", "400", "--span", "+Inf", "--gk", "2", "--qk", "5")
	assert.ErrorContains(t, err, "span")
}

func TestMaterials(t *testing.T) {
	out, err := execute(t, "materials", "--kind", "glulam")
	require.NoError(t, err)
	assert.Contains(t, out, "GL24h")
	assert.NotContains(t, out, "C24 ")

	out, err = execute(t, "materials")
	require.NoError(t, err)
	assert.Contains(t, out, "C24")
	assert.Contains(t, out, "GL32c")

	_, err = execute(t, "materials", "--kind", "steel")
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	out, err := execute(t, "suggest", "--width", "100", "--height", "200", "--span", "5", "--gk", "2", "--qk", "5", "--fire", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "section consumed")
	assert.Contains(t, out, "Enlarge to 180x280 mm (+80 mm) for R60.")

	_, err = execute(t, "suggest", "--width", "100", "--height", "200", "--span", "5")
	assert.ErrorContains(t, err, "--fire")
}
