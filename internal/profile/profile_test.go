package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/auth"
	"Timber/internal/calcerr"
	"Timber/internal/repo"
)

type fakeUsers map[int]repo.Profile

func (f fakeUsers) GetProfileByID(_ context.Context, id int) (repo.Profile, error) {
	p, ok := f[id]
	if !ok {
		return repo.Profile{}, calcerr.NotFound("user", strconv.Itoa(id))
	}
	return p, nil
}

type fakeStats struct {
	stats repo.Stats
	err   error
}

func (f fakeStats) EvaluationStats(context.Context, int) (repo.Stats, error) {
	return f.stats, f.err
}

func get(h *ProfileHandler, ctx context.Context) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil).WithContext(ctx)
	h.GetProfile(w, r)
	return w
}

func TestGetProfile(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := &ProfileHandler{
		Users: fakeUsers{7: {ID: 7, Login: "anna", Email: "a@example.com", CreatedAt: created}},
		Stats: fakeStats{stats: repo.Stats{Total: 3, Passed: 2, Fire: 1, Last: &created}},
	}

	w := get(h, auth.WithUser(context.Background(), 7, "anna"))
	require.Equal(t, http.StatusOK, w.Code)

	var got Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "anna", got.Login)
	assert.Equal(t, 3, got.Evaluations.Total)
	assert.Equal(t, 2, got.Evaluations.Passed)
	assert.Equal(t, 1, got.Evaluations.Fire)
}

func TestGetProfileErrors(t *testing.T) {
	h := &ProfileHandler{Users: fakeUsers{}, Stats: fakeStats{}}

	assert.Equal(t, http.StatusUnauthorized, get(h, context.Background()).Code)
	assert.Equal(t, http.StatusNotFound, get(h, auth.WithUser(context.Background(), 9, "x")).Code)

	h = &ProfileHandler{
		Users: fakeUsers{9: {ID: 9, Login: "x"}},
		Stats: fakeStats{err: errors.New("connection reset")},
	}
	assert.Equal(t, http.StatusInternalServerError, get(h, auth.WithUser(context.Background(), 9, "x")).Code)
}
