package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Timber/internal/calcerr"
)

// openTestDB connects to TIMBER_TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) (*PostgresUserRepository, *PostgresEvaluationRepository) {
	t.Helper()

	url := os.Getenv("TIMBER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TIMBER_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := InitDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return NewPostgresUserDB(db), NewPostgresEvaluationDB(db)
}

func TestUsersAndEvaluations(t *testing.T) {
	users, evals := openTestDB(t)
	ctx := context.Background()

	login := fmt.Sprintf("test-%d", time.Now().UnixNano())
	uid, err := users.CreateUser(ctx, login, login+"@example.com", "hash")
	require.NoError(t, err)

	id, hash, err := users.GetBylogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, uid, id)
	assert.Equal(t, "hash", hash)

	id, _, err = users.GetBylogin(ctx, login+"-missing")
	require.NoError(t, err)
	assert.Zero(t, id)

	e := Evaluation{
		UserID: uid, Grade: "C24", WidthMM: 160, HeightMM: 400, SpanM: 5, FireMin: 30,
		Passed: true, Summary: "ULS: 50.6% | Fire R30: 21.1%",
		Input: json.RawMessage(`{"grade":"C24"}`), Result: json.RawMessage(`{"all_passed":true}`),
	}
	eid, err := evals.SaveEvaluation(ctx, e)
	require.NoError(t, err)

	list, err := evals.ListEvaluations(ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, eid, list[0].ID)
	assert.Nil(t, list[0].Result)

	got, err := evals.GetEvaluation(ctx, uid, eid)
	require.NoError(t, err)
	assert.JSONEq(t, `{"all_passed":true}`, string(got.Result))

	_, err = evals.GetEvaluation(ctx, uid+1, eid)
	assert.True(t, errors.Is(err, calcerr.ErrNotFound))

	stats, err := evals.EvaluationStats(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Fire)
	assert.NotNil(t, stats.Last)

	prof, err := users.GetProfileByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, login, prof.Login)

	_, err = users.GetProfileByID(ctx, -1)
	assert.True(t, errors.Is(err, calcerr.ErrNotFound))
}
