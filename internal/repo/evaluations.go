package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"Timber/internal/calcerr"
)

// Evaluation is one stored beam check of a user.
type Evaluation struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Grade     string          `json:"grade"`
	WidthMM   float64         `json:"width_mm"`
	HeightMM  float64         `json:"height_mm"`
	SpanM     float64         `json:"span_m"`
	FireMin   int             `json:"fire_min,omitempty"`
	Passed    bool            `json:"passed"`
	Summary   string          `json:"summary"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Stats aggregates the evaluations of one user.
type Stats struct {
	Total  int        `json:"total"`
	Passed int        `json:"passed"`
	Fire   int        `json:"with_fire"`
	Last   *time.Time `json:"last_at,omitempty"`
}

type EvaluationRepository interface {
	SaveEvaluation(ctx context.Context, e Evaluation) (int, error)
	ListEvaluations(ctx context.Context, userID, limit int) ([]Evaluation, error)
	GetEvaluation(ctx context.Context, userID, id int) (Evaluation, error)
}

type PostgresEvaluationRepository struct {
	db *sql.DB
}

func NewPostgresEvaluationDB(db *sql.DB) *PostgresEvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

func (r *PostgresEvaluationRepository) SaveEvaluation(ctx context.Context, e Evaluation) (int, error) {
	var id int
	query := `INSERT INTO evaluations
		(user_id, grade, width_mm, height_mm, span_m, fire_min, passed, summary, input, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.Grade, e.WidthMM, e.HeightMM, e.SpanM, e.FireMin, e.Passed, e.Summary,
		[]byte(e.Input), []byte(e.Result),
	).Scan(&id)
	return id, err
}

// ListEvaluations returns the newest evaluations first without their results.
func (r *PostgresEvaluationRepository) ListEvaluations(ctx context.Context, userID, limit int) ([]Evaluation, error) {
	query := `SELECT id, user_id, grade, width_mm, height_mm, span_m, fire_min, passed, summary, input, created_at
		FROM evaluations WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		var input []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Grade, &e.WidthMM, &e.HeightMM, &e.SpanM,
			&e.FireMin, &e.Passed, &e.Summary, &input, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Input = input
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresEvaluationRepository) GetEvaluation(ctx context.Context, userID, id int) (Evaluation, error) {
	query := `SELECT id, user_id, grade, width_mm, height_mm, span_m, fire_min, passed, summary, input, result, created_at
		FROM evaluations WHERE user_id=$1 AND id=$2`
	var e Evaluation
	var input, result []byte
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(&e.ID, &e.UserID, &e.Grade, &e.WidthMM,
		&e.HeightMM, &e.SpanM, &e.FireMin, &e.Passed, &e.Summary, &input, &result, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Evaluation{}, calcerr.NotFound("evaluation", strconv.Itoa(id))
	}
	if err != nil {
		return Evaluation{}, err
	}
	e.Input, e.Result = input, result
	return e, nil
}

func (r *PostgresEvaluationRepository) EvaluationStats(ctx context.Context, userID int) (Stats, error) {
	query := `SELECT count(*),
		count(*) FILTER (WHERE passed),
		count(*) FILTER (WHERE fire_min > 0),
		max(created_at)
		FROM evaluations WHERE user_id=$1`
	var s Stats
	var last sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.Total, &s.Passed, &s.Fire, &last); err != nil {
		return Stats{}, err
	}
	if last.Valid {
		s.Last = &last.Time
	}
	return s, nil
}
