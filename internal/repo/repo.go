// Package repo stores users and their beam evaluations in Postgres.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"Timber/internal/calcerr"
)

type Profile struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	// GetBylogin returns id 0 when the login is unknown.
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) GetProfileByID(ctx context.Context, id int) (Profile, error) {
	var p Profile
	query := "SELECT id, login, email, created_at FROM users WHERE id=$1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Login, &p.Email, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, calcerr.NotFound("user", strconv.Itoa(id))
	}
	return p, err
}
