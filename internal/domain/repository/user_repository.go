package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// Upsert links the user's problem-source account; created_at is only written on insert.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
	UpdateStats(ctx context.Context, id string, stats model.UserStats, at time.Time) error
}

type pgUserRepository struct {
	db *sqlx.DB
}

func NewPgUserRepository(db *sqlx.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, problem_source_username, stats, created_at, updated_at`

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user := &model.User{}
	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	query := `INSERT INTO users (id, email, problem_source_username, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (id) DO UPDATE SET
	              email = COALESCE(EXCLUDED.email, users.email),
	              problem_source_username = EXCLUDED.problem_source_username,
	              updated_at = EXCLUDED.updated_at
	          RETURNING ` + userColumns
	saved := &model.User{}
	err := r.db.GetContext(ctx, saved, query, user.ID, user.Email, user.ProblemSourceUsername, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.Upsert: %w", err)
	}
	return saved, nil
}

func (r *pgUserRepository) UpdateStats(ctx context.Context, id string, stats model.UserStats, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET stats = $1::jsonb, updated_at = $2 WHERE id = $3`, stats, at, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateStats: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
