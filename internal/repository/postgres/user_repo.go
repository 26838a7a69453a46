package postgres

import (
	"context"
	"errors"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and returns the generated id.
func (r *UserRepo) Create(ctx context.Context, username, pwdHash string) (int64, error) {
	const q = `
INSERT INTO users (username, pwd_hash, status)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, username, pwdHash, model.AccountActive).Scan(&id)
	if isUniqueViolation(err) {
		return 0, errs.ErrAlreadyExists
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetActiveByUsername selects an active user by username.
func (r *UserRepo) GetActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, pwd_hash, COALESCE(picture, ''), status, created_at
FROM users WHERE username=$1 AND status=$2`
	row := r.db.Pool.QueryRow(ctx, q, username, model.AccountActive)
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.PwdHash, &u.Picture, &u.Status, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateUsername changes the username of an account.
func (r *UserRepo) UpdateUsername(ctx context.Context, id int64, username string) (bool, error) {
	const q = `UPDATE users SET username=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, username)
	if isUniqueViolation(err) {
		return false, errs.ErrAlreadyExists
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePicture stores the uploaded picture reference.
func (r *UserRepo) UpdatePicture(ctx context.Context, id int64, picture string) (bool, error) {
	const q = `UPDATE users SET picture=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, picture)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Deactivate soft-deletes the account. The row is kept so likes and
// collaborations stay attributable.
func (r *UserRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE users SET status=$2 WHERE id=$1 AND status=$3`
	tag, err := r.db.Pool.Exec(ctx, q, id, model.AccountDeactivated, model.AccountActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
