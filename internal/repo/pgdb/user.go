package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/repo_errors"
	"marketplace-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) CreateUser(ctx context.Context, user *entity.User) (uuid.UUID, error) {
	createReq, args, _ := r.SqlBuilder.
		Insert("users").
		Columns("email", "name", "password_hash", "role").
		Values(user.Email, user.Name, user.PasswordHash, user.Role).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}

		return uuid.Nil, err
	}

	return id, nil
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg interface{}) (*entity.User, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("id", "email", "name", "password_hash", "role", "created_at").
		From("users").
		Where(where, arg).
		ToSql()

	var user entity.User
	var createdAt time.Time
	err := r.Database.QueryRowContext(ctx, getReq, args...).
		Scan(&user.Id, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	user.CreatedAt = createdAt

	return &user, nil
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.getUser(ctx, "id = ?", uuidForm)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getUser(ctx, "email = ?", email)
}
