package pgdb

import (
	"context"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/repo_errors"
	"marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type NotificationRepo struct {
	*postgres.Postgres
}

func NewNotificationRepo(pgdb *postgres.Postgres) *NotificationRepo {
	return &NotificationRepo{pgdb}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *entity.Notification) (uuid.UUID, error) {
	createReq, args, _ := r.SqlBuilder.
		Insert("notification").
		Columns("user_id", "type", "title", "body", "related_id").
		Values(n.UserId, n.Type, n.Title, n.Body, n.RelatedId).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *NotificationRepo) GetUserNotifications(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Notification, error) {
	uuidForm, err := uuid.Parse(userId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	listReq, args, _ := r.SqlBuilder.
		Select("id", "user_id", "type", "title", "body", "related_id", "read", "created_at").
		From("notification").
		Where("user_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.Id, &n.UserId, &n.Type, &n.Title, &n.Body, &n.RelatedId, &n.Read, &n.CreatedAt); err != nil {
			return notifications, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepo) MarkNotificationRead(ctx context.Context, id string, userId string) error {
	idForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	userForm, err := uuid.Parse(userId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("notification").
		Set("read", true).
		Where("id = ?", idForm).
		Where("user_id = ?", userForm).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *NotificationRepo) DeleteNotificationsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleteReq, args, _ := r.SqlBuilder.
		Delete("notification").
		Where("created_at < ?", cutoff).
		ToSql()

	res, err := r.Database.ExecContext(ctx, deleteReq, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
