package service

import (
	"context"
	"errors"
	"log"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/i18n"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// Notifier is the fan-out sink the other services emit events through.
// Delivery is best-effort: a failed notification never fails the operation
// that triggered it.
type Notifier struct {
	notificationRepo repo.Notification
}

func NewNotifier(repos *repo.Repositories) *Notifier {
	return &Notifier{notificationRepo: repos.Notification}
}

// Notify persists an event for userId. titleKey is a message catalog key;
// titles are localized when the notification is read, not when it is written.
func (n *Notifier) Notify(ctx context.Context, userId uuid.UUID, typ entity.NotificationType, titleKey, body string, relatedId uuid.UUID) {
	notification := &entity.Notification{
		UserId:    userId,
		Type:      typ,
		Title:     titleKey,
		Body:      body,
		RelatedId: relatedId,
	}

	if _, err := n.notificationRepo.CreateNotification(ctx, notification); err != nil {
		log.Printf("notification fan-out failed for user %s: %v", userId, err)
	}
}

type NotificationService struct {
	notificationRepo repo.Notification
}

func NewNotificationService(repos *repo.Repositories) *NotificationService {
	return &NotificationService{notificationRepo: repos.Notification}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, actor entity.Actor, lang string, pg *entity.PaginationInput) ([]entity.NotificationOutputModel, error) {
	notifications, err := s.notificationRepo.GetUserNotifications(ctx, actor.UserId.String(), pg)
	if err != nil {
		return nil, err
	}

	out := mapNotifications(notifications)
	for i := range out {
		out[i].Title = i18n.T(lang, out[i].Title)
	}

	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor entity.Actor, notificationId string) error {
	err := s.notificationRepo.MarkNotificationRead(ctx, notificationId, actor.UserId.String())
	if err != nil && errors.Is(err, repo_errors.ErrNotFound) {
		return ErrUserNotFound
	}

	return err
}
