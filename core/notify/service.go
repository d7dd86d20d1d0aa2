// Package notify records in-app notifications fanned out by domain writes
// (enrollments, payment records, reports, announcements).
package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/auth"
)

var ErrNotFound = errors.New("notification not found")

// Notification belongs to one principal. UserID alone does not identify the
// recipient since admins, teachers and students have independent id
// sequences; UserRole disambiguates.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserRole  auth.Role `json:"user_role"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		QueryUnreadNotifications(ctx context.Context, userID int, role auth.Role) ([]Notification, error)
		GetNotificationByID(ctx context.Context, id int) (Notification, error)
		UpdateNotification(ctx context.Context, n Notification) (Notification, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a notification for a principal's feed.
func (svc *Service) Notify(ctx context.Context, userID int, role auth.Role, message string) error {
	_, err := svc.repo.CreateNotification(ctx, Notification{
		UserID:    userID,
		UserRole:  role,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	return errors.Wrap(err, "creating notification")
}

// QueryUnread lists a principal's unread notifications.
func (svc *Service) QueryUnread(ctx context.Context, userID int, role auth.Role) ([]Notification, error) {
	return svc.repo.QueryUnreadNotifications(ctx, userID, role)
}

// MarkRead flags a notification as seen. Only the recipient may mark it;
// anyone else gets ErrNotFound.
func (svc *Service) MarkRead(ctx context.Context, id, userID int, role auth.Role) (Notification, error) {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if n.UserID != userID || n.UserRole != role {
		return Notification{}, ErrNotFound
	}
	n.Read = true
	return svc.repo.UpdateNotification(ctx, n)
}
