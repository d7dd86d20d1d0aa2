package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/notify"
)

type notificationRepository struct {
	db *DB
}

var _ notify.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notify.Notification) (notify.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n.ID = repo.db.nextPK()
	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) QueryUnreadNotifications(_ context.Context, userID int, role auth.Role) ([]notify.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var notifications []notify.Notification
	for _, n := range repo.db.notifications {
		if n.UserID == userID && n.UserRole == role && !n.Read {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].CreatedAt.After(notifications[j].CreatedAt) })
	return notifications, nil
}

func (repo *notificationRepository) GetNotificationByID(_ context.Context, id int) (notify.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.notifications[id]; ok {
		return *n, nil
	}
	return notify.Notification{}, notify.ErrNotFound
}

func (repo *notificationRepository) UpdateNotification(_ context.Context, n notify.Notification) (notify.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.notifications[n.ID]; !ok {
		return notify.Notification{}, notify.ErrNotFound
	}
	repo.db.notifications[n.ID] = &n
	return n, nil
}
