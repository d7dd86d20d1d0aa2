package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/notify"
)

type (
	notificationRow struct {
		ID        int       `db:"id"`
		UserID    int       `db:"user_id"`
		UserRole  string    `db:"user_role"`
		Message   string    `db:"message"`
		Read      bool      `db:"read"`
		CreatedAt time.Time `db:"created_at"`
	}

	notificationRepository struct {
		db *sqlx.DB
	}
)

var _ notify.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (row notificationRow) toCore() notify.Notification {
	return notify.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		UserRole:  auth.Role(row.UserRole),
		Message:   row.Message,
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notify.Notification) (notify.Notification, error) {
	query := `INSERT INTO notifications (user_id, user_role, message, read, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, n.UserID, string(n.UserRole), n.Message, n.Read, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return notify.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo *notificationRepository) QueryUnreadNotifications(ctx context.Context, userID int, role auth.Role) ([]notify.Notification, error) {
	var rows []notificationRow
	query := `SELECT * FROM notifications
	          WHERE user_id = $1 AND user_role = $2 AND NOT read ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID, string(role)); err != nil {
		return nil, errors.Wrap(err, "querying unread notifications")
	}
	notifications := make([]notify.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toCore())
	}
	return notifications, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id int) (notify.Notification, error) {
	var row notificationRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM notifications WHERE id = $1", id); err != nil {
		return notify.Notification{}, trapNoRowsErr(err, notify.ErrNotFound, "getting notification by id")
	}
	return row.toCore(), nil
}

func (repo *notificationRepository) UpdateNotification(ctx context.Context, n notify.Notification) (notify.Notification, error) {
	query := "UPDATE notifications SET read = $1 WHERE id = $2"
	if _, err := repo.db.ExecContext(ctx, query, n.Read, n.ID); err != nil {
		return notify.Notification{}, errors.Wrap(err, "updating notification")
	}
	return n, nil
}
