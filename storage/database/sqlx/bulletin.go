package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/bulletin"
)

type (
	announcementRow struct {
		ID        int       `db:"id"`
		Heading   string    `db:"heading"`
		Body      string    `db:"body"`
		CreatedAt time.Time `db:"created_at"`
	}

	eventRow struct {
		ID          int       `db:"id"`
		Name        string    `db:"name"`
		Description string    `db:"description"`
		EventDate   time.Time `db:"event_date"`
		EventPlace  string    `db:"event_place"`
	}

	bulletinRepository struct {
		db *sqlx.DB
	}
)

var _ bulletin.Repository = (*bulletinRepository)(nil)

func NewBulletinRepository(db *sqlx.DB) *bulletinRepository {
	return &bulletinRepository{db: db}
}

func (row announcementRow) toCore() bulletin.Announcement {
	return bulletin.Announcement{
		ID:        row.ID,
		Heading:   row.Heading,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

func (row eventRow) toCore() bulletin.Event {
	return bulletin.Event{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		EventDate:   row.EventDate,
		EventPlace:  row.EventPlace,
	}
}

func (repo *bulletinRepository) CreateAnnouncement(ctx context.Context, ann bulletin.Announcement) (bulletin.Announcement, error) {
	query := "INSERT INTO announcements (heading, body, created_at) VALUES ($1, $2, $3) RETURNING id"
	if err := repo.db.QueryRowContext(ctx, query, ann.Heading, ann.Body, ann.CreatedAt).Scan(&ann.ID); err != nil {
		return bulletin.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return ann, nil
}

func (repo *bulletinRepository) QueryAllAnnouncements(ctx context.Context) ([]bulletin.Announcement, error) {
	var rows []announcementRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM announcements ORDER BY created_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	announcements := make([]bulletin.Announcement, 0, len(rows))
	for _, row := range rows {
		announcements = append(announcements, row.toCore())
	}
	return announcements, nil
}

func (repo *bulletinRepository) GetAnnouncementByID(ctx context.Context, id int) (bulletin.Announcement, error) {
	var row announcementRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM announcements WHERE id = $1", id); err != nil {
		return bulletin.Announcement{}, trapNoRowsErr(err, bulletin.ErrAnnouncementNotFound, "getting announcement by id")
	}
	return row.toCore(), nil
}

func (repo *bulletinRepository) UpdateAnnouncement(ctx context.Context, ann bulletin.Announcement) (bulletin.Announcement, error) {
	query := "UPDATE announcements SET heading = $1, body = $2 WHERE id = $3"
	if _, err := repo.db.ExecContext(ctx, query, ann.Heading, ann.Body, ann.ID); err != nil {
		return bulletin.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return ann, nil
}

func (repo *bulletinRepository) DeleteAnnouncementByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return nil
}

func (repo *bulletinRepository) CreateEvent(ctx context.Context, evt bulletin.Event) (bulletin.Event, error) {
	query := `INSERT INTO events (name, description, event_date, event_place)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, evt.Name, evt.Description, evt.EventDate, evt.EventPlace).Scan(&evt.ID)
	if err != nil {
		return bulletin.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *bulletinRepository) QueryAllEvents(ctx context.Context) ([]bulletin.Event, error) {
	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM events ORDER BY event_date"); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]bulletin.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toCore())
	}
	return events, nil
}

func (repo *bulletinRepository) GetEventByID(ctx context.Context, id int) (bulletin.Event, error) {
	var row eventRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM events WHERE id = $1", id); err != nil {
		return bulletin.Event{}, trapNoRowsErr(err, bulletin.ErrEventNotFound, "getting event by id")
	}
	return row.toCore(), nil
}

func (repo *bulletinRepository) UpdateEvent(ctx context.Context, evt bulletin.Event) (bulletin.Event, error) {
	query := `UPDATE events SET name = $1, description = $2, event_date = $3, event_place = $4
	          WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, query, evt.Name, evt.Description, evt.EventDate, evt.EventPlace, evt.ID); err != nil {
		return bulletin.Event{}, errors.Wrap(err, "updating event")
	}
	return evt, nil
}

func (repo *bulletinRepository) DeleteEventByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return nil
}
