package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/bulletin"
)

type bulletinRepository struct {
	db *DB
}

var _ bulletin.Repository = (*bulletinRepository)(nil)

func NewBulletinRepository(db *DB) *bulletinRepository {
	return &bulletinRepository{db: db}
}

func (repo *bulletinRepository) CreateAnnouncement(_ context.Context, ann bulletin.Announcement) (bulletin.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ann.ID = repo.db.nextPK()
	repo.db.announcements[ann.ID] = &ann
	return ann, nil
}

func (repo *bulletinRepository) QueryAllAnnouncements(_ context.Context) ([]bulletin.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	announcements := make([]bulletin.Announcement, 0, len(repo.db.announcements))
	for _, ann := range repo.db.announcements {
		announcements = append(announcements, *ann)
	}
	sort.Slice(announcements, func(i, j int) bool { return announcements[i].CreatedAt.After(announcements[j].CreatedAt) })
	return announcements, nil
}

func (repo *bulletinRepository) GetAnnouncementByID(_ context.Context, id int) (bulletin.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.announcements[id]; ok {
		return *ann, nil
	}
	return bulletin.Announcement{}, bulletin.ErrAnnouncementNotFound
}

func (repo *bulletinRepository) UpdateAnnouncement(_ context.Context, ann bulletin.Announcement) (bulletin.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.announcements[ann.ID]; !ok {
		return bulletin.Announcement{}, bulletin.ErrAnnouncementNotFound
	}
	repo.db.announcements[ann.ID] = &ann
	return ann, nil
}

func (repo *bulletinRepository) DeleteAnnouncementByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.announcements, id)
	return nil
}

func (repo *bulletinRepository) CreateEvent(_ context.Context, evt bulletin.Event) (bulletin.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	evt.ID = repo.db.nextPK()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *bulletinRepository) QueryAllEvents(_ context.Context) ([]bulletin.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]bulletin.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		events = append(events, *evt)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventDate.Before(events[j].EventDate) })
	return events, nil
}

func (repo *bulletinRepository) GetEventByID(_ context.Context, id int) (bulletin.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return bulletin.Event{}, bulletin.ErrEventNotFound
}

func (repo *bulletinRepository) UpdateEvent(_ context.Context, evt bulletin.Event) (bulletin.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.events[evt.ID]; !ok {
		return bulletin.Event{}, bulletin.ErrEventNotFound
	}
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *bulletinRepository) DeleteEventByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.events, id)
	return nil
}
