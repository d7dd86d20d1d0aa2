package bulletin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/notify"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrEventNotFound        = errors.New("event not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		QueryAllAnnouncements(ctx context.Context) ([]Announcement, error)
		GetAnnouncementByID(ctx context.Context, id int) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		DeleteAnnouncementByID(ctx context.Context, id int) error

		CreateEvent(ctx context.Context, evt Event) (Event, error)
		QueryAllEvents(ctx context.Context) ([]Event, error)
		GetEventByID(ctx context.Context, id int) (Event, error)
		UpdateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEventByID(ctx context.Context, id int) error
	}

	Service struct {
		repo     Repository
		notifSvc *notify.Service
		admins   account.AdminRepository
	}
)

func NewService(repo Repository, notifSvc *notify.Service, admins account.AdminRepository) *Service {
	return &Service{repo: repo, notifSvc: notifSvc, admins: admins}
}

// CreateAnnouncement publishes an announcement and records it in the admin
// notification feed. Fan-out failures never fail the publish.
func (svc *Service) CreateAnnouncement(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	ann, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		Heading:   na.Heading,
		Body:      na.Body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Announcement{}, errors.Wrap(err, "creating announcement")
	}

	if admins, err := svc.admins.QueryAllAdmins(ctx); err == nil {
		for _, adm := range admins {
			_ = svc.notifSvc.Notify(ctx, adm.ID, auth.RoleAdmin, "A new announcement has been added: "+ann.Heading)
		}
	}
	return ann, nil
}

func (svc *Service) QueryAnnouncements(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAllAnnouncements(ctx)
}

func (svc *Service) UpdateAnnouncement(ctx context.Context, id int, na NewAnnouncement) (Announcement, error) {
	ann, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	ann.Heading = na.Heading
	ann.Body = na.Body
	return svc.repo.UpdateAnnouncement(ctx, ann)
}

func (svc *Service) DeleteAnnouncement(ctx context.Context, id int) error {
	return svc.repo.DeleteAnnouncementByID(ctx, id)
}

func (svc *Service) CreateEvent(ctx context.Context, ne NewEvent) (Event, error) {
	return svc.repo.CreateEvent(ctx, Event{
		Name:        ne.Name,
		Description: ne.Description,
		EventDate:   ne.EventDate,
		EventPlace:  ne.EventPlace,
	})
}

func (svc *Service) QueryEvents(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryAllEvents(ctx)
}

func (svc *Service) UpdateEvent(ctx context.Context, id int, ne NewEvent) (Event, error) {
	evt, err := svc.repo.GetEventByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	evt.Name = ne.Name
	evt.Description = ne.Description
	evt.EventDate = ne.EventDate
	evt.EventPlace = ne.EventPlace
	return svc.repo.UpdateEvent(ctx, evt)
}

func (svc *Service) DeleteEvent(ctx context.Context, id int) error {
	return svc.repo.DeleteEventByID(ctx, id)
}
