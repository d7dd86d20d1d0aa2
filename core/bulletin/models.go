package bulletin

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

type Announcement struct {
	ID        int       `json:"id"`
	Heading   string    `json:"heading"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	EventPlace  string    `json:"event_place"`
}

// NewAnnouncement contains information needed to create or replace an
// Announcement.
type NewAnnouncement struct {
	Heading string `json:"heading" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Heading = core.CleanString(na.Heading)
	na.Body = core.CleanString(na.Body)
	return validate.Struct(na)
}

// NewEvent contains information needed to create or replace an Event.
type NewEvent struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	EventPlace  string    `json:"event_place" validate:"required"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.EventPlace = core.CleanString(ne.EventPlace)
	return validate.Struct(ne)
}
