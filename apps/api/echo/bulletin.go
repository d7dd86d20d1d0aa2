package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/bulletin"
)

type bulletinApi struct {
	svc      *bulletin.Service
	validate *validator.Validate
}

func registerBulletinAPI(g *echo.Group, opts *Options, adminAuth, anyAuth echo.MiddlewareFunc) {
	api := bulletinApi{
		svc:      opts.BulletinSvc,
		validate: opts.Validate,
	}

	ag := g.Group("/announcements")
	ag.GET("", api.queryAnnouncements, anyAuth)
	ag.POST("", api.createAnnouncement, adminAuth)
	ag.PUT("/:id", api.updateAnnouncement, adminAuth)
	ag.DELETE("/:id", api.destroyAnnouncement, adminAuth)

	eg := g.Group("/events")
	eg.GET("", api.queryEvents, anyAuth)
	eg.POST("", api.createEvent, adminAuth)
	eg.PUT("/:id", api.updateEvent, adminAuth)
	eg.DELETE("/:id", api.destroyEvent, adminAuth)
}

func (api *bulletinApi) queryAnnouncements(ctx echo.Context) error {
	announcements, err := api.svc.QueryAnnouncements(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if announcements == nil {
		announcements = []bulletin.Announcement{}
	}
	return ctx.JSON(http.StatusOK, announcements)
}

func (api *bulletinApi) createAnnouncement(ctx echo.Context) error {
	var data bulletin.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ann, err := api.svc.CreateAnnouncement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *bulletinApi) updateAnnouncement(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data bulletin.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ann, err := api.svc.UpdateAnnouncement(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *bulletinApi) destroyAnnouncement(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAnnouncement(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *bulletinApi) queryEvents(ctx echo.Context) error {
	events, err := api.svc.QueryEvents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []bulletin.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *bulletinApi) createEvent(ctx echo.Context) error {
	var data bulletin.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.CreateEvent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *bulletinApi) updateEvent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data bulletin.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.UpdateEvent(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *bulletinApi) destroyEvent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteEvent(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
