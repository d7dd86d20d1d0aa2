package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/notify"
	"github.com/darasahq/darasa/core/report"
)

type reportApi struct {
	svc        *report.Service
	notifySvc  *notify.Service
	accountSvc *account.Service
	validate   *validator.Validate
}

func registerReportAPI(g *echo.Group, opts *Options, studentAuth, anyAuth echo.MiddlewareFunc) {
	api := reportApi{
		svc:        opts.ReportSvc,
		notifySvc:  opts.NotifySvc,
		accountSvc: opts.AccountSvc,
		validate:   opts.Validate,
	}

	rg := g.Group("/reports", studentAuth)
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)

	ng := g.Group("/notifications", anyAuth)
	ng.GET("", api.queryNotifications)
	ng.PUT("/:id/read", api.markNotificationRead)
}

func (api *reportApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	std, err := api.accountSvc.GetStudentByID(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return err
	}

	var data report.NewReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReport")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rpt, err := api.svc.Create(ctx.Request().Context(), std, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rpt)
}

func (api *reportApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reports, err := api.svc.QueryForStudent(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return errors.Wrap(err, "querying reports")
	}
	if reports == nil {
		reports = []report.Report{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data report.NewReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReport")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rpt, err := api.svc.Update(ctx.Request().Context(), id, claims.PrincipalID(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.svc.Delete(ctx.Request().Context(), id, claims.PrincipalID()); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Notifications

func (api *reportApi) queryNotifications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	notifications, err := api.notifySvc.QueryUnread(ctx.Request().Context(), claims.PrincipalID(), claims.Role)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	return ctx.JSON(http.StatusOK, notifications)
}

func (api *reportApi) markNotificationRead(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	n, err := api.notifySvc.MarkRead(ctx.Request().Context(), id, claims.PrincipalID(), claims.Role)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}
