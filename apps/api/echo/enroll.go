package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
)

type enrollApi struct {
	svc        *enroll.Service
	accountSvc *account.Service
	validate   *validator.Validate
}

func registerEnrollAPI(g *echo.Group, opts *Options, adminAuth, studentAuth echo.MiddlewareFunc) {
	api := enrollApi{
		svc:        opts.EnrollSvc,
		accountSvc: opts.AccountSvc,
		validate:   opts.Validate,
	}

	eg := g.Group("/enrollments")
	eg.POST("/self", api.selfEnroll, studentAuth)
	eg.GET("", api.query, adminAuth)
	eg.POST("", api.create, adminAuth)
	eg.GET("/:id", api.retrieve, adminAuth)
	eg.PUT("/:id", api.update, adminAuth)
	eg.DELETE("/:id", api.destroy, adminAuth)

	tg := g.Group("/transactions")
	tg.GET("", api.queryTransactions, adminAuth)
	tg.POST("", api.createTransaction, adminAuth)
	tg.PUT("/:id", api.updateTransaction, adminAuth)
	tg.DELETE("/:id", api.destroyTransaction, adminAuth)

	// student-side views
	g.GET("/student/completed-courses", api.completedCourses, studentAuth)
	g.GET("/student/transactions", api.studentTransactions, studentAuth)
	g.POST("/student/transactions", api.recordPayment, studentAuth)
}

// contextStudent resolves the authenticated student from the session claims.
func (api *enrollApi) contextStudent(ctx echo.Context) (account.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return account.Student{}, errors.Wrap(err, "getting context claims")
	}
	return api.accountSvc.GetStudentByID(ctx.Request().Context(), claims.PrincipalID())
}

func (api *enrollApi) selfEnroll(ctx echo.Context) error {
	std, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}

	var data enroll.SelfEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelfEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.SelfEnroll(ctx.Request().Context(), std, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollApi) query(ctx echo.Context) error {
	enrollments, err := api.svc.QueryEnrollments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []enroll.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollApi) create(ctx echo.Context) error {
	var data enroll.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.CreateEnrollment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	enr, err := api.svc.GetEnrollment(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data enroll.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.UpdateEnrollment(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteEnrollment(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollApi) completedCourses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	courses, err := api.svc.QueryCompletedCourses(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return errors.Wrap(err, "querying completed courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

// Transactions

func (api *enrollApi) queryTransactions(ctx echo.Context) error {
	transactions, err := api.svc.QueryTransactions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}
	if transactions == nil {
		transactions = []enroll.Transaction{}
	}
	return ctx.JSON(http.StatusOK, transactions)
}

func (api *enrollApi) createTransaction(ctx echo.Context) error {
	var data enroll.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	trx, err := api.svc.CreateTransaction(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating transaction")
	}
	return ctx.JSON(http.StatusCreated, trx)
}

func (api *enrollApi) updateTransaction(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data enroll.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	trx, err := api.svc.UpdateTransaction(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, trx)
}

func (api *enrollApi) destroyTransaction(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTransaction(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting transaction")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollApi) studentTransactions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	transactions, err := api.svc.QueryStudentTransactions(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return errors.Wrap(err, "querying student transactions")
	}
	if transactions == nil {
		transactions = []enroll.Transaction{}
	}
	return ctx.JSON(http.StatusOK, transactions)
}

func (api *enrollApi) recordPayment(ctx echo.Context) error {
	std, err := api.contextStudent(ctx)
	if err != nil {
		return err
	}

	var data enroll.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	trx, err := api.svc.RecordPayment(ctx.Request().Context(), std, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, trx)
}
