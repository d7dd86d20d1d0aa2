package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/account"
)

type accountApi struct {
	svc      *account.Service
	validate *validator.Validate
}

func registerAccountAPI(g *echo.Group, opts *Options, adminAuth, teacherAuth, studentAuth echo.MiddlewareFunc) {
	api := accountApi{
		svc:      opts.AccountSvc,
		validate: opts.Validate,
	}

	// admin-side management
	tg := g.Group("/teachers", adminAuth)
	tg.GET("", api.queryTeachers)
	tg.DELETE("", api.destroyTeachers)
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher)

	sg := g.Group("/students", adminAuth)
	sg.GET("", api.queryStudents)
	sg.DELETE("", api.destroyStudents)
	sg.GET("/:id", api.retrieveStudent)
	sg.PUT("/:id", api.updateStudent)

	// self-service profiles; the id comes from the session claims
	g.GET("/teacher/profile", api.teacherProfile, teacherAuth)
	g.GET("/student/profile", api.studentProfile, studentAuth)
	g.PUT("/student/profile", api.updateStudentProfile, studentAuth)
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}

func (q DestroyMultipleRequest) ids() []int {
	ids := make([]int, 0, len(q.IDs))
	for _, raw := range q.IDs {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Teachers

func (api *accountApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []account.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *accountApi) retrieveTeacher(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacherByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *accountApi) updateTeacher(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	orig, err := api.svc.GetTeacherByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data account.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, orig, api.svc); err != nil {
		return err
	}

	tch, err := api.svc.UpdateTeacher(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *accountApi) destroyTeachers(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if ids := query.ids(); len(ids) > 0 {
		if err := api.svc.DeleteTeachers(ctx.Request().Context(), ids...); err != nil {
			return errors.Wrap(err, "deleting teachers")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *accountApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []account.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *accountApi) retrieveStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *accountApi) updateStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	return api.applyStudentProfileUpdate(ctx, id)
}

func (api *accountApi) destroyStudents(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if ids := query.ids(); len(ids) > 0 {
		if err := api.svc.DeleteStudents(ctx.Request().Context(), ids...); err != nil {
			return errors.Wrap(err, "deleting students")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Self-service

func (api *accountApi) teacherProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	tch, err := api.svc.GetTeacherByID(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *accountApi) studentProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), claims.PrincipalID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *accountApi) updateStudentProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.applyStudentProfileUpdate(ctx, claims.PrincipalID())
}

func (api *accountApi) applyStudentProfileUpdate(ctx echo.Context, id int) error {
	orig, err := api.svc.GetStudentByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data account.UpdateStudentProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudentProfile")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, orig, api.svc); err != nil {
		return err
	}

	std, err := api.svc.UpdateStudentProfile(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student profile")
	}
	return ctx.JSON(http.StatusOK, std)
}
