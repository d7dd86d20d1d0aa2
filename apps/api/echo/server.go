// Package echoapi exposes the Darasa API over HTTP with echo.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/bulletin"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/notify"
	"github.com/darasahq/darasa/core/report"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
		// Shutdown receives a SIGTERM when an unrecoverable error is caught.
		Shutdown chan os.Signal

		Authenticator *auth.Authenticator
		Validate      *validator.Validate
		Translator    ut.Translator

		AccountSvc  *account.Service
		CourseSvc   *course.Service
		EnrollSvc   *enroll.Service
		BulletinSvc *bulletin.Service
		ReportSvc   *report.Service
		NotifySvc   *notify.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if conf.IsProd() {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")

	adminAuth := requireRole(s.opts.Authenticator, s.opts.Logger, auth.RoleAdmin)
	teacherAuth := requireRole(s.opts.Authenticator, s.opts.Logger, auth.RoleTeacher)
	studentAuth := requireRole(s.opts.Authenticator, s.opts.Logger, auth.RoleStudent)
	anyAuth := anyAuthenticated(s.opts.Authenticator, s.opts.Logger)

	registerAuthAPI(v1, s.opts)
	registerAccountAPI(v1, s.opts, adminAuth, teacherAuth, studentAuth)
	registerCourseAPI(v1, s.opts, adminAuth, studentAuth, anyAuth)
	registerEnrollAPI(v1, s.opts, adminAuth, studentAuth)
	registerBulletinAPI(v1, s.opts, adminAuth, anyAuth)
	registerReportAPI(v1, s.opts, studentAuth, anyAuth)
}

// signalShutdown asks main to gracefully stop the server.
func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Addr())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
