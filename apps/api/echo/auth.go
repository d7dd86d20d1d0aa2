package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
)

type authApi struct {
	svc           *account.Service
	authenticator *auth.Authenticator
	validate      *validator.Validate
	logger        core.Logger
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authApi{
		svc:           opts.AccountSvc,
		authenticator: opts.Authenticator,
		validate:      opts.Validate,
		logger:        opts.Logger,
	}

	// un-authed endpoints; each portal gets its own credential namespace
	ag := g.Group("/admin")
	ag.POST("/login", api.adminLogin)
	ag.POST("/logout", api.logout(auth.RoleAdmin))
	ag.POST("/register", api.adminRegister)

	tg := g.Group("/teachers")
	tg.POST("/login", api.teacherLogin)
	tg.POST("/logout", api.logout(auth.RoleTeacher))
	tg.POST("/register", api.teacherRegister)

	sg := g.Group("/students")
	sg.POST("/login", api.studentLogin)
	sg.POST("/logout", api.logout(auth.RoleStudent))
	sg.POST("/register", api.studentRegister)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

// logIn issues a credential for the authenticated principal and sets it in
// the role's namespace cookie.
func (api *authApi) logIn(ctx echo.Context, principalID int, role auth.Role, profile auth.Profile) error {
	token, err := api.authenticator.IssueCredential(principalID, role, profile)
	if err != nil {
		return errors.Wrap(err, "issuing credential")
	}
	ctx.SetCookie(api.authenticator.Namespace(role).Cookie(token))
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Login successful"})
}

// rejectLogin collapses lookup and password failures into one response so
// probes cannot tell accounts apart. The distinct cause still gets logged.
func (api *authApi) rejectLogin(err error) error {
	cause := errors.Cause(err)
	if cause == account.ErrNotFound || cause == account.ErrBadPassword {
		api.logger.Debug("rejecting login: " + cause.Error())
		return errInvalidCredentials
	}
	return errors.Wrap(err, "authenticating")
}

func (api *authApi) adminLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	adm, err := api.svc.AuthenticateAdmin(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return api.rejectLogin(err)
	}
	return api.logIn(ctx, adm.ID, auth.RoleAdmin, auth.Profile{Username: adm.Username})
}

func (api *authApi) teacherLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.AuthenticateTeacher(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return api.rejectLogin(err)
	}
	return api.logIn(ctx, tch.ID, auth.RoleTeacher, auth.Profile{
		Username: tch.Username,
		Name:     tch.Name,
		Email:    tch.Email,
	})
}

func (api *authApi) studentLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.AuthenticateStudent(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return api.rejectLogin(err)
	}
	return api.logIn(ctx, std.ID, auth.RoleStudent, auth.Profile{
		Username: std.Username,
		Name:     std.FullName(),
		Email:    std.Email,
	})
}

// logout clears the role's cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (api *authApi) logout(role auth.Role) echo.HandlerFunc {
	ns := api.authenticator.Namespace(role)
	return func(ctx echo.Context) error {
		ctx.SetCookie(ns.Clear())
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
	}
}

func (api *authApi) adminRegister(ctx echo.Context) error {
	var data account.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	adm, err := api.svc.RegisterAdmin(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering admin")
	}
	return ctx.JSON(http.StatusCreated, adm)
}

func (api *authApi) teacherRegister(ctx echo.Context) error {
	var data account.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	tch, err := api.svc.RegisterTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *authApi) studentRegister(ctx echo.Context) error {
	var data account.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}
