package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/auth"
)

const contextClaimsKey = "claims"

var errClaimsNotFoundInCtx = errors.New("claims not found in echo.Context")

// requireRole guards a route group behind one credential namespace: the
// role's cookie must hold a verifiable token carrying exactly that role.
// Every failure kind is logged distinctly but answered with the same 401.
func requireRole(a *auth.Authenticator, logger core.Logger, role auth.Role) echo.MiddlewareFunc {
	ns := a.Namespace(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := ns.Token(ctx.Request())
			if err != nil {
				logger.Debug("rejecting request: " + err.Error())
				return errUnauthorized
			}
			claims, err := a.VerifyCredential(token)
			if err != nil {
				logger.Debug("rejecting credential: " + err.Error())
				return errUnauthorized
			}
			if err := a.Authorize(claims, role); err != nil {
				logger.Debug("rejecting credential: " + err.Error())
				return errUnauthorized
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// anyAuthenticated admits any principal holding a valid credential in any
// of the role namespaces.
func anyAuthenticated(a *auth.Authenticator, logger core.Logger) echo.MiddlewareFunc {
	namespaces := []auth.Namespace{
		a.Namespace(auth.RoleAdmin),
		a.Namespace(auth.RoleTeacher),
		a.Namespace(auth.RoleStudent),
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			for _, ns := range namespaces {
				token, err := ns.Token(ctx.Request())
				if err != nil {
					continue
				}
				claims, err := a.VerifyCredential(token)
				if err != nil {
					logger.Debug("rejecting credential: " + err.Error())
					continue
				}
				if err := a.Authorize(claims, ns.Role()); err != nil {
					logger.Debug("rejecting credential: " + err.Error())
					continue
				}
				ctx.Set(contextClaimsKey, claims)
				return next(ctx)
			}
			return errUnauthorized
		}
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(auth.Claims); ok {
		return claims, nil
	}
	return auth.Claims{}, errClaimsNotFoundInCtx
}
