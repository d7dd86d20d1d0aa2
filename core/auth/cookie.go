package auth

import (
	"net/http"
)

// Cookie names, one per credential namespace. Distinct names let e.g. an
// admin and a student session coexist in the same browser.
const (
	adminCookieName   = "darasa_admin_token"
	teacherCookieName = "darasa_teacher_token"
	studentCookieName = "darasa_student_token"
)

// Namespace is the per-role cookie a session credential travels in.
type Namespace struct {
	role   Role
	name   string
	maxAge int
	secure bool
}

// Namespace returns the credential namespace for a role.
func (a *Authenticator) Namespace(role Role) Namespace {
	ns := Namespace{
		role:   role,
		maxAge: int(a.lifetime.Seconds()),
		secure: a.secure,
	}
	switch role {
	case RoleAdmin:
		ns.name = adminCookieName
	case RoleTeacher:
		ns.name = teacherCookieName
	default:
		ns.name = studentCookieName
	}
	return ns
}

func (ns Namespace) Role() Role   { return ns.role }
func (ns Namespace) Name() string { return ns.name }

// Cookie wraps a freshly issued credential in the namespace's HTTP-only,
// path-scoped cookie.
func (ns Namespace) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     ns.name,
		Value:    token,
		Path:     "/",
		MaxAge:   ns.maxAge,
		HttpOnly: true,
		Secure:   ns.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Clear expires the namespace's cookie. This is the only revocation
// mechanism: the token itself stays valid until natural expiry.
func (ns Namespace) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     ns.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ns.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Token extracts the raw credential from a request's namespace cookie.
func (ns Namespace) Token(r *http.Request) (string, error) {
	cookie, err := r.Cookie(ns.name)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingCredential
	}
	return cookie.Value, nil
}
