// Package auth issues, verifies and authorizes the signed session
// credentials protecting every API route. Tokens are stateless: the only
// revocation mechanism is clearing the client-side cookie, so a credential
// stays cryptographically valid until its expiry.
package auth

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// Role is the credential namespace a principal authenticates under.
// Roles are disjoint: an admin token grants no teacher or student access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var allRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// ParseRole validates a raw role claim at the verification boundary.
func ParseRole(s string) (Role, error) {
	for _, r := range allRoles {
		if s == string(r) {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// Authentication failure kinds. They are distinguishable in logs but must
// all collapse to the same generic 401 response at the handler boundary.
var (
	ErrMissingCredential = errors.New("no session credential presented")
	ErrInvalidSignature  = errors.New("session credential signature invalid")
	ErrExpired           = errors.New("session credential expired")
	ErrUnknownRole       = errors.New("unrecognized role claim")
	ErrWrongRole         = errors.New("credential role does not match required role")

	errMissingSecret = errors.New("refusing to construct authenticator without a secret key")
)

// Claims represents the authorization claims transmitted via a session JWT.
// Optional profile fields are denormalized at issuance so downstream pages
// can render without an extra lookup.
type Claims struct {
	jwt.StandardClaims
	Role     Role   `json:"role"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PrincipalID decodes the numeric principal id from the subject claim.
func (c Claims) PrincipalID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// Profile carries the optional denormalized claims embedded at issuance.
type Profile struct {
	Username string
	Name     string
	Email    string
}

// Authenticator mints and verifies session credentials with a single
// process-wide secret. It is immutable after construction and safe for
// arbitrary concurrent use: verification is pure computation over the
// token string and the clock.
type Authenticator struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	secure   bool
}

// NewAuthenticator builds the session authenticator from the injected
// configuration. It fails closed on an empty secret.
func NewAuthenticator(conf *core.Config) (*Authenticator, error) {
	if len(conf.SecretKey) == 0 {
		return nil, errMissingSecret
	}
	return &Authenticator{
		secret:   conf.SecretKey,
		lifetime: conf.Server.JWTExpirationDelta,
		issuer:   conf.AppName,
		secure:   conf.IsProd(),
	}, nil
}

// Lifetime is the credential validity window from issuance.
func (a *Authenticator) Lifetime() time.Duration { return a.lifetime }

// IssueCredential constructs a signed, time-bounded token embedding the
// principal's identity and role. The caller is responsible for placing it
// in the role's cookie.
func (a *Authenticator) IssueCredential(principalID int, role Role, profile ...Profile) (string, error) {
	now := jwt.TimeFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.issuer,
			Subject:   strconv.Itoa(principalID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.lifetime).Unix(),
		},
		Role: role,
	}
	if len(profile) > 0 {
		claims.Username = profile[0].Username
		claims.Name = profile[0].Name
		claims.Email = profile[0].Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing credential")
	}
	return ss, nil
}

// VerifyCredential checks signature and expiry and decodes the claims.
// Expiry is strictly checked on every call, not just at issuance.
func (a *Authenticator) VerifyCredential(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrMissingCredential
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return a.secret, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return Claims{}, ErrExpired
		}
		// malformed, unverifiable or tampered-with: all signature-class failures
		return Claims{}, ErrInvalidSignature
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSignature
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return Claims{}, err
	}
	return *claims, nil
}

// Authorize checks decoded claims against the role required by a route.
// An empty required role means "any authenticated principal". There is no
// role hierarchy: the match is exact.
func (a *Authenticator) Authorize(claims Claims, required Role) error {
	if required == "" {
		return nil
	}
	if claims.Role != required {
		return ErrWrongRole
	}
	return nil
}
