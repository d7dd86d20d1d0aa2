package account

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasahq/darasa/core"
)

// Admin is the back-office principal. It carries no profile beyond its
// credentials.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

type Teacher struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Designation  string    `json:"designation"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t *Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(t.PasswordHash, []byte(pwd))
}

type Student struct {
	ID               int       `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Gender           string    `json:"gender"`
	PresentAddress   string    `json:"present_address"`
	PermanentAddress string    `json:"permanent_address"`
	PasswordHash     []byte    `json:"-"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewAdmin contains information needed to create a new Admin.
type NewAdmin struct {
	Username        string `json:"username" validate:"required,min=6,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewAdmin) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	na.Username = core.CleanString(na.Username, true /* lower */)
	if err := validate.Struct(na); err != nil {
		return err
	}
	if err := checkPasswordPolicy(na.Password, na.Username); err != nil {
		return err
	}
	return svc.checkAdminUniqueness(ctx, na.Username)
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=6,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Designation     string `json:"designation"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Username = core.CleanString(nt.Username, true /* lower */)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	if err := checkPasswordPolicy(nt.Password, nt.Username, nt.Name, nt.Email); err != nil {
		return err
	}
	return svc.checkTeacherUniqueness(ctx, nt.Username, nt.Email)
}

// UpdateTeacher defines what information may be provided to modify an
// existing Teacher. Zero-valued fields keep their current value.
type UpdateTeacher struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
}

func (u *UpdateTeacher) Validate(ctx context.Context, validate *validator.Validate, orig Teacher, svc *Service) error {
	u.Name = core.CleanString(u.Name)
	u.Email = core.CleanString(u.Email, true /* lower */)
	if u.Name == "" {
		u.Name = orig.Name
	}
	if u.Email == "" {
		u.Email = orig.Email
	}
	if err := validate.Struct(u); err != nil {
		return err
	}
	if u.Email != orig.Email {
		return svc.checkTeacherUniqueness(ctx, "", u.Email, orig)
	}
	return nil
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name"`
	Username         string `json:"username" validate:"required,min=6,alphanum_"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone"`
	Gender           string `json:"gender"`
	PresentAddress   string `json:"present_address"`
	PermanentAddress string `json:"permanent_address"`
	Password         string `json:"password" validate:"required"`
	PasswordConfirm  string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := checkPasswordPolicy(ns.Password, ns.Username, ns.FirstName, ns.LastName, ns.Email); err != nil {
		return err
	}
	return svc.checkStudentUniqueness(ctx, ns.Username, ns.Email)
}

// UpdateStudentProfile defines the profile fields a student (or an admin on
// their behalf) may modify. Credentials are not updatable through it.
type UpdateStudentProfile struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	Gender           string `json:"gender"`
	PresentAddress   string `json:"present_address"`
	PermanentAddress string `json:"permanent_address"`
}

func (up *UpdateStudentProfile) Validate(ctx context.Context, validate *validator.Validate, orig Student, svc *Service) error {
	up.FirstName = core.CleanString(up.FirstName)
	up.LastName = core.CleanString(up.LastName)
	up.Email = core.CleanString(up.Email, true /* lower */)
	if up.FirstName == "" {
		up.FirstName = orig.FirstName
	}
	if up.Email == "" {
		up.Email = orig.Email
	}
	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.Email != orig.Email {
		return svc.checkStudentUniqueness(ctx, "", up.Email, orig)
	}
	return nil
}
