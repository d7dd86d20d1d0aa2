package account

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound       = errors.New("account not found")
	ErrBadPassword    = errors.New("password mismatch")
	ErrUsernameExists = errors.New("an account with this username already exists")
	ErrEmailExists    = errors.New("an account with this email already exists")
)

type (
	AdminRepository interface {
		CheckAdminUniqueness(ctx context.Context, username string, excluded ...Admin) error
		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		QueryAllAdmins(ctx context.Context) ([]Admin, error)
		GetAdminByID(ctx context.Context, id int) (Admin, error)
		GetAdminByUsername(ctx context.Context, username string) (Admin, error)
		UpdateAdmin(ctx context.Context, adm Admin) (Admin, error)
	}

	TeacherRepository interface {
		CheckTeacherUniqueness(ctx context.Context, username, email string, excluded ...Teacher) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id int) (Teacher, error)
		GetTeacherByUsername(ctx context.Context, username string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...int) error
	}

	StudentRepository interface {
		CheckStudentUniqueness(ctx context.Context, username, email string, excluded ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		GetStudentByUsername(ctx context.Context, username string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...int) error
	}

	Service struct {
		conf     *core.Config
		admins   AdminRepository
		teachers TeacherRepository
		students StudentRepository
		mailSvc  core.EmailService
	}
)

func NewService(
	conf *core.Config,
	admins AdminRepository,
	teachers TeacherRepository,
	students StudentRepository,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		conf:     conf,
		admins:   admins,
		teachers: teachers,
		students: students,
		mailSvc:  mailSvc,
	}
}

func uniquenessError(err error) error {
	var field string
	switch err {
	case ErrUsernameExists:
		field = "username"
	case ErrEmailExists:
		field = "email"
	default:
		return err
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

func (svc *Service) checkAdminUniqueness(ctx context.Context, uname string, excl ...Admin) error {
	if err := svc.admins.CheckAdminUniqueness(ctx, uname, excl...); err != nil {
		return uniquenessError(err)
	}
	return nil
}

func (svc *Service) checkTeacherUniqueness(ctx context.Context, uname, email string, excl ...Teacher) error {
	if err := svc.teachers.CheckTeacherUniqueness(ctx, uname, email, excl...); err != nil {
		return uniquenessError(err)
	}
	return nil
}

func (svc *Service) checkStudentUniqueness(ctx context.Context, uname, email string, excl ...Student) error {
	if err := svc.students.CheckStudentUniqueness(ctx, uname, email, excl...); err != nil {
		return uniquenessError(err)
	}
	return nil
}

// Registration

func (svc *Service) RegisterAdmin(ctx context.Context, na NewAdmin) (Admin, error) {
	adm := Admin{
		Username:  na.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := adm.SetPassword(na.Password); err != nil {
		return Admin{}, errors.Wrap(err, "hashing password")
	}
	return svc.admins.CreateAdmin(ctx, adm)
}

func (svc *Service) RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		Name:        nt.Name,
		Username:    nt.Username,
		Email:       nt.Email,
		Phone:       nt.Phone,
		Designation: nt.Designation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tch.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	return svc.teachers.CreateTeacher(ctx, tch)
}

func (svc *Service) RegisterStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		FirstName:        ns.FirstName,
		LastName:         ns.LastName,
		Username:         ns.Username,
		Email:            ns.Email,
		Phone:            ns.Phone,
		Gender:           ns.Gender,
		PresentAddress:   ns.PresentAddress,
		PermanentAddress: ns.PermanentAddress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}
	std, err := svc.students.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeMail(std)
	return std, nil
}

func (svc *Service) sendWelcomeMail(std Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: std.FullName(), Address: std.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{std.FullName()},
	})
}

// Authentication. Lookup and password failures stay distinct here so the
// API layer can log the cause; both must surface to clients as the same
// invalid-credentials response.

func (svc *Service) AuthenticateAdmin(ctx context.Context, uname, pwd string) (Admin, error) {
	adm, err := svc.admins.GetAdminByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return Admin{}, err
	}
	if err := adm.CheckPassword(pwd); err != nil {
		return Admin{}, ErrBadPassword
	}
	return adm, nil
}

func (svc *Service) AuthenticateTeacher(ctx context.Context, uname, pwd string) (Teacher, error) {
	tch, err := svc.teachers.GetTeacherByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return Teacher{}, err
	}
	if err := tch.CheckPassword(pwd); err != nil {
		return Teacher{}, ErrBadPassword
	}
	return tch, nil
}

func (svc *Service) AuthenticateStudent(ctx context.Context, uname, pwd string) (Student, error) {
	std, err := svc.students.GetStudentByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return Student{}, err
	}
	if err := std.CheckPassword(pwd); err != nil {
		return Student{}, ErrBadPassword
	}
	return std, nil
}

// Admin-side management

func (svc *Service) QueryAdmins(ctx context.Context) ([]Admin, error) {
	return svc.admins.QueryAllAdmins(ctx)
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.teachers.QueryAllTeachers(ctx)
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.students.QueryAllStudents(ctx)
}

func (svc *Service) GetAdminByID(ctx context.Context, id int) (Admin, error) {
	return svc.admins.GetAdminByID(ctx, id)
}

func (svc *Service) GetAdminByUsername(ctx context.Context, uname string) (Admin, error) {
	return svc.admins.GetAdminByUsername(ctx, uname)
}

func (svc *Service) GetTeacherByID(ctx context.Context, id int) (Teacher, error) {
	return svc.teachers.GetTeacherByID(ctx, id)
}

func (svc *Service) GetStudentByID(ctx context.Context, id int) (Student, error) {
	return svc.students.GetStudentByID(ctx, id)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id int, data UpdateTeacher) (Teacher, error) {
	tch, err := svc.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	tch.Name = data.Name
	tch.Email = data.Email
	tch.Phone = data.Phone
	tch.Designation = data.Designation
	tch.UpdatedAt = time.Now().UTC()
	return svc.teachers.UpdateTeacher(ctx, tch)
}

func (svc *Service) UpdateStudentProfile(ctx context.Context, id int, data UpdateStudentProfile) (Student, error) {
	std, err := svc.students.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.FirstName = data.FirstName
	std.LastName = data.LastName
	std.Email = data.Email
	std.Phone = data.Phone
	std.Gender = data.Gender
	std.PresentAddress = data.PresentAddress
	std.PermanentAddress = data.PermanentAddress
	std.UpdatedAt = time.Now().UTC()
	return svc.students.UpdateStudent(ctx, std)
}

func (svc *Service) DeleteTeachers(ctx context.Context, ids ...int) error {
	return svc.teachers.DeleteTeachersByID(ctx, ids...)
}

func (svc *Service) DeleteStudents(ctx context.Context, ids ...int) error {
	return svc.students.DeleteStudentsByID(ctx, ids...)
}

// ResetPassword overwrites the password of the principal identified by
// role-qualified username. Used by the admin CLI.
func (svc *Service) ResetPassword(ctx context.Context, role, uname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	if err := checkPasswordPolicy(pwd, uname); err != nil {
		return err
	}
	switch role {
	case "admin":
		adm, err := svc.admins.GetAdminByUsername(ctx, uname)
		if err != nil {
			return err
		}
		if err := adm.SetPassword(pwd); err != nil {
			return err
		}
		_, err = svc.admins.UpdateAdmin(ctx, adm)
		return err
	case "teacher":
		tch, err := svc.teachers.GetTeacherByUsername(ctx, uname)
		if err != nil {
			return err
		}
		if err := tch.SetPassword(pwd); err != nil {
			return err
		}
		_, err = svc.teachers.UpdateTeacher(ctx, tch)
		return err
	case "student":
		std, err := svc.students.GetStudentByUsername(ctx, uname)
		if err != nil {
			return err
		}
		if err := std.SetPassword(pwd); err != nil {
			return err
		}
		_, err = svc.students.UpdateStudent(ctx, std)
		return err
	}
	return fmt.Errorf("unknown role %q", role)
}
