package enroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/notify"
)

var (
	ErrNotFound            = errors.New("enrollment not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryAllEnrollments(ctx context.Context) ([]Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id int) (Enrollment, error)
		// QueryStudentEnrollments filters by student and optionally by status.
		QueryStudentEnrollments(ctx context.Context, studentID int, status string) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		DeleteEnrollmentByID(ctx context.Context, id int) error

		CreateTransaction(ctx context.Context, trx Transaction) (Transaction, error)
		QueryAllTransactions(ctx context.Context) ([]Transaction, error)
		QueryStudentTransactions(ctx context.Context, studentID int) ([]Transaction, error)
		GetTransactionByID(ctx context.Context, id int) (Transaction, error)
		UpdateTransaction(ctx context.Context, trx Transaction) (Transaction, error)
		DeleteTransactionByID(ctx context.Context, id int) error
	}

	Service struct {
		repo      Repository
		courseSvc *course.Service
		notifSvc  *notify.Service
		admins    account.AdminRepository
	}
)

func NewService(repo Repository, courseSvc *course.Service, notifSvc *notify.Service, admins account.AdminRepository) *Service {
	return &Service{
		repo:      repo,
		courseSvc: courseSvc,
		notifSvc:  notifSvc,
		admins:    admins,
	}
}

// notifyAdmins records a notification in every admin's feed. Fan-out
// failures never fail the triggering write.
func (svc *Service) notifyAdmins(ctx context.Context, message string) {
	admins, err := svc.admins.QueryAllAdmins(ctx)
	if err != nil {
		return
	}
	for _, adm := range admins {
		_ = svc.notifSvc.Notify(ctx, adm.ID, auth.RoleAdmin, message)
	}
}

// SelfEnroll creates a pending enrollment for the authenticated student and
// notifies the admins.
func (svc *Service) SelfEnroll(ctx context.Context, std account.Student, se SelfEnrollment) (Enrollment, error) {
	crs, err := svc.courseSvc.GetCourse(ctx, se.CourseID)
	if err != nil {
		return Enrollment{}, err
	}

	enr, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:  std.ID,
		CourseID:   crs.ID,
		Status:     StatusPending,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}

	svc.notifyAdmins(ctx, fmt.Sprintf("Student %q has enrolled in course %q.", std.Username, crs.Title))
	return enr, nil
}

func (svc *Service) CreateEnrollment(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	if _, err := svc.courseSvc.GetCourse(ctx, ne.CourseID); err != nil {
		return Enrollment{}, err
	}
	return svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:   ne.StudentID,
		CourseID:    ne.CourseID,
		Status:      ne.Status,
		EnrolledAt:  ne.EnrolledAt,
		CompletedAt: ne.CompletedAt,
	})
}

func (svc *Service) QueryEnrollments(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments(ctx)
}

func (svc *Service) GetEnrollment(ctx context.Context, id int) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

// QueryCompletedCourses lists the courses a student has completed.
func (svc *Service) QueryCompletedCourses(ctx context.Context, studentID int) ([]course.Course, error) {
	enrs, err := svc.repo.QueryStudentEnrollments(ctx, studentID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(enrs))
	for _, enr := range enrs {
		crs, err := svc.courseSvc.GetCourse(ctx, enr.CourseID)
		if err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				continue // course removed after completion
			}
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (svc *Service) UpdateEnrollment(ctx context.Context, id int, ne NewEnrollment) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	enr.StudentID = ne.StudentID
	enr.CourseID = ne.CourseID
	enr.Status = ne.Status
	enr.EnrolledAt = ne.EnrolledAt
	enr.CompletedAt = ne.CompletedAt
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *Service) DeleteEnrollment(ctx context.Context, id int) error {
	return svc.repo.DeleteEnrollmentByID(ctx, id)
}

// RecordPayment creates a payment record for a student and notifies the
// admins. The reference identifier is generated server-side.
func (svc *Service) RecordPayment(ctx context.Context, std account.Student, nt NewTransaction) (Transaction, error) {
	trx, err := svc.repo.CreateTransaction(ctx, Transaction{
		Reference:     uuid.New().String(),
		Amount:        nt.Amount,
		PaymentMethod: nt.PaymentMethod,
		EnrollmentID:  nt.EnrollmentID,
		StudentID:     std.ID,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return Transaction{}, errors.Wrap(err, "creating transaction")
	}

	svc.notifyAdmins(ctx, fmt.Sprintf("Student %q has recorded a payment of %.2f for enrollment %d.",
		std.Username, trx.Amount, trx.EnrollmentID))
	return trx, nil
}

// CreateTransaction is the admin-side payment record create.
func (svc *Service) CreateTransaction(ctx context.Context, nt NewTransaction) (Transaction, error) {
	return svc.repo.CreateTransaction(ctx, Transaction{
		Reference:     uuid.New().String(),
		Amount:        nt.Amount,
		PaymentMethod: nt.PaymentMethod,
		EnrollmentID:  nt.EnrollmentID,
		StudentID:     nt.StudentID,
		CreatedAt:     time.Now().UTC(),
	})
}

func (svc *Service) QueryTransactions(ctx context.Context) ([]Transaction, error) {
	return svc.repo.QueryAllTransactions(ctx)
}

func (svc *Service) QueryStudentTransactions(ctx context.Context, studentID int) ([]Transaction, error) {
	return svc.repo.QueryStudentTransactions(ctx, studentID)
}

func (svc *Service) UpdateTransaction(ctx context.Context, id int, nt NewTransaction) (Transaction, error) {
	trx, err := svc.repo.GetTransactionByID(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	trx.Amount = nt.Amount
	trx.PaymentMethod = nt.PaymentMethod
	trx.EnrollmentID = nt.EnrollmentID
	if nt.StudentID != 0 {
		trx.StudentID = nt.StudentID
	}
	return svc.repo.UpdateTransaction(ctx, trx)
}

func (svc *Service) DeleteTransaction(ctx context.Context, id int) error {
	return svc.repo.DeleteTransactionByID(ctx, id)
}
