package enroll

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

// Enrollment statuses.
const (
	StatusPending   = "Pending"
	StatusActive    = "Active"
	StatusCompleted = "Completed"
)

type Enrollment struct {
	ID          int        `json:"id"`
	StudentID   int        `json:"student_id"`
	CourseID    int        `json:"course_id"`
	Status      string     `json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"` // UTC
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Transaction is a payment record tied to an enrollment. The reference is a
// generated identifier handed back to the payer.
type Transaction struct {
	ID            int       `json:"id"`
	Reference     string    `json:"reference"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	EnrollmentID  int       `json:"enrollment_id"`
	StudentID     int       `json:"student_id"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// NewEnrollment is the admin-side create/replace payload.
type NewEnrollment struct {
	StudentID   int        `json:"student_id" validate:"required"`
	CourseID    int        `json:"course_id" validate:"required"`
	Status      string     `json:"status" validate:"required,oneof=Pending Active Completed"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	if ne.EnrolledAt.IsZero() {
		ne.EnrolledAt = time.Now().UTC()
	}
	return validate.Struct(ne)
}

// SelfEnrollment is the student-side payload; the student id comes from the
// session claims, never the body.
type SelfEnrollment struct {
	CourseID int `json:"course_id" validate:"required"`
}

func (se *SelfEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(se)
}

// NewTransaction records a payment against an enrollment.
type NewTransaction struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	EnrollmentID  int     `json:"enrollment_id" validate:"required"`
	StudentID     int     `json:"student_id"`
}

func (nt *NewTransaction) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nt.PaymentMethod = core.CleanString(nt.PaymentMethod)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	if _, err := svc.GetEnrollment(ctx, nt.EnrollmentID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "enrollment_id", Error: err.Error()})
	}
	return nil
}
