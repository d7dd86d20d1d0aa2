package course

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

type Course struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type Assignment struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Points   int       `json:"points"`
	DueDate  time.Time `json:"due_date"`
	CourseID int       `json:"course_id"`
}

// Lesson is a scheduled class period of a course, taught by a teacher.
type Lesson struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CourseID  int       `json:"course_id"`
	TeacherID int       `json:"teacher_id"`
}

type Review struct {
	ID        int       `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	StudentID int       `json:"student_id"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewCourse contains information needed to create or replace a Course.
type NewCourse struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewAssignment contains information needed to create or replace an Assignment.
type NewAssignment struct {
	Title    string    `json:"title" validate:"required"`
	Body     string    `json:"body" validate:"required"`
	Points   int       `json:"points" validate:"required,gt=0"`
	DueDate  time.Time `json:"due_date" validate:"required"`
	CourseID int       `json:"course_id" validate:"required"`
}

func (na *NewAssignment) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	na.Title = core.CleanString(na.Title)
	if err := validate.Struct(na); err != nil {
		return err
	}
	// the target course must exist
	if _, err := svc.GetCourse(ctx, na.CourseID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
	}
	return nil
}

// NewLesson contains information needed to create or replace a Lesson.
type NewLesson struct {
	Name      string    `json:"name" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	CourseID  int       `json:"course_id" validate:"required"`
	TeacherID int       `json:"teacher_id" validate:"required"`
}

func (nl *NewLesson) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nl.Name = core.CleanString(nl.Name)
	if err := validate.Struct(nl); err != nil {
		return err
	}
	if _, err := svc.GetCourse(ctx, nl.CourseID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
	}
	return nil
}

// NewReview contains information needed for a student to review a course.
type NewReview struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment"`
	CourseID int    `json:"course_id" validate:"required"`
}

func (nr *NewReview) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nr.Comment = core.CleanString(nr.Comment)
	if err := validate.Struct(nr); err != nil {
		return err
	}
	if _, err := svc.GetCourse(ctx, nr.CourseID); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
	}
	return nil
}
