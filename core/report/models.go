package report

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

// Report is a student-filed complaint or issue report. Deletion is soft:
// deleted reports stay in the table but disappear from listings.
type Report struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	Title       string    `json:"title"`
	Body        string    `json:"report"`
	TeacherName string    `json:"teacher_name,omitempty"`
	CourseName  string    `json:"course_name,omitempty"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewReport contains information needed to file or amend a Report.
type NewReport struct {
	Title       string `json:"title" validate:"required"`
	Body        string `json:"report" validate:"required"`
	TeacherName string `json:"teacher_name"`
	CourseName  string `json:"course_name"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.TeacherName = core.CleanString(nr.TeacherName)
	nr.CourseName = core.CleanString(nr.CourseName)
	return validate.Struct(nr)
}
