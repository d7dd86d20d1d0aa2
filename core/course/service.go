package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		// QueryCourses returns the whole catalog, optionally ordered.
		QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourseByID(ctx context.Context, id int) error

		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		QueryAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id int) (Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignmentByID(ctx context.Context, id int) error

		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		// QueryCourseLessons lists a course's lessons in schedule order.
		QueryCourseLessons(ctx context.Context, courseID int) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id int) (Lesson, error)
		UpdateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		DeleteLessonByID(ctx context.Context, id int) error

		CreateReview(ctx context.Context, rev Review) (Review, error)
		QueryCourseReviews(ctx context.Context, courseID int) ([]Review, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	crs := Course{
		Title:       nc.Title,
		Description: nc.Description,
		Price:       nc.Price,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, ordering...)
}

func (svc *Service) GetCourse(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) UpdateCourse(ctx context.Context, id int, nc NewCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	crs.Title = nc.Title
	crs.Description = nc.Description
	crs.Price = nc.Price
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) DeleteCourse(ctx context.Context, id int) error {
	return svc.repo.DeleteCourseByID(ctx, id)
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	asg := Assignment{
		Title:    na.Title,
		Body:     na.Body,
		Points:   na.Points,
		DueDate:  na.DueDate,
		CourseID: na.CourseID,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) QueryAssignments(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx)
}

func (svc *Service) UpdateAssignment(ctx context.Context, id int, na NewAssignment) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	asg.Title = na.Title
	asg.Body = na.Body
	asg.Points = na.Points
	asg.DueDate = na.DueDate
	asg.CourseID = na.CourseID
	return svc.repo.UpdateAssignment(ctx, asg)
}

func (svc *Service) DeleteAssignment(ctx context.Context, id int) error {
	return svc.repo.DeleteAssignmentByID(ctx, id)
}

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	lsn := Lesson{
		Name:      nl.Name,
		StartTime: nl.StartTime,
		EndTime:   nl.EndTime,
		CourseID:  nl.CourseID,
		TeacherID: nl.TeacherID,
	}
	return svc.repo.CreateLesson(ctx, lsn)
}

func (svc *Service) QueryCourseLessons(ctx context.Context, courseID int) ([]Lesson, error) {
	return svc.repo.QueryCourseLessons(ctx, courseID)
}

func (svc *Service) UpdateLesson(ctx context.Context, id int, nl NewLesson) (Lesson, error) {
	lsn, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	lsn.Name = nl.Name
	lsn.StartTime = nl.StartTime
	lsn.EndTime = nl.EndTime
	lsn.CourseID = nl.CourseID
	lsn.TeacherID = nl.TeacherID
	return svc.repo.UpdateLesson(ctx, lsn)
}

func (svc *Service) DeleteLesson(ctx context.Context, id int) error {
	return svc.repo.DeleteLessonByID(ctx, id)
}

func (svc *Service) CreateReview(ctx context.Context, studentID int, nr NewReview) (Review, error) {
	rev := Review{
		Rating:    nr.Rating,
		Comment:   nr.Comment,
		StudentID: studentID,
		CourseID:  nr.CourseID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateReview(ctx, rev)
}

func (svc *Service) QueryCourseReviews(ctx context.Context, courseID int) ([]Review, error) {
	return svc.repo.QueryCourseReviews(ctx, courseID)
}
