package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type (
	courseRow struct {
		ID          int     `db:"id"`
		Title       string  `db:"title"`
		Description string  `db:"description"`
		Price       float64 `db:"price"`
	}

	assignmentRow struct {
		ID       int       `db:"id"`
		Title    string    `db:"title"`
		Body     string    `db:"body"`
		Points   int       `db:"points"`
		DueDate  time.Time `db:"due_date"`
		CourseID int       `db:"course_id"`
	}

	lessonRow struct {
		ID        int       `db:"id"`
		Name      string    `db:"name"`
		StartTime time.Time `db:"start_time"`
		EndTime   time.Time `db:"end_time"`
		CourseID  int       `db:"course_id"`
		TeacherID int       `db:"teacher_id"`
	}

	reviewRow struct {
		ID        int         `db:"id"`
		Rating    int         `db:"rating"`
		Comment   null.String `db:"comment"`
		StudentID int         `db:"student_id"`
		CourseID  int         `db:"course_id"`
		CreatedAt time.Time   `db:"created_at"`
	}

	courseRepository struct {
		db *sqlx.DB
	}
)

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (row courseRow) toCore() course.Course {
	return course.Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
	}
}

func (row assignmentRow) toCore() course.Assignment {
	return course.Assignment{
		ID:       row.ID,
		Title:    row.Title,
		Body:     row.Body,
		Points:   row.Points,
		DueDate:  row.DueDate,
		CourseID: row.CourseID,
	}
}

func (row lessonRow) toCore() course.Lesson {
	return course.Lesson{
		ID:        row.ID,
		Name:      row.Name,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		CourseID:  row.CourseID,
		TeacherID: row.TeacherID,
	}
}

func (row reviewRow) toCore() course.Review {
	return course.Review{
		ID:        row.ID,
		Rating:    row.Rating,
		Comment:   row.Comment.String,
		StudentID: row.StudentID,
		CourseID:  row.CourseID,
		CreatedAt: row.CreatedAt,
	}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query := "INSERT INTO courses (title, description, price) VALUES ($1, $2, $3) RETURNING id"
	if err := repo.db.QueryRowContext(ctx, query, crs.Title, crs.Description, crs.Price).Scan(&crs.ID); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM courses"+orderBy(ordering)); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCore())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM courses WHERE id = $1", id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course by id")
	}
	return row.toCore(), nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query := "UPDATE courses SET title = $1, description = $2, price = $3 WHERE id = $4"
	if _, err := repo.db.ExecContext(ctx, query, crs.Title, crs.Description, crs.Price, crs.ID); err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCourseByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

func (repo *courseRepository) CreateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	query := `INSERT INTO assignments (title, body, points, due_date, course_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, asg.Title, asg.Body, asg.Points, asg.DueDate, asg.CourseID).Scan(&asg.ID)
	if err != nil {
		return course.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *courseRepository) QueryAssignments(ctx context.Context) ([]course.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM assignments ORDER BY due_date"); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]course.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toCore())
	}
	return assignments, nil
}

func (repo *courseRepository) GetAssignmentByID(ctx context.Context, id int) (course.Assignment, error) {
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM assignments WHERE id = $1", id); err != nil {
		return course.Assignment{}, trapNoRowsErr(err, course.ErrNotFound, "getting assignment by id")
	}
	return row.toCore(), nil
}

func (repo *courseRepository) UpdateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	query := `UPDATE assignments SET title = $1, body = $2, points = $3, due_date = $4, course_id = $5
	          WHERE id = $6`
	if _, err := repo.db.ExecContext(ctx, query, asg.Title, asg.Body, asg.Points, asg.DueDate, asg.CourseID, asg.ID); err != nil {
		return course.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return asg, nil
}

func (repo *courseRepository) DeleteAssignmentByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

func (repo *courseRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	query := `INSERT INTO lessons (name, start_time, end_time, course_id, teacher_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, lsn.Name, lsn.StartTime, lsn.EndTime, lsn.CourseID, lsn.TeacherID).Scan(&lsn.ID)
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return lsn, nil
}

func (repo *courseRepository) QueryCourseLessons(ctx context.Context, courseID int) ([]course.Lesson, error) {
	var rows []lessonRow
	query := "SELECT * FROM lessons WHERE course_id = $1 ORDER BY start_time"
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course lessons")
	}
	lessons := make([]course.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.toCore())
	}
	return lessons, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id int) (course.Lesson, error) {
	var row lessonRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM lessons WHERE id = $1", id); err != nil {
		return course.Lesson{}, trapNoRowsErr(err, course.ErrNotFound, "getting lesson by id")
	}
	return row.toCore(), nil
}

func (repo *courseRepository) UpdateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	query := `UPDATE lessons SET name = $1, start_time = $2, end_time = $3, course_id = $4, teacher_id = $5
	          WHERE id = $6`
	if _, err := repo.db.ExecContext(ctx, query, lsn.Name, lsn.StartTime, lsn.EndTime, lsn.CourseID, lsn.TeacherID, lsn.ID); err != nil {
		return course.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	return lsn, nil
}

func (repo *courseRepository) DeleteLessonByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return nil
}

func (repo *courseRepository) CreateReview(ctx context.Context, rev course.Review) (course.Review, error) {
	query := `INSERT INTO reviews (rating, comment, student_id, course_id, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		rev.Rating, null.NewString(rev.Comment, rev.Comment != ""), rev.StudentID, rev.CourseID, rev.CreatedAt,
	).Scan(&rev.ID)
	if err != nil {
		return course.Review{}, errors.Wrap(err, "inserting review")
	}
	return rev, nil
}

func (repo *courseRepository) QueryCourseReviews(ctx context.Context, courseID int) ([]course.Review, error) {
	var rows []reviewRow
	query := "SELECT * FROM reviews WHERE course_id = $1 ORDER BY created_at DESC"
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course reviews")
	}
	reviews := make([]course.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toCore())
	}
	return reviews, nil
}
