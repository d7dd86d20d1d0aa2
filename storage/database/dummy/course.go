package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = repo.db.nextPK()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryCourses(_ context.Context, ordering ...core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}

	less := func(i, j int) bool { return courses[i].ID < courses[j].ID }
	if len(ordering) > 0 {
		// only "title" ordering is needed in-memory
		ord := ordering[0]
		if strings.EqualFold(ord.Field, "title") {
			less = func(i, j int) bool {
				if ord.Ascending {
					return courses[i].Title < courses[j].Title
				}
				return courses[i].Title > courses[j].Title
			}
		}
	}
	sort.Slice(courses, less)
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourseByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.courses, id)
	return nil
}

func (repo *courseRepository) CreateAssignment(_ context.Context, asg course.Assignment) (course.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg.ID = repo.db.nextPK()
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *courseRepository) QueryAssignments(_ context.Context) ([]course.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]course.Assignment, 0, len(repo.db.assignments))
	for _, asg := range repo.db.assignments {
		assignments = append(assignments, *asg)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].DueDate.Before(assignments[j].DueDate) })
	return assignments, nil
}

func (repo *courseRepository) GetAssignmentByID(_ context.Context, id int) (course.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return course.Assignment{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateAssignment(_ context.Context, asg course.Assignment) (course.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.assignments[asg.ID]; !ok {
		return course.Assignment{}, course.ErrNotFound
	}
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *courseRepository) DeleteAssignmentByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.assignments, id)
	return nil
}

func (repo *courseRepository) CreateLesson(_ context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lsn.ID = repo.db.nextPK()
	repo.db.lessons[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *courseRepository) QueryCourseLessons(_ context.Context, courseID int) ([]course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []course.Lesson
	for _, lsn := range repo.db.lessons {
		if lsn.CourseID == courseID {
			lessons = append(lessons, *lsn)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].StartTime.Before(lessons[j].StartTime) })
	return lessons, nil
}

func (repo *courseRepository) GetLessonByID(_ context.Context, id int) (course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lsn, ok := repo.db.lessons[id]; ok {
		return *lsn, nil
	}
	return course.Lesson{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateLesson(_ context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.lessons[lsn.ID]; !ok {
		return course.Lesson{}, course.ErrNotFound
	}
	repo.db.lessons[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *courseRepository) DeleteLessonByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.lessons, id)
	return nil
}

func (repo *courseRepository) CreateReview(_ context.Context, rev course.Review) (course.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rev.ID = repo.db.nextPK()
	repo.db.reviews[rev.ID] = &rev
	return rev, nil
}

func (repo *courseRepository) QueryCourseReviews(_ context.Context, courseID int) ([]course.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var reviews []course.Review
	for _, rev := range repo.db.reviews {
		if rev.CourseID == courseID {
			reviews = append(reviews, *rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}
