// Package dummydb is an in-memory storage backend for tests and local
// hacking. Not safe for anything else.
package dummydb

import (
	"sync"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/bulletin"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/notify"
	"github.com/darasahq/darasa/core/report"
)

type DB struct {
	sync.RWMutex
	pkCount int

	admins        map[int]*account.Admin
	teachers      map[int]*account.Teacher
	students      map[int]*account.Student
	courses       map[int]*course.Course
	assignments   map[int]*course.Assignment
	lessons       map[int]*course.Lesson
	reviews       map[int]*course.Review
	enrollments   map[int]*enroll.Enrollment
	transactions  map[int]*enroll.Transaction
	announcements map[int]*bulletin.Announcement
	events        map[int]*bulletin.Event
	reports       map[int]*report.Report
	notifications map[int]*notify.Notification
}

func Open() (*DB, error) {
	db := &DB{
		admins:        make(map[int]*account.Admin),
		teachers:      make(map[int]*account.Teacher),
		students:      make(map[int]*account.Student),
		courses:       make(map[int]*course.Course),
		assignments:   make(map[int]*course.Assignment),
		lessons:       make(map[int]*course.Lesson),
		reviews:       make(map[int]*course.Review),
		enrollments:   make(map[int]*enroll.Enrollment),
		transactions:  make(map[int]*enroll.Transaction),
		announcements: make(map[int]*bulletin.Announcement),
		events:        make(map[int]*bulletin.Event),
		reports:       make(map[int]*report.Report),
		notifications: make(map[int]*notify.Notification),
	}
	return db, nil
}

// nextPK issues table-agnostic primary keys. Caller holds the write lock.
func (db *DB) nextPK() int {
	db.pkCount++
	return db.pkCount
}
