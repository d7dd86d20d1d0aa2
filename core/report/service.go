package report

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/notify"
)

var ErrNotFound = errors.New("report not found")

type (
	Repository interface {
		CreateReport(ctx context.Context, rpt Report) (Report, error)
		// QueryStudentReports lists a student's non-deleted reports,
		// most recent first.
		QueryStudentReports(ctx context.Context, studentID int) ([]Report, error)
		GetReportByID(ctx context.Context, id int) (Report, error)
		UpdateReport(ctx context.Context, rpt Report) (Report, error)
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		notifSvc *notify.Service
		admins   account.AdminRepository
		mailSvc  core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, notifSvc *notify.Service, admins account.AdminRepository, mailSvc core.EmailService) *Service {
	return &Service{
		conf:     conf,
		repo:     repo,
		notifSvc: notifSvc,
		admins:   admins,
		mailSvc:  mailSvc,
	}
}

// Create files a report for a student, records an admin notification and
// mails the admin inbox. Fan-out failures never fail the filing.
func (svc *Service) Create(ctx context.Context, std account.Student, nr NewReport) (Report, error) {
	rpt, err := svc.repo.CreateReport(ctx, Report{
		StudentID:   std.ID,
		Title:       nr.Title,
		Body:        nr.Body,
		TeacherName: nr.TeacherName,
		CourseName:  nr.CourseName,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "creating report")
	}

	message := fmt.Sprintf("Student %q has filed a report: %q.", std.Username, rpt.Title)
	if admins, err := svc.admins.QueryAllAdmins(ctx); err == nil {
		for _, adm := range admins {
			_ = svc.notifSvc.Notify(ctx, adm.ID, auth.RoleAdmin, message)
		}
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{svc.conf.AdminEmail},
		Subject: "New student report: " + rpt.Title,
		BodyStr: message + "\n\n" + rpt.Body,
	})
	return rpt, nil
}

func (svc *Service) QueryForStudent(ctx context.Context, studentID int) ([]Report, error) {
	return svc.repo.QueryStudentReports(ctx, studentID)
}

// getOwned fetches a report and checks it belongs to the student.
func (svc *Service) getOwned(ctx context.Context, id, studentID int) (Report, error) {
	rpt, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	if rpt.StudentID != studentID || rpt.IsDeleted {
		return Report{}, ErrNotFound
	}
	return rpt, nil
}

func (svc *Service) Update(ctx context.Context, id, studentID int, nr NewReport) (Report, error) {
	rpt, err := svc.getOwned(ctx, id, studentID)
	if err != nil {
		return Report{}, err
	}
	rpt.Title = nr.Title
	rpt.Body = nr.Body
	rpt.TeacherName = nr.TeacherName
	rpt.CourseName = nr.CourseName
	return svc.repo.UpdateReport(ctx, rpt)
}

// Delete soft-deletes a student's report.
func (svc *Service) Delete(ctx context.Context, id, studentID int) error {
	rpt, err := svc.getOwned(ctx, id, studentID)
	if err != nil {
		return err
	}
	rpt.IsDeleted = true
	_, err = svc.repo.UpdateReport(ctx, rpt)
	return err
}
