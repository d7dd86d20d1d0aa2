package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/report"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) CreateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rpt.ID = repo.db.nextPK()
	repo.db.reports[rpt.ID] = &rpt
	return rpt, nil
}

func (repo *reportRepository) QueryStudentReports(_ context.Context, studentID int) ([]report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var reports []report.Report
	for _, rpt := range repo.db.reports {
		if rpt.StudentID == studentID && !rpt.IsDeleted {
			reports = append(reports, *rpt)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

func (repo *reportRepository) GetReportByID(_ context.Context, id int) (report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rpt, ok := repo.db.reports[id]; ok {
		return *rpt, nil
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) UpdateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.reports[rpt.ID]; !ok {
		return report.Report{}, report.ErrNotFound
	}
	repo.db.reports[rpt.ID] = &rpt
	return rpt, nil
}
