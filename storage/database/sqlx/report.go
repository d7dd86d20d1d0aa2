package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/report"
)

type (
	reportRow struct {
		ID          int         `db:"id"`
		StudentID   int         `db:"student_id"`
		Title       string      `db:"title"`
		Body        string      `db:"body"`
		TeacherName null.String `db:"teacher_name"`
		CourseName  null.String `db:"course_name"`
		IsDeleted   bool        `db:"is_deleted"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	reportRepository struct {
		db *sqlx.DB
	}
)

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

func (row reportRow) toCore() report.Report {
	return report.Report{
		ID:          row.ID,
		StudentID:   row.StudentID,
		Title:       row.Title,
		Body:        row.Body,
		TeacherName: row.TeacherName.String,
		CourseName:  row.CourseName.String,
		IsDeleted:   row.IsDeleted,
		CreatedAt:   row.CreatedAt,
	}
}

func (repo *reportRepository) CreateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	query := `INSERT INTO reports (student_id, title, body, teacher_name, course_name, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		rpt.StudentID, rpt.Title, rpt.Body,
		null.NewString(rpt.TeacherName, rpt.TeacherName != ""), null.NewString(rpt.CourseName, rpt.CourseName != ""),
		rpt.CreatedAt,
	).Scan(&rpt.ID)
	if err != nil {
		return report.Report{}, errors.Wrap(err, "inserting report")
	}
	return rpt, nil
}

func (repo *reportRepository) QueryStudentReports(ctx context.Context, studentID int) ([]report.Report, error) {
	var rows []reportRow
	query := "SELECT * FROM reports WHERE student_id = $1 AND NOT is_deleted ORDER BY created_at DESC"
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student reports")
	}
	reports := make([]report.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toCore())
	}
	return reports, nil
}

func (repo *reportRepository) GetReportByID(ctx context.Context, id int) (report.Report, error) {
	var row reportRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM reports WHERE id = $1", id); err != nil {
		return report.Report{}, trapNoRowsErr(err, report.ErrNotFound, "getting report by id")
	}
	return row.toCore(), nil
}

func (repo *reportRepository) UpdateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	query := `UPDATE reports
	          SET title = $1, body = $2, teacher_name = $3, course_name = $4, is_deleted = $5
	          WHERE id = $6`
	_, err := repo.db.ExecContext(ctx, query,
		rpt.Title, rpt.Body,
		null.NewString(rpt.TeacherName, rpt.TeacherName != ""), null.NewString(rpt.CourseName, rpt.CourseName != ""),
		rpt.IsDeleted, rpt.ID,
	)
	if err != nil {
		return report.Report{}, errors.Wrap(err, "updating report")
	}
	return rpt, nil
}
