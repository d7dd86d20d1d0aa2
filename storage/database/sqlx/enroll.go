package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/enroll"
)

type (
	enrollmentRow struct {
		ID          int       `db:"id"`
		StudentID   int       `db:"student_id"`
		CourseID    int       `db:"course_id"`
		Status      string    `db:"status"`
		EnrolledAt  time.Time `db:"enrolled_at"`
		CompletedAt null.Time `db:"completed_at"`
	}

	transactionRow struct {
		ID            int       `db:"id"`
		Reference     string    `db:"reference"`
		Amount        float64   `db:"amount"`
		PaymentMethod string    `db:"payment_method"`
		EnrollmentID  int       `db:"enrollment_id"`
		StudentID     int       `db:"student_id"`
		CreatedAt     time.Time `db:"created_at"`
	}

	enrollmentRepository struct {
		db *sqlx.DB
	}
)

var _ enroll.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (row enrollmentRow) toCore() enroll.Enrollment {
	return enroll.Enrollment{
		ID:          row.ID,
		StudentID:   row.StudentID,
		CourseID:    row.CourseID,
		Status:      row.Status,
		EnrolledAt:  row.EnrolledAt,
		CompletedAt: row.CompletedAt.Ptr(),
	}
}

func (row transactionRow) toCore() enroll.Transaction {
	return enroll.Transaction{
		ID:            row.ID,
		Reference:     row.Reference,
		Amount:        row.Amount,
		PaymentMethod: row.PaymentMethod,
		EnrollmentID:  row.EnrollmentID,
		StudentID:     row.StudentID,
		CreatedAt:     row.CreatedAt,
	}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	query := `INSERT INTO enrollments (student_id, course_id, status, enrolled_at, completed_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		enr.StudentID, enr.CourseID, enr.Status, enr.EnrolledAt, null.TimeFromPtr(enr.CompletedAt),
	).Scan(&enr.ID)
	if err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) QueryAllEnrollments(ctx context.Context) ([]enroll.Enrollment, error) {
	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM enrollments ORDER BY enrolled_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrollments := make([]enroll.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toCore())
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id int) (enroll.Enrollment, error) {
	var row enrollmentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM enrollments WHERE id = $1", id); err != nil {
		return enroll.Enrollment{}, trapNoRowsErr(err, enroll.ErrNotFound, "getting enrollment by id")
	}
	return row.toCore(), nil
}

func (repo *enrollmentRepository) QueryStudentEnrollments(ctx context.Context, studentID int, status string) ([]enroll.Enrollment, error) {
	query := "SELECT * FROM enrollments WHERE student_id = $1"
	args := []interface{}{studentID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY enrolled_at DESC"

	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student enrollments")
	}
	enrollments := make([]enroll.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toCore())
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	query := `UPDATE enrollments
	          SET student_id = $1, course_id = $2, status = $3, enrolled_at = $4, completed_at = $5
	          WHERE id = $6`
	_, err := repo.db.ExecContext(ctx, query,
		enr.StudentID, enr.CourseID, enr.Status, enr.EnrolledAt, null.TimeFromPtr(enr.CompletedAt), enr.ID,
	)
	if err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	return nil
}

func (repo *enrollmentRepository) CreateTransaction(ctx context.Context, trx enroll.Transaction) (enroll.Transaction, error) {
	query := `INSERT INTO transactions (reference, amount, payment_method, enrollment_id, student_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		trx.Reference, trx.Amount, trx.PaymentMethod, trx.EnrollmentID, trx.StudentID, trx.CreatedAt,
	).Scan(&trx.ID)
	if err != nil {
		return enroll.Transaction{}, errors.Wrap(err, "inserting transaction")
	}
	return trx, nil
}

func (repo *enrollmentRepository) QueryAllTransactions(ctx context.Context) ([]enroll.Transaction, error) {
	var rows []transactionRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM transactions ORDER BY created_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying transactions")
	}
	transactions := make([]enroll.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toCore())
	}
	return transactions, nil
}

func (repo *enrollmentRepository) QueryStudentTransactions(ctx context.Context, studentID int) ([]enroll.Transaction, error) {
	var rows []transactionRow
	query := "SELECT * FROM transactions WHERE student_id = $1 ORDER BY created_at DESC"
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student transactions")
	}
	transactions := make([]enroll.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toCore())
	}
	return transactions, nil
}

func (repo *enrollmentRepository) GetTransactionByID(ctx context.Context, id int) (enroll.Transaction, error) {
	var row transactionRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM transactions WHERE id = $1", id); err != nil {
		return enroll.Transaction{}, trapNoRowsErr(err, enroll.ErrTransactionNotFound, "getting transaction by id")
	}
	return row.toCore(), nil
}

func (repo *enrollmentRepository) UpdateTransaction(ctx context.Context, trx enroll.Transaction) (enroll.Transaction, error) {
	query := `UPDATE transactions
	          SET amount = $1, payment_method = $2, enrollment_id = $3, student_id = $4
	          WHERE id = $5`
	_, err := repo.db.ExecContext(ctx, query,
		trx.Amount, trx.PaymentMethod, trx.EnrollmentID, trx.StudentID, trx.ID,
	)
	if err != nil {
		return enroll.Transaction{}, errors.Wrap(err, "updating transaction")
	}
	return trx, nil
}

func (repo *enrollmentRepository) DeleteTransactionByID(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting transaction")
	}
	return nil
}
