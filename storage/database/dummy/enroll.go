package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/enroll"
)

type enrollmentRepository struct {
	db *DB
}

var _ enroll.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr.ID = repo.db.nextPK()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) QueryAllEnrollments(_ context.Context) ([]enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrollments := make([]enroll.Enrollment, 0, len(repo.db.enrollments))
	for _, enr := range repo.db.enrollments {
		enrollments = append(enrollments, *enr)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt) })
	return enrollments, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(_ context.Context, id int) (enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}

func (repo *enrollmentRepository) QueryStudentEnrollments(_ context.Context, studentID int, status string) ([]enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrollments []enroll.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.StudentID != studentID {
			continue
		}
		if status != "" && enr.Status != status {
			continue
		}
		enrollments = append(enrollments, *enr)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt) })
	return enrollments, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(_ context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.enrollments[enr.ID]; !ok {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.enrollments, id)
	return nil
}

func (repo *enrollmentRepository) CreateTransaction(_ context.Context, trx enroll.Transaction) (enroll.Transaction, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	trx.ID = repo.db.nextPK()
	repo.db.transactions[trx.ID] = &trx
	return trx, nil
}

func (repo *enrollmentRepository) QueryAllTransactions(_ context.Context) ([]enroll.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	transactions := make([]enroll.Transaction, 0, len(repo.db.transactions))
	for _, trx := range repo.db.transactions {
		transactions = append(transactions, *trx)
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].CreatedAt.After(transactions[j].CreatedAt) })
	return transactions, nil
}

func (repo *enrollmentRepository) QueryStudentTransactions(_ context.Context, studentID int) ([]enroll.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var transactions []enroll.Transaction
	for _, trx := range repo.db.transactions {
		if trx.StudentID == studentID {
			transactions = append(transactions, *trx)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].CreatedAt.After(transactions[j].CreatedAt) })
	return transactions, nil
}

func (repo *enrollmentRepository) GetTransactionByID(_ context.Context, id int) (enroll.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if trx, ok := repo.db.transactions[id]; ok {
		return *trx, nil
	}
	return enroll.Transaction{}, enroll.ErrTransactionNotFound
}

func (repo *enrollmentRepository) UpdateTransaction(_ context.Context, trx enroll.Transaction) (enroll.Transaction, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.transactions[trx.ID]; !ok {
		return enroll.Transaction{}, enroll.ErrTransactionNotFound
	}
	repo.db.transactions[trx.ID] = &trx
	return trx, nil
}

func (repo *enrollmentRepository) DeleteTransactionByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.transactions, id)
	return nil
}
