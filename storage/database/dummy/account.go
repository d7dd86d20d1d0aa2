package dummydb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/account"
)

type accountRepository struct {
	db *DB
}

// interface compliance checks
var (
	_ account.AdminRepository   = (*accountRepository)(nil)
	_ account.TeacherRepository = (*accountRepository)(nil)
	_ account.StudentRepository = (*accountRepository)(nil)
)

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db}
}

func isExcluded(id int, excluded []int) bool {
	n := len(excluded)
	if n == 0 {
		return false
	}
	idx := sort.SearchInts(excluded, id)
	return idx < n && excluded[idx] == id
}

// Admins

func (repo *accountRepository) CheckAdminUniqueness(_ context.Context, username string, excluded ...account.Admin) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := make([]int, 0, len(excluded))
	for _, adm := range excluded {
		excl = append(excl, adm.ID)
	}
	sort.Ints(excl)

	for _, adm := range repo.db.admins {
		if adm.Username == username && !isExcluded(adm.ID, excl) {
			return account.ErrUsernameExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateAdmin(_ context.Context, adm account.Admin) (account.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	adm.ID = repo.db.nextPK()
	repo.db.admins[adm.ID] = &adm
	return adm, nil
}

func (repo *accountRepository) QueryAllAdmins(_ context.Context) ([]account.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	admins := make([]account.Admin, 0, len(repo.db.admins))
	for _, adm := range repo.db.admins {
		admins = append(admins, *adm)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

func (repo *accountRepository) GetAdminByID(_ context.Context, id int) (account.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if adm, ok := repo.db.admins[id]; ok {
		return *adm, nil
	}
	return account.Admin{}, account.ErrNotFound
}

func (repo *accountRepository) GetAdminByUsername(_ context.Context, username string) (account.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, adm := range repo.db.admins {
		if adm.Username == username {
			return *adm, nil
		}
	}
	return account.Admin{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAdmin(_ context.Context, adm account.Admin) (account.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.admins[adm.ID]; !ok {
		return account.Admin{}, account.ErrNotFound
	}
	repo.db.admins[adm.ID] = &adm
	return adm, nil
}

// Teachers

func (repo *accountRepository) CheckTeacherUniqueness(_ context.Context, username, email string, excluded ...account.Teacher) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := make([]int, 0, len(excluded))
	for _, tch := range excluded {
		excl = append(excl, tch.ID)
	}
	sort.Ints(excl)

	for _, tch := range repo.db.teachers {
		if isExcluded(tch.ID, excl) {
			continue
		}
		if tch.Username == username {
			return account.ErrUsernameExists
		}
		if tch.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateTeacher(_ context.Context, tch account.Teacher) (account.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = repo.db.nextPK()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *accountRepository) QueryAllTeachers(_ context.Context) ([]account.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]account.Teacher, 0, len(repo.db.teachers))
	for _, tch := range repo.db.teachers {
		teachers = append(teachers, *tch)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

func (repo *accountRepository) GetTeacherByID(_ context.Context, id int) (account.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return account.Teacher{}, account.ErrNotFound
}

func (repo *accountRepository) GetTeacherByUsername(_ context.Context, username string) (account.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.Username == username {
			return *tch, nil
		}
	}
	return account.Teacher{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateTeacher(_ context.Context, tch account.Teacher) (account.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return account.Teacher{}, account.ErrNotFound
	}
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *accountRepository) DeleteTeachersByID(_ context.Context, ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.teachers, id)
	}
	return nil
}

// Students

func (repo *accountRepository) CheckStudentUniqueness(_ context.Context, username, email string, excluded ...account.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := make([]int, 0, len(excluded))
	for _, std := range excluded {
		excl = append(excl, std.ID)
	}
	sort.Ints(excl)

	for _, std := range repo.db.students {
		if isExcluded(std.ID, excl) {
			continue
		}
		if std.Username == username {
			return account.ErrUsernameExists
		}
		if std.Email == email {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateStudent(_ context.Context, std account.Student) (account.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = repo.db.nextPK()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *accountRepository) QueryAllStudents(_ context.Context) ([]account.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]account.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *accountRepository) GetStudentByID(_ context.Context, id int) (account.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return account.Student{}, account.ErrNotFound
}

func (repo *accountRepository) GetStudentByUsername(_ context.Context, username string) (account.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Username == username {
			return *std, nil
		}
	}
	return account.Student{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateStudent(_ context.Context, std account.Student) (account.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return account.Student{}, account.ErrNotFound
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *accountRepository) DeleteStudentsByID(_ context.Context, ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.students, id)
	}
	return nil
}
