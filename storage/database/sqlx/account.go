// Package sqlxrepos implements the core repository interfaces against
// Postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/account"
)

type (
	adminRow struct {
		ID           int       `db:"id"`
		Username     string    `db:"username"`
		PasswordHash []byte    `db:"password_hash"`
		CreatedAt    time.Time `db:"created_at"`
	}

	teacherRow struct {
		ID           int         `db:"id"`
		Name         string      `db:"name"`
		Username     string      `db:"username"`
		Email        string      `db:"email"`
		Phone        null.String `db:"phone"`
		Designation  null.String `db:"designation"`
		PasswordHash []byte      `db:"password_hash"`
		CreatedAt    time.Time   `db:"created_at"`
		UpdatedAt    time.Time   `db:"updated_at"`
	}

	studentRow struct {
		ID               int         `db:"id"`
		FirstName        string      `db:"first_name"`
		LastName         null.String `db:"last_name"`
		Username         string      `db:"username"`
		Email            string      `db:"email"`
		Phone            null.String `db:"phone"`
		Gender           null.String `db:"gender"`
		PresentAddress   null.String `db:"present_address"`
		PermanentAddress null.String `db:"permanent_address"`
		PasswordHash     []byte      `db:"password_hash"`
		CreatedAt        time.Time   `db:"created_at"`
		UpdatedAt        time.Time   `db:"updated_at"`
	}

	accountRepository struct {
		db *sqlx.DB
	}
)

// interface compliance checks
var (
	_ account.AdminRepository   = (*accountRepository)(nil)
	_ account.TeacherRepository = (*accountRepository)(nil)
	_ account.StudentRepository = (*accountRepository)(nil)
)

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to the given not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (row adminRow) toCore() account.Admin {
	return account.Admin{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

func (row teacherRow) toCore() account.Teacher {
	return account.Teacher{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		Phone:        row.Phone.String,
		Designation:  row.Designation.String,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (row studentRow) toCore() account.Student {
	return account.Student{
		ID:               row.ID,
		FirstName:        row.FirstName,
		LastName:         row.LastName.String,
		Username:         row.Username,
		Email:            row.Email,
		Phone:            row.Phone.String,
		Gender:           row.Gender.String,
		PresentAddress:   row.PresentAddress.String,
		PermanentAddress: row.PermanentAddress.String,
		PasswordHash:     row.PasswordHash,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

// Admins

func (repo *accountRepository) CheckAdminUniqueness(ctx context.Context, username string, excluded ...account.Admin) error {
	query := "SELECT EXISTS (SELECT 1 FROM admins WHERE username = $1 AND NOT (id = ANY($2)))"
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, username, excludedIDs(len(excluded), func(i int) int { return excluded[i].ID })); err != nil {
		return errors.Wrap(err, "checking admin uniqueness")
	}
	if exists {
		return account.ErrUsernameExists
	}
	return nil
}

func (repo *accountRepository) CreateAdmin(ctx context.Context, adm account.Admin) (account.Admin, error) {
	query := `INSERT INTO admins (username, password_hash, created_at)
	          VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, adm.Username, adm.PasswordHash, adm.CreatedAt).Scan(&adm.ID); err != nil {
		return account.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return adm, nil
}

func (repo *accountRepository) QueryAllAdmins(ctx context.Context) ([]account.Admin, error) {
	var rows []adminRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM admins ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying admins")
	}
	admins := make([]account.Admin, 0, len(rows))
	for _, row := range rows {
		admins = append(admins, row.toCore())
	}
	return admins, nil
}

func (repo *accountRepository) GetAdminByID(ctx context.Context, id int) (account.Admin, error) {
	var row adminRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM admins WHERE id = $1", id); err != nil {
		return account.Admin{}, trapNoRowsErr(err, account.ErrNotFound, "getting admin by id")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) GetAdminByUsername(ctx context.Context, username string) (account.Admin, error) {
	var row adminRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM admins WHERE username = $1", username); err != nil {
		return account.Admin{}, trapNoRowsErr(err, account.ErrNotFound, "getting admin by username")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) UpdateAdmin(ctx context.Context, adm account.Admin) (account.Admin, error) {
	query := "UPDATE admins SET username = $1, password_hash = $2 WHERE id = $3"
	if _, err := repo.db.ExecContext(ctx, query, adm.Username, adm.PasswordHash, adm.ID); err != nil {
		return account.Admin{}, errors.Wrap(err, "updating admin")
	}
	return adm, nil
}

// Teachers

func (repo *accountRepository) CheckTeacherUniqueness(ctx context.Context, username, email string, excluded ...account.Teacher) error {
	query := `SELECT EXISTS (
	            SELECT 1 FROM teachers
	            WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3)))`
	var exists bool
	ids := excludedIDs(len(excluded), func(i int) int { return excluded[i].ID })
	if err := repo.db.GetContext(ctx, &exists, query, username, email, ids); err != nil {
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	if exists {
		var unameTaken bool
		if err := repo.db.GetContext(ctx, &unameTaken, "SELECT EXISTS (SELECT 1 FROM teachers WHERE username = $1)", username); err == nil && unameTaken && username != "" {
			return account.ErrUsernameExists
		}
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateTeacher(ctx context.Context, tch account.Teacher) (account.Teacher, error) {
	query := `INSERT INTO teachers (name, username, email, phone, designation, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		tch.Name, tch.Username, tch.Email,
		null.NewString(tch.Phone, tch.Phone != ""), null.NewString(tch.Designation, tch.Designation != ""),
		tch.PasswordHash, tch.CreatedAt, tch.UpdatedAt,
	).Scan(&tch.ID)
	if err != nil {
		return account.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo *accountRepository) QueryAllTeachers(ctx context.Context) ([]account.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM teachers ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]account.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toCore())
	}
	return teachers, nil
}

func (repo *accountRepository) GetTeacherByID(ctx context.Context, id int) (account.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM teachers WHERE id = $1", id); err != nil {
		return account.Teacher{}, trapNoRowsErr(err, account.ErrNotFound, "getting teacher by id")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) GetTeacherByUsername(ctx context.Context, username string) (account.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM teachers WHERE username = $1", username); err != nil {
		return account.Teacher{}, trapNoRowsErr(err, account.ErrNotFound, "getting teacher by username")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) UpdateTeacher(ctx context.Context, tch account.Teacher) (account.Teacher, error) {
	query := `UPDATE teachers
	          SET name = $1, email = $2, phone = $3, designation = $4, password_hash = $5, updated_at = $6
	          WHERE id = $7`
	_, err := repo.db.ExecContext(ctx, query,
		tch.Name, tch.Email,
		null.NewString(tch.Phone, tch.Phone != ""), null.NewString(tch.Designation, tch.Designation != ""),
		tch.PasswordHash, tch.UpdatedAt, tch.ID,
	)
	if err != nil {
		return account.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tch, nil
}

func (repo *accountRepository) DeleteTeachersByID(ctx context.Context, ids ...int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM teachers WHERE id = ANY($1)", intArray(ids)); err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	return nil
}

// Students

func (repo *accountRepository) CheckStudentUniqueness(ctx context.Context, username, email string, excluded ...account.Student) error {
	query := `SELECT EXISTS (
	            SELECT 1 FROM students
	            WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3)))`
	var exists bool
	ids := excludedIDs(len(excluded), func(i int) int { return excluded[i].ID })
	if err := repo.db.GetContext(ctx, &exists, query, username, email, ids); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	if exists {
		var unameTaken bool
		if err := repo.db.GetContext(ctx, &unameTaken, "SELECT EXISTS (SELECT 1 FROM students WHERE username = $1)", username); err == nil && unameTaken && username != "" {
			return account.ErrUsernameExists
		}
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateStudent(ctx context.Context, std account.Student) (account.Student, error) {
	query := `INSERT INTO students
	            (first_name, last_name, username, email, phone, gender, present_address, permanent_address,
	             password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		std.FirstName, null.NewString(std.LastName, std.LastName != ""), std.Username, std.Email,
		null.NewString(std.Phone, std.Phone != ""), null.NewString(std.Gender, std.Gender != ""),
		null.NewString(std.PresentAddress, std.PresentAddress != ""),
		null.NewString(std.PermanentAddress, std.PermanentAddress != ""),
		std.PasswordHash, std.CreatedAt, std.UpdatedAt,
	).Scan(&std.ID)
	if err != nil {
		return account.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *accountRepository) QueryAllStudents(ctx context.Context) ([]account.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM students ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]account.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
	}
	return students, nil
}

func (repo *accountRepository) GetStudentByID(ctx context.Context, id int) (account.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM students WHERE id = $1", id); err != nil {
		return account.Student{}, trapNoRowsErr(err, account.ErrNotFound, "getting student by id")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) GetStudentByUsername(ctx context.Context, username string) (account.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM students WHERE username = $1", username); err != nil {
		return account.Student{}, trapNoRowsErr(err, account.ErrNotFound, "getting student by username")
	}
	return row.toCore(), nil
}

func (repo *accountRepository) UpdateStudent(ctx context.Context, std account.Student) (account.Student, error) {
	query := `UPDATE students
	          SET first_name = $1, last_name = $2, email = $3, phone = $4, gender = $5,
	              present_address = $6, permanent_address = $7, password_hash = $8, updated_at = $9
	          WHERE id = $10`
	_, err := repo.db.ExecContext(ctx, query,
		std.FirstName, null.NewString(std.LastName, std.LastName != ""), std.Email,
		null.NewString(std.Phone, std.Phone != ""), null.NewString(std.Gender, std.Gender != ""),
		null.NewString(std.PresentAddress, std.PresentAddress != ""),
		null.NewString(std.PermanentAddress, std.PermanentAddress != ""),
		std.PasswordHash, std.UpdatedAt, std.ID,
	)
	if err != nil {
		return account.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo *accountRepository) DeleteStudentsByID(ctx context.Context, ids ...int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM students WHERE id = ANY($1)", intArray(ids)); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
