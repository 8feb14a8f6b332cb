package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfhub/internal/apperror"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = "id, first_name, last_name, email, department, date_of_joining, created_at, updated_at"

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY last_name, first_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Department, &emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Department, &emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// Create writes the row in one statement so a duplicate email is rejected by
// the unique constraint even under concurrent requests.
func (s *Store) Create(ctx context.Context, params Params) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, department, date_of_joining)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+employeeColumns+`
  `, params.FirstName, params.LastName, params.Email, params.Department, params.DateOfJoining).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Department, &emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, mapEmployeeConstraint(err)
	}
	return emp, nil
}

func (s *Store) Update(ctx context.Context, id int64, params Params) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3,
        department = $4,
        date_of_joining = $5,
        updated_at = now()
    WHERE id = $6
    RETURNING `+employeeColumns+`
  `, params.FirstName, params.LastName, params.Email, params.Department, params.DateOfJoining, id).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Department, &emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, mapEmployeeConstraint(err)
	}
	return emp, nil
}

// Delete removes the employee; the reviews cascade inside the same statement
// through the foreign key.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) Departments(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT DISTINCT department FROM employees WHERE department <> ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var department string
		if err := rows.Scan(&department); err != nil {
			return nil, err
		}
		out = append(out, department)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentCounts(ctx context.Context) ([]DepartmentCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department, COUNT(1)
    FROM employees
    WHERE department <> ''
    GROUP BY department
    ORDER BY COUNT(1) DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentCount
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count)
	return count, err
}

func (s *Store) ReviewRowsForEmployees(ctx context.Context, ids []int64) (map[int64][]ReviewRow, error) {
	out := make(map[int64][]ReviewRow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, rating, review_period, review_date
    FROM performance_reviews
    WHERE employee_id = ANY($1)
  `, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID int64
		var row ReviewRow
		if err := rows.Scan(&employeeID, &row.Rating, &row.Period, &row.ReviewDate); err != nil {
			return nil, err
		}
		out[employeeID] = append(out[employeeID], row)
	}
	return out, rows.Err()
}

func mapEmployeeConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "employees_email_key" {
		return apperror.ValidationFields("employee with this email already exists", map[string]string{
			"email": "employee with this email already exists",
		})
	}
	return err
}
