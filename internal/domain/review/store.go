package review

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

const reviewColumns = `
    r.id, r.employee_id, e.first_name || ' ' || e.last_name,
    r.review_period, r.rating, r.feedback, r.review_date, r.created_at, r.updated_at`

func (s *Store) List(ctx context.Context, employeeID *int64, limit, offset int) ([]Review, int, error) {
	countQuery := "SELECT COUNT(1) FROM performance_reviews r WHERE ($1::bigint IS NULL OR r.employee_id = $1)"
	var total int
	if err := s.DB.QueryRow(ctx, countQuery, employeeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews r
    JOIN employees e ON r.employee_id = e.id
    WHERE ($1::bigint IS NULL OR r.employee_id = $1)
    ORDER BY r.review_date DESC, r.id DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Review, error) {
	var rev Review
	err := s.DB.QueryRow(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews r
    JOIN employees e ON r.employee_id = e.id
    WHERE r.id = $1
  `, id).Scan(
		&rev.ID, &rev.EmployeeID, &rev.EmployeeName, &rev.ReviewPeriod, &rev.Rating,
		&rev.Feedback, &rev.ReviewDate, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return Review{}, err
	}
	return rev, nil
}

// Create inserts in one statement so the (employee_id, review_period) unique
// constraint and the employee foreign key decide races, not a pre-check.
func (s *Store) Create(ctx context.Context, params Params) (Review, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, review_period, rating, feedback, review_date)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, params.EmployeeID, params.ReviewPeriod, params.Rating, params.Feedback, params.ReviewDate).Scan(&id)
	if err != nil {
		return Review{}, mapReviewConstraint(err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, params Params) (Review, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET employee_id = $1,
        review_period = $2,
        rating = $3,
        feedback = $4,
        review_date = $5,
        updated_at = now()
    WHERE id = $6
  `, params.EmployeeID, params.ReviewPeriod, params.Rating, params.Feedback, params.ReviewDate, id)
	if err != nil {
		return Review{}, mapReviewConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return Review{}, apperror.NotFound("performance review not found")
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// ForEmployee returns every review for the employee, newest first. An unknown
// employee simply has no rows.
func (s *Store) ForEmployee(ctx context.Context, employeeID int64) ([]Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews r
    JOIN employees e ON r.employee_id = e.id
    WHERE r.employee_id = $1
    ORDER BY r.review_date DESC, r.id DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (s *Store) Periods(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT review_period
    FROM performance_reviews
    WHERE review_period <> ''
    ORDER BY review_period
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, err
		}
		out = append(out, period)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance_reviews").Scan(&count)
	return count, err
}

func (s *Store) RatingDistribution(ctx context.Context) ([]RatingCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT rating, COUNT(1)
    FROM performance_reviews
    GROUP BY rating
    ORDER BY rating
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RatingCount
	for rows.Next() {
		var rc RatingCount
		if err := rows.Scan(&rc.Rating, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReviews(rows rowScanner) ([]Review, error) {
	var out []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID, &rev.EmployeeID, &rev.EmployeeName, &rev.ReviewPeriod, &rev.Rating,
			&rev.Feedback, &rev.ReviewDate, &rev.CreatedAt, &rev.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func mapReviewConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == "23505" && pgErr.ConstraintName == "performance_reviews_employee_period_key":
		return apperror.Validation("a review for this employee and review period already exists")
	case pgErr.Code == "23503":
		return apperror.ValidationFields("employee does not exist", map[string]string{
			"employee": "employee does not exist",
		})
	case pgErr.Code == "23514":
		return apperror.ValidationFields("rating must be between 1 and 5", map[string]string{
			"rating": "rating must be between 1 and 5",
		})
	}
	return err
}
