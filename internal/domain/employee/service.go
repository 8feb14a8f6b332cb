package employee

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"perfhub/internal/apperror"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// List returns one page of employees ordered by (last_name, first_name),
// each with its derived review fields, plus the total row count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]WithDerived, int, error) {
	employees, total, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}
	reviewRows, err := s.Store.ReviewRowsForEmployees(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]WithDerived, 0, len(employees))
	for _, emp := range employees {
		out = append(out, WithDerived{
			Employee:      emp,
			ReviewDerived: DeriveReviewFields(reviewRows[emp.ID]),
		})
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (WithDerived, error) {
	emp, err := s.Store.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return WithDerived{}, apperror.NotFound("employee not found")
	}
	if err != nil {
		return WithDerived{}, err
	}

	reviewRows, err := s.Store.ReviewRowsForEmployees(ctx, []int64{id})
	if err != nil {
		return WithDerived{}, err
	}
	return WithDerived{Employee: emp, ReviewDerived: DeriveReviewFields(reviewRows[id])}, nil
}

func (s *Service) Create(ctx context.Context, params Params) (Employee, error) {
	if err := validateParams(params); err != nil {
		return Employee{}, err
	}
	return s.Store.Create(ctx, normalize(params))
}

func (s *Service) Update(ctx context.Context, id int64, params Params) (Employee, error) {
	if err := validateParams(params); err != nil {
		return Employee{}, err
	}
	emp, err := s.Store.Update(ctx, id, normalize(params))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, apperror.NotFound("employee not found")
	}
	return emp, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("employee not found")
	}
	return nil
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.Store.Departments(ctx)
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	total, err := s.Store.Count(ctx)
	if err != nil {
		return Statistics{}, err
	}
	departments, err := s.Store.DepartmentCounts(ctx)
	if err != nil {
		return Statistics{}, err
	}
	if departments == nil {
		departments = []DepartmentCount{}
	}
	return Statistics{TotalEmployees: total, Departments: departments}, nil
}

func validateParams(params Params) error {
	issues := map[string]string{}
	if strings.TrimSpace(params.FirstName) == "" {
		issues["first_name"] = "this field is required"
	}
	if strings.TrimSpace(params.LastName) == "" {
		issues["last_name"] = "this field is required"
	}
	email := strings.TrimSpace(params.Email)
	if email == "" {
		issues["email"] = "this field is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		issues["email"] = "enter a valid email address"
	}
	if params.DateOfJoining.IsZero() {
		issues["date_of_joining"] = "must be a valid date in YYYY-MM-DD format"
	}
	if len(issues) > 0 {
		return apperror.ValidationFields("employee validation failed", issues)
	}
	return nil
}

func normalize(params Params) Params {
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)
	params.Email = strings.TrimSpace(params.Email)
	params.Department = strings.TrimSpace(params.Department)
	return params
}
