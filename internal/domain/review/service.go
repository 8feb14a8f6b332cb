package review

import (
	"context"
	"errors"
	"fmt"
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

// List returns one page of reviews ordered by review_date descending,
// optionally restricted to a single employee.
func (s *Service) List(ctx context.Context, employeeID *int64, limit, offset int) ([]Review, int, error) {
	return s.Store.List(ctx, employeeID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (Review, error) {
	rev, err := s.Store.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, apperror.NotFound("performance review not found")
	}
	return rev, err
}

// Create validates the payload and writes the row; the unique and check
// constraints remain the final arbiter under concurrency.
func (s *Service) Create(ctx context.Context, params Params) (Review, error) {
	if err := validateParams(params); err != nil {
		return Review{}, err
	}
	return s.Store.Create(ctx, normalize(params))
}

func (s *Service) Update(ctx context.Context, id int64, params Params) (Review, error) {
	if err := validateParams(params); err != nil {
		return Review{}, err
	}
	return s.Store.Update(ctx, id, normalize(params))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("performance review not found")
	}
	return nil
}

// ForEmployee never reports a missing employee: absence means an empty list.
func (s *Service) ForEmployee(ctx context.Context, employeeID int64) ([]Review, error) {
	reviews, err := s.Store.ForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

func (s *Service) Periods(ctx context.Context) ([]string, error) {
	return s.Store.Periods(ctx)
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	total, err := s.Store.Count(ctx)
	if err != nil {
		return Statistics{}, err
	}
	distribution, err := s.Store.RatingDistribution(ctx)
	if err != nil {
		return Statistics{}, err
	}
	if distribution == nil {
		distribution = []RatingCount{}
	}
	return Statistics{
		TotalReviews:       total,
		AverageRating:      AverageFromDistribution(distribution),
		RatingDistribution: distribution,
	}, nil
}

func validateParams(params Params) error {
	issues := map[string]string{}
	if params.EmployeeID <= 0 {
		issues["employee"] = "this field is required"
	}
	if strings.TrimSpace(params.ReviewPeriod) == "" {
		issues["review_period"] = "this field is required"
	}
	if params.Rating < RatingMin || params.Rating > RatingMax {
		issues["rating"] = fmt.Sprintf("rating must be between %d and %d", RatingMin, RatingMax)
	}
	if params.ReviewDate.IsZero() {
		issues["review_date"] = "must be a valid date in YYYY-MM-DD format"
	}
	if len(issues) > 0 {
		return apperror.ValidationFields("performance review validation failed", issues)
	}
	return nil
}

func normalize(params Params) Params {
	params.ReviewPeriod = strings.TrimSpace(params.ReviewPeriod)
	if params.Feedback != nil {
		trimmed := strings.TrimSpace(*params.Feedback)
		params.Feedback = &trimmed
	}
	return params
}
