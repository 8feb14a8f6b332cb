package review

import "context"

type StoreAPI interface {
	List(ctx context.Context, employeeID *int64, limit, offset int) ([]Review, int, error)
	Get(ctx context.Context, id int64) (Review, error)
	Create(ctx context.Context, params Params) (Review, error)
	Update(ctx context.Context, id int64, params Params) (Review, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ForEmployee(ctx context.Context, employeeID int64) ([]Review, error)
	Periods(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	RatingDistribution(ctx context.Context) ([]RatingCount, error)
}
