package employee

import "context"

type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]Employee, int, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, params Params) (Employee, error)
	Update(ctx context.Context, id int64, params Params) (Employee, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Departments(ctx context.Context) ([]string, error)
	DepartmentCounts(ctx context.Context) ([]DepartmentCount, error)
	Count(ctx context.Context) (int, error)
	ReviewRowsForEmployees(ctx context.Context, ids []int64) (map[int64][]ReviewRow, error)
}
