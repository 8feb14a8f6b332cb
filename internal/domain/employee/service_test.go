package employee

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfhub/internal/apperror"
)

type fakeStore struct {
	employees map[int64]Employee
	reviews   map[int64][]ReviewRow
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{employees: map[int64]Employee{}, reviews: map[int64][]ReviewRow{}}
}

func (f *fakeStore) sorted() []Employee {
	out := make([]Employee, 0, len(f.employees))
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName == out[j].LastName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].LastName < out[j].LastName
	})
	return out
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]Employee, int, error) {
	all := f.sorted()
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return Employee{}, pgx.ErrNoRows
	}
	return emp, nil
}

func (f *fakeStore) Create(_ context.Context, params Params) (Employee, error) {
	for _, existing := range f.employees {
		if existing.Email == params.Email {
			return Employee{}, apperror.Validation("employee with this email already exists")
		}
	}
	f.nextID++
	emp := Employee{
		ID:            f.nextID,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Email:         params.Email,
		Department:    params.Department,
		DateOfJoining: params.DateOfJoining,
	}
	f.employees[emp.ID] = emp
	return emp, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, params Params) (Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return Employee{}, pgx.ErrNoRows
	}
	emp.FirstName = params.FirstName
	emp.LastName = params.LastName
	emp.Email = params.Email
	emp.Department = params.Department
	emp.DateOfJoining = params.DateOfJoining
	f.employees[id] = emp
	return emp, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.employees[id]; !ok {
		return false, nil
	}
	delete(f.employees, id)
	delete(f.reviews, id)
	return true, nil
}

func (f *fakeStore) Departments(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, emp := range f.employees {
		if emp.Department != "" && !seen[emp.Department] {
			seen[emp.Department] = true
			out = append(out, emp.Department)
		}
	}
	return out, nil
}

func (f *fakeStore) DepartmentCounts(_ context.Context) ([]DepartmentCount, error) {
	counts := map[string]int{}
	for _, emp := range f.employees {
		if emp.Department != "" {
			counts[emp.Department]++
		}
	}
	var out []DepartmentCount
	for dept, count := range counts {
		out = append(out, DepartmentCount{Department: dept, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.employees), nil
}

func (f *fakeStore) ReviewRowsForEmployees(_ context.Context, ids []int64) (map[int64][]ReviewRow, error) {
	out := map[int64][]ReviewRow{}
	for _, id := range ids {
		if rows, ok := f.reviews[id]; ok {
			out[id] = rows
		}
	}
	return out, nil
}

func seedEmployee(store *fakeStore, first, last, email, department string) Employee {
	emp, _ := store.Create(context.Background(), Params{
		FirstName:     first,
		LastName:      last,
		Email:         email,
		Department:    department,
		DateOfJoining: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	return emp
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	tests := []struct {
		name       string
		params     Params
		wantFields []string
	}{
		{
			name:       "all fields missing",
			params:     Params{},
			wantFields: []string{"first_name", "last_name", "email", "date_of_joining"},
		},
		{
			name: "invalid email",
			params: Params{
				FirstName:     "Ann",
				LastName:      "Lee",
				Email:         "not-an-email",
				DateOfJoining: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			wantFields: []string{"email"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.params)
			require.Error(t, err)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			for _, field := range tc.wantFields {
				assert.Contains(t, appErr.Fields, field)
			}
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedEmployee(store, "John", "Doe", "john.doe@company.com", "Engineering")

	_, err := svc.Create(context.Background(), Params{
		FirstName:     "Johnny",
		LastName:      "Doeson",
		Email:         "john.doe@company.com",
		DateOfJoining: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
	assert.Len(t, store.employees, 1)
}

func TestGetMergesDerivedFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	emp := seedEmployee(store, "Jane", "Smith", "jane.smith@company.com", "Marketing")
	store.reviews[emp.ID] = []ReviewRow{
		{Rating: 3, Period: "Q1 2024", ReviewDate: time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)},
		{Rating: 5, Period: "Q2 2024", ReviewDate: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)},
	}

	got, err := svc.Get(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReviewsCount)
	require.NotNil(t, got.AverageRating)
	assert.Equal(t, 4.0, *got.AverageRating)
	require.NotNil(t, got.LatestReviewPeriod)
	assert.Equal(t, "Q2 2024", *got.LatestReviewPeriod)
}

func TestGetUnknownID(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.GetKind(err))
}

func TestDeleteUnknownID(t *testing.T) {
	svc := NewService(newFakeStore())

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.GetKind(err))
}

func TestStatisticsEmpty(t *testing.T) {
	svc := NewService(newFakeStore())

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEmployees)
	assert.NotNil(t, stats.Departments)
	assert.Empty(t, stats.Departments)
}

func TestStatisticsCountsByDepartment(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedEmployee(store, "John", "Doe", "john@company.com", "Engineering")
	seedEmployee(store, "Dina", "Cole", "dina@company.com", "Engineering")
	seedEmployee(store, "Ray", "Burr", "ray@company.com", "Sales")
	seedEmployee(store, "May", "Nord", "may@company.com", "")

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEmployees)
	require.Len(t, stats.Departments, 2, "empty departments are excluded")
	assert.Equal(t, DepartmentCount{Department: "Engineering", Count: 2}, stats.Departments[0])
}

func TestListEmptyDerivedFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedEmployee(store, "Solo", "NoReviews", "solo@company.com", "HR")

	out, total, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].ReviewsCount)
	assert.Nil(t, out[0].AverageRating, "zero reviews must yield null average")
	assert.Nil(t, out[0].LatestReviewPeriod)
}
