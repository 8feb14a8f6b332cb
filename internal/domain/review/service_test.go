package review

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
	reviews map[int64]Review
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{reviews: map[int64]Review{}}
}

func (f *fakeStore) sorted(employeeID *int64) []Review {
	var out []Review
	for _, rev := range f.reviews {
		if employeeID != nil && rev.EmployeeID != *employeeID {
			continue
		}
		out = append(out, rev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReviewDate.Equal(out[j].ReviewDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].ReviewDate.After(out[j].ReviewDate)
	})
	return out
}

func (f *fakeStore) List(_ context.Context, employeeID *int64, limit, offset int) ([]Review, int, error) {
	all := f.sorted(employeeID)
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

func (f *fakeStore) Get(_ context.Context, id int64) (Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return Review{}, pgx.ErrNoRows
	}
	return rev, nil
}

func (f *fakeStore) Create(_ context.Context, params Params) (Review, error) {
	for _, existing := range f.reviews {
		if existing.EmployeeID == params.EmployeeID && existing.ReviewPeriod == params.ReviewPeriod {
			return Review{}, apperror.Validation("a review for this employee and review period already exists")
		}
	}
	f.nextID++
	rev := Review{
		ID:           f.nextID,
		EmployeeID:   params.EmployeeID,
		EmployeeName: "Test Employee",
		ReviewPeriod: params.ReviewPeriod,
		Rating:       params.Rating,
		Feedback:     params.Feedback,
		ReviewDate:   params.ReviewDate,
	}
	f.reviews[rev.ID] = rev
	return rev, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, params Params) (Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return Review{}, apperror.NotFound("performance review not found")
	}
	for _, existing := range f.reviews {
		if existing.ID != id && existing.EmployeeID == params.EmployeeID && existing.ReviewPeriod == params.ReviewPeriod {
			return Review{}, apperror.Validation("a review for this employee and review period already exists")
		}
	}
	rev.EmployeeID = params.EmployeeID
	rev.ReviewPeriod = params.ReviewPeriod
	rev.Rating = params.Rating
	rev.Feedback = params.Feedback
	rev.ReviewDate = params.ReviewDate
	f.reviews[id] = rev
	return rev, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.reviews[id]; !ok {
		return false, nil
	}
	delete(f.reviews, id)
	return true, nil
}

func (f *fakeStore) ForEmployee(_ context.Context, employeeID int64) ([]Review, error) {
	return f.sorted(&employeeID), nil
}

func (f *fakeStore) Periods(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rev := range f.reviews {
		if rev.ReviewPeriod != "" && !seen[rev.ReviewPeriod] {
			seen[rev.ReviewPeriod] = true
			out = append(out, rev.ReviewPeriod)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.reviews), nil
}

func (f *fakeStore) RatingDistribution(_ context.Context) ([]RatingCount, error) {
	counts := map[int]int{}
	for _, rev := range f.reviews {
		counts[rev.Rating]++
	}
	var out []RatingCount
	for rating, count := range counts {
		out = append(out, RatingCount{Rating: rating, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out, nil
}

func validParams() Params {
	return Params{
		EmployeeID:   1,
		ReviewPeriod: "Q1 2024",
		Rating:       4,
		ReviewDate:   time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateRatingBounds(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		wantErr bool
	}{
		{name: "rating 0 rejected", rating: 0, wantErr: true},
		{name: "rating 6 rejected", rating: 6, wantErr: true},
		{name: "rating 1 accepted", rating: 1},
		{name: "rating 5 accepted", rating: 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewService(store)
			params := validParams()
			params.Rating = tc.rating

			_, err := svc.Create(context.Background(), params)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
				assert.Empty(t, store.reviews, "no row may be written for an invalid rating")
				return
			}
			require.NoError(t, err)
			assert.Len(t, store.reviews, 1)
		})
	}
}

func TestCreateDuplicatePeriod(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	second := validParams()
	second.Rating = 2
	_, err = svc.Create(ctx, second)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
	assert.Len(t, store.reviews, 1, "exactly one review per employee per period")
}

func TestCreateMissingFields(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Create(context.Background(), Params{Rating: 3})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "employee")
	assert.Contains(t, appErr.Fields, "review_period")
	assert.Contains(t, appErr.Fields, "review_date")
}

func TestUpdateUnknownID(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Update(context.Background(), 99, validParams())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.GetKind(err))
}

func TestDeleteUnknownID(t *testing.T) {
	svc := NewService(newFakeStore())

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.GetKind(err))
}

func TestForEmployeeUnknownIDIsEmptyList(t *testing.T) {
	svc := NewService(newFakeStore())

	reviews, err := svc.ForEmployee(context.Background(), 12345)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestStatisticsDistribution(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	ratings := []int{3, 3, 5}
	for i, rating := range ratings {
		params := validParams()
		params.EmployeeID = int64(i + 1)
		params.Rating = rating
		_, err := svc.Create(ctx, params)
		require.NoError(t, err)
	}

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReviews)
	assert.Equal(t, 3.67, stats.AverageRating)
	require.Equal(t, []RatingCount{{Rating: 3, Count: 2}, {Rating: 5, Count: 1}}, stats.RatingDistribution)
}

func TestStatisticsEmpty(t *testing.T) {
	svc := NewService(newFakeStore())

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.NotNil(t, stats.RatingDistribution)
	assert.Empty(t, stats.RatingDistribution)
}

func TestListFilterByEmployee(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	first := validParams()
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	other := validParams()
	other.EmployeeID = 2
	other.ReviewPeriod = "Q2 2024"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	employeeID := int64(2)
	reviews, total, err := svc.List(ctx, &employeeID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, int64(2), reviews[0].EmployeeID)
}
