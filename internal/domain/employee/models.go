package employee

import "time"

type Employee struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Department    string
	DateOfJoining time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Params carries the writable fields for create and full update.
type Params struct {
	FirstName     string
	LastName      string
	Email         string
	Department    string
	DateOfJoining time.Time
}

// ReviewRow is the slice of a performance review needed to compute an
// employee's derived fields.
type ReviewRow struct {
	Rating     int
	Period     string
	ReviewDate time.Time
}

// ReviewDerived holds the response fields computed from an employee's
// reviews. AverageRating and LatestReviewPeriod are nil when the employee has
// no reviews.
type ReviewDerived struct {
	ReviewsCount       int
	AverageRating      *float64
	LatestReviewPeriod *string
}

type WithDerived struct {
	Employee
	ReviewDerived
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Statistics struct {
	TotalEmployees int               `json:"total_employees"`
	Departments    []DepartmentCount `json:"departments"`
}
