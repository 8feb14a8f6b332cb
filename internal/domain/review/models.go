package review

import "time"

const (
	RatingMin = 1
	RatingMax = 5
)

type Review struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	ReviewPeriod string
	Rating       int
	Feedback     *string
	ReviewDate   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Params struct {
	EmployeeID   int64
	ReviewPeriod string
	Rating       int
	Feedback     *string
	ReviewDate   time.Time
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type Statistics struct {
	TotalReviews       int           `json:"total_reviews"`
	AverageRating      float64       `json:"average_rating"`
	RatingDistribution []RatingCount `json:"rating_distribution"`
}

// RatingLabel maps a stored rating to its display name. Out-of-range values
// cannot be written past the check constraint but still render as "Unknown".
func RatingLabel(rating int) string {
	switch rating {
	case 1:
		return "Poor"
	case 2:
		return "Below Average"
	case 3:
		return "Average"
	case 4:
		return "Good"
	case 5:
		return "Excellent"
	default:
		return "Unknown"
	}
}
