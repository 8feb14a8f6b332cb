package employee

import "math"

// DeriveReviewFields computes the per-employee response fields from that
// employee's review rows. Empty input yields zero count and nil average and
// period, never an error.
func DeriveReviewFields(rows []ReviewRow) ReviewDerived {
	derived := ReviewDerived{ReviewsCount: len(rows)}
	if len(rows) == 0 {
		return derived
	}

	sum := 0
	latest := rows[0]
	for _, row := range rows {
		sum += row.Rating
		if row.ReviewDate.After(latest.ReviewDate) {
			latest = row
		}
	}

	average := round2(float64(sum) / float64(len(rows)))
	derived.AverageRating = &average
	period := latest.Period
	derived.LatestReviewPeriod = &period
	return derived
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
