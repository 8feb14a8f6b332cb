package review

import "math"

// AverageFromDistribution computes the mean rating from grouped counts,
// rounded to two decimal places. An empty distribution yields 0.
func AverageFromDistribution(distribution []RatingCount) float64 {
	total := 0
	sum := 0
	for _, rc := range distribution {
		total += rc.Count
		sum += rc.Rating * rc.Count
	}
	if total == 0 {
		return 0
	}
	return round2(float64(sum) / float64(total))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
