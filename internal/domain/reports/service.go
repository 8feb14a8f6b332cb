// Package reports renders downloadable summaries of the stored employee and
// review statistics.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"perfhub/internal/domain/employee"
	"perfhub/internal/domain/review"
)

type EmployeeStatsAPI interface {
	Statistics(ctx context.Context) (employee.Statistics, error)
}

type ReviewStatsAPI interface {
	Statistics(ctx context.Context) (review.Statistics, error)
}

type Service struct {
	Employees EmployeeStatsAPI
	Reviews   ReviewStatsAPI
	Now       func() time.Time
}

func NewService(employees EmployeeStatsAPI, reviews ReviewStatsAPI) *Service {
	return &Service{Employees: employees, Reviews: reviews, Now: time.Now}
}

// SummaryPDF renders the current employee and review statistics into a PDF.
func (s *Service) SummaryPDF(ctx context.Context) ([]byte, error) {
	employeeStats, err := s.Employees.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	reviewStats, err := s.Reviews.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", s.Now().UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Employees")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total employees: %d", employeeStats.TotalEmployees))
	pdf.Ln(7)
	for _, dc := range employeeStats.Departments {
		pdf.Cell(0, 8, fmt.Sprintf("  %s: %d", dc.Department, dc.Count))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Performance Reviews")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total reviews: %d", reviewStats.TotalReviews))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Average rating: %.2f", reviewStats.AverageRating))
	pdf.Ln(7)
	for _, rc := range reviewStats.RatingDistribution {
		pdf.Cell(0, 8, fmt.Sprintf("  %d (%s): %d", rc.Rating, review.RatingLabel(rc.Rating), rc.Count))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
