package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/brianvoe/gofakeit"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"perfhub/internal/domain/auth"
	"perfhub/internal/platform/config"
)

var seedDepartments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance"}

var seedPeriods = []string{"Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023", "Q1 2024", "Q2 2024"}

// Seed ensures the admin account exists and, when enabled, fills the tables
// with generated sample data. Every insert is idempotent so repeated startups
// are safe.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg); err != nil {
		return err
	}
	if cfg.SeedSampleData {
		if err := seedSampleData(ctx, pool, cfg.SeedSampleEmployees); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	username := cfg.SeedAdminUsername
	email := cfg.SeedAdminEmail
	if email == "" {
		email = username + "@example.com"
	}
	password := cfg.SeedAdminPassword
	if password == "" {
		if cfg.Environment == "production" {
			return fmt.Errorf("refusing to seed admin without SEED_ADMIN_PASSWORD in production")
		}
		password = "admin123"
	}

	var exists bool
	err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		 VALUES ($1, $2, $3, true, true)
		 ON CONFLICT (username) DO NOTHING`,
		username, email, hash)
	if err != nil {
		return err
	}
	slog.Info("seeded admin user", "username", username)
	return nil
}

func seedSampleData(ctx context.Context, pool *pgxpool.Pool, count int) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM employees").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	gofakeit.Seed(time.Now().UnixNano())

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		firstName := gofakeit.FirstName()
		lastName := gofakeit.LastName()
		email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", firstName, lastName, i))
		department := seedDepartments[i%len(seedDepartments)]
		joined := time.Now().AddDate(0, -gofakeit.Number(6, 48), 0)

		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO employees (first_name, last_name, email, department, date_of_joining)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (email) DO NOTHING
			 RETURNING id`,
			firstName, lastName, email, department, joined).Scan(&id)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, employeeID := range ids {
		employeeID := employeeID
		group.Go(func() error {
			return seedReviewsFor(groupCtx, pool, employeeID)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	slog.Info("seeded sample data", "employees", len(ids))
	return nil
}

func seedReviewsFor(ctx context.Context, pool *pgxpool.Pool, employeeID int64) error {
	reviewCount := gofakeit.Number(2, 4)
	for i := 0; i < reviewCount; i++ {
		period := seedPeriods[i]
		rating := gofakeit.Number(3, 5)
		feedback := gofakeit.Sentence(8)
		reviewDate := time.Now().AddDate(0, -((len(seedPeriods) - i) * 3), 0)

		_, err := pool.Exec(ctx,
			`INSERT INTO performance_reviews (employee_id, review_period, rating, feedback, review_date)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (employee_id, review_period) DO NOTHING`,
			employeeID, period, rating, feedback, reviewDate)
		if err != nil {
			return err
		}
	}
	return nil
}
