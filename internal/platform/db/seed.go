package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/config"
)

// Seed ensures the baseline leave types exist, plus a small demo data set
// when SEED_DEMO_DATA is set.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	types := []struct {
		name, code string
		paid       bool
	}{
		{"Vacation Leave", "VL", true},
		{"Sick Leave", "SL", true},
		{"Leave Without Pay", "LWOP", false},
	}
	for _, t := range types {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (name, code, is_paid)
      VALUES ($1,$2,$3)
      ON CONFLICT (code) DO NOTHING
    `, t.name, t.code, t.paid); err != nil {
			return err
		}
	}

	if !cfg.SeedDemoData {
		return nil
	}
	return seedDemo(ctx, pool)
}

func seedDemo(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	employees := []struct {
		first, last, email, status string
		hired                      time.Time
	}{
		{"Maria", "Santos", "maria.santos@example.com", "Regular", time.Date(2019, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"Jose", "Reyes", "jose.reyes@example.com", "Regular", time.Date(2021, 8, 2, 0, 0, 0, 0, time.UTC)},
		{"Ana", "Cruz", "ana.cruz@example.com", "Probationary", time.Now().UTC().AddDate(0, -3, 0)},
	}
	for _, e := range employees {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees (first_name, last_name, email, hire_date, employment_status)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (email) DO NOTHING
    `, e.first, e.last, e.email, e.hired, e.status); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if _, err := pool.Exec(ctx, `
    INSERT INTO leave_year_configs (year, cutoff_start, cutoff_end, remarks, active)
    VALUES ($1,$2,$3,'seeded demo year',true)
    ON CONFLICT (year) DO NOTHING
  `, leave.YearIdentifier(start, end), start, end); err != nil {
		return err
	}

	return nil
}
