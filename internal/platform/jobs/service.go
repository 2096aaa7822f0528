package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/config"
)

const JobYearRollover = "leave_year_rollover"

// Service runs background maintenance jobs, currently the periodic leave
// year rollover, recording each run in job_runs.
type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Leave *leave.Service
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, leaveSvc *leave.Service) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		Leave: leaveSvc,
		queue: make(chan job, 32),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.RolloverInterval > 0 {
		go s.scheduleRollover(ctx, s.Cfg.RolloverInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes a job synchronously, still recording the run.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) scheduleRollover(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobYearRollover, func(ctx context.Context) (any, error) {
				summary, err := s.Leave.RunRollover(ctx, time.Now().UTC())
				if errors.Is(err, leave.ErrYearConfigNotFound) {
					// no active year configured yet, nothing to roll
					return leave.RolloverSummary{}, nil
				}
				return summary, err
			})
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	var runID string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, 'running')
    RETURNING id
  `, j.Type).Scan(&runID); err != nil {
		return nil, err
	}

	result, err := j.Run(ctx)
	status := "completed"
	errText := ""
	if err != nil {
		status = "failed"
		errText = err.Error()
	}

	var resultJSON []byte
	if result != nil {
		if payload, marshalErr := json.Marshal(result); marshalErr == nil {
			resultJSON = payload
		}
	}

	if _, updateErr := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $2, error = NULLIF($3, ''), result = $4, finished_at = now()
    WHERE id = $1
  `, runID, status, errText, resultJSON); updateErr != nil {
		slog.Warn("job run update failed", "jobType", j.Type, "err", updateErr)
	}

	return result, err
}

func (s *Service) ListRuns(ctx context.Context, limit int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, COALESCE(error, ''), result, started_at, finished_at
    FROM job_runs
    ORDER BY started_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var id, jobType, status, errText string
		var result []byte
		var startedAt time.Time
		var finishedAt *time.Time
		if err := rows.Scan(&id, &jobType, &status, &errText, &result, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		entry := map[string]any{
			"id":         id,
			"jobType":    jobType,
			"status":     status,
			"startedAt":  startedAt,
			"finishedAt": finishedAt,
		}
		if errText != "" {
			entry["error"] = errText
		}
		if len(result) > 0 {
			entry["result"] = json.RawMessage(result)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
