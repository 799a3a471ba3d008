// Package jobstore persists optimize job submissions and their build
// results to Postgres, so a job's status and results survive past the
// HTTP request that queued it and can be polled or streamed later.
package jobstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cafe1231/loadout-optimizer/internal/buildopt"
	"github.com/cafe1231/loadout-optimizer/internal/database"
)

// Status is an optimize job's lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job is one optimize request and its outcome.
type Job struct {
	ID             uuid.UUID       `db:"id"`
	ClientID       string          `db:"client_id"`
	UnitID         string          `db:"unit_id"`
	Settings       json.RawMessage `db:"settings"`
	Status         Status          `db:"status"`
	Error          *string         `db:"error"`
	LayersExplored int             `db:"layers_explored"`
	CreatedAt      time.Time       `db:"created_at"`
	StartedAt      *time.Time      `db:"started_at"`
	FinishedAt     *time.Time      `db:"finished_at"`
}

// BuildResult is one ranked build persisted for a finished job.
type BuildResult struct {
	JobID       uuid.UUID `db:"job_id"`
	Rank        int       `db:"rank"`
	ItemIDs     []string  `db:"item_ids"`
	Gold        int       `db:"gold"`
	DPS         float64   `db:"dps"`
	EffectiveHP float64   `db:"effective_hp"`
	MoveSpeed   float64   `db:"move_speed"`
	Score       float64   `db:"score"`
}

// Store persists optimize jobs and their results; PostgresStore is the
// Postgres-backed implementation.
type Store interface {
	Create(job *Job) error
	MarkRunning(id uuid.UUID) error
	MarkSucceeded(id uuid.UUID, results []buildopt.BuildContainer, weights buildopt.JudgmentWeights, layersExplored int) error
	MarkFailed(id uuid.UUID, cause error) error
	Get(id uuid.UUID) (*Job, error)
	Results(id uuid.UUID) ([]BuildResult, error)
}

// PostgresStore is the default Store.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore returns a Store backed by db.
func NewPostgresStore(db *database.DB) Store {
	return &PostgresStore{db: db}
}

// Create inserts a new queued job.
func (s *PostgresStore) Create(job *Job) error {
	const query = `
		INSERT INTO optimize_jobs (id, client_id, unit_id, settings, status, created_at)
		VALUES (:id, :client_id, :unit_id, :settings, :status, :created_at)`
	job.Status = StatusQueued
	job.CreatedAt = time.Now()
	_, err := s.db.NamedExec(query, job)
	if err != nil {
		return fmt.Errorf("jobstore: create job: %w", err)
	}
	return nil
}

// MarkRunning flips a job to running and stamps started_at.
func (s *PostgresStore) MarkRunning(id uuid.UUID) error {
	const query = `UPDATE optimize_jobs SET status = $1, started_at = $2 WHERE id = $3`
	_, err := s.db.Exec(query, StatusRunning, time.Now(), id)
	if err != nil {
		return fmt.Errorf("jobstore: mark running: %w", err)
	}
	return nil
}

// MarkSucceeded records the final build list and flips the job to succeeded.
func (s *PostgresStore) MarkSucceeded(id uuid.UUID, results []buildopt.BuildContainer, weights buildopt.JudgmentWeights, layersExplored int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("jobstore: begin tx: %w", err)
	}
	defer tx.Rollback()

	const updateQuery = `UPDATE optimize_jobs SET status = $1, finished_at = $2, layers_explored = $3 WHERE id = $4`
	if _, err := tx.Exec(updateQuery, StatusSucceeded, time.Now(), layersExplored, id); err != nil {
		return fmt.Errorf("jobstore: update job: %w", err)
	}

	const insertQuery = `
		INSERT INTO build_results (job_id, rank, item_ids, gold, dps, effective_hp, move_speed, score)
		VALUES (:job_id, :rank, :item_ids, :gold, :dps, :effective_hp, :move_speed, :score)`
	for i, bc := range results {
		row := BuildResult{
			JobID:       id,
			Rank:        i + 1,
			ItemIDs:     nonEmptySlots(bc),
			Gold:        bc.FinalGold(),
			DPS:         bc.FinalDPS(),
			EffectiveHP: bc.FinalDefense(),
			MoveSpeed:   bc.FinalMoveSpeed(),
			Score:       bc.GoldWeightedAverageScore(weights),
		}
		if _, err := tx.NamedExec(insertQuery, row); err != nil {
			return fmt.Errorf("jobstore: insert build result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("jobstore: commit: %w", err)
	}
	return nil
}

// MarkFailed flips a job to failed with cause's message recorded.
func (s *PostgresStore) MarkFailed(id uuid.UUID, cause error) error {
	const query = `UPDATE optimize_jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`
	msg := cause.Error()
	_, err := s.db.Exec(query, StatusFailed, msg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("jobstore: mark failed: %w", err)
	}
	return nil
}

// Get fetches a job by ID.
func (s *PostgresStore) Get(id uuid.UUID) (*Job, error) {
	var job Job
	if err := s.db.Get(&job, `SELECT * FROM optimize_jobs WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("jobstore: get job: %w", err)
	}
	return &job, nil
}

// Results fetches every persisted build result for a job, ordered by rank.
func (s *PostgresStore) Results(id uuid.UUID) ([]BuildResult, error) {
	var results []BuildResult
	err := s.db.Select(&results, `SELECT * FROM build_results WHERE job_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("jobstore: list results: %w", err)
	}
	return results, nil
}

func nonEmptySlots(bc buildopt.BuildContainer) []string {
	out := make([]string, 0, len(bc.Build.Slots))
	for _, s := range bc.Build.Slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
