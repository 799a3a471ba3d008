package database

// migrations runs in order against a fresh database. Each entry is
// idempotent DDL (one or more IF NOT EXISTS statements) so RunMigrations
// can be re-run safely against an already-migrated database.
var migrations = []string{
	createItemsTable,
	createOptimizeJobsTable,
	createBuildResultsTable,
	createIndexes,
}

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	cost        INTEGER NOT NULL,
	item_groups TEXT[] NOT NULL DEFAULT '{}',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	stats       JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createOptimizeJobsTable = `
CREATE TABLE IF NOT EXISTS optimize_jobs (
	id                UUID PRIMARY KEY,
	client_id         TEXT NOT NULL,
	unit_id           TEXT NOT NULL,
	settings          JSONB NOT NULL,
	status            TEXT NOT NULL DEFAULT 'queued',
	error             TEXT,
	layers_explored   INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at        TIMESTAMPTZ,
	finished_at       TIMESTAMPTZ
)`

const createBuildResultsTable = `
CREATE TABLE IF NOT EXISTS build_results (
	id           BIGSERIAL PRIMARY KEY,
	job_id       UUID NOT NULL REFERENCES optimize_jobs(id) ON DELETE CASCADE,
	rank         INTEGER NOT NULL,
	item_ids     TEXT[] NOT NULL,
	gold         INTEGER NOT NULL,
	dps          DOUBLE PRECISION NOT NULL,
	effective_hp DOUBLE PRECISION NOT NULL,
	move_speed   DOUBLE PRECISION NOT NULL,
	score        DOUBLE PRECISION NOT NULL
)`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_optimize_jobs_client_id ON optimize_jobs(client_id);
CREATE INDEX IF NOT EXISTS idx_optimize_jobs_status ON optimize_jobs(status);
CREATE INDEX IF NOT EXISTS idx_build_results_job_id ON build_results(job_id)`
