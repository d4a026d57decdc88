package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent
// (IF NOT EXISTS / INSERT OR IGNORE), so re-running the full list on an
// existing store is a no-op.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS master_tasks (
		id                      TEXT PRIMARY KEY,
		title                   TEXT NOT NULL,
		responsibility          TEXT NOT NULL DEFAULT '',
		categories              TEXT NOT NULL DEFAULT '',
		rule_kind               TEXT NOT NULL
		                        CHECK(rule_kind IN ('once_off','every_n_days','specific_weekdays',
		                                            'start_of_month','end_of_month','every_month','certain_months')),
		rule_interval_days      INTEGER NOT NULL DEFAULT 0,
		rule_business_days_only INTEGER NOT NULL DEFAULT 0,
		rule_weekdays           TEXT NOT NULL DEFAULT '',
		rule_months             TEXT NOT NULL DEFAULT '',
		timing_class            TEXT NOT NULL DEFAULT 'anytime'
		                        CHECK(timing_class IN ('opening','anytime','before_cutoff','closing')),
		due_time                TEXT NOT NULL DEFAULT '09:00',
		publish_status          TEXT NOT NULL DEFAULT 'draft'
		                        CHECK(publish_status IN ('draft','active','archived')),
		publish_delay_until     TEXT,
		start_date              TEXT NOT NULL,
		end_date                TEXT,
		sticky_once_off         INTEGER NOT NULL DEFAULT 0,
		allow_edit_when_locked  INTEGER NOT NULL DEFAULT 0,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_master_tasks_status ON master_tasks(publish_status)`,

	`CREATE TABLE IF NOT EXISTS task_instances (
		id             TEXT PRIMARY KEY,
		master_task_id TEXT NOT NULL REFERENCES master_tasks(id),
		instance_date  TEXT NOT NULL,
		due_date       TEXT NOT NULL,
		due_time       TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'not_due'
		               CHECK(status IN ('not_due','due_today','overdue','missed','done')),
		completed_at   TEXT,
		completed_by   TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	// The generation idempotency key: one instance per task per date,
	// enforced by the store even under concurrent generation.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_instances_task_date
		ON task_instances(master_task_id, instance_date)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_date ON task_instances(instance_date)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_status ON task_instances(status)`,

	`CREATE TABLE IF NOT EXISTS position_completions (
		id             TEXT PRIMARY KEY,
		instance_id    TEXT NOT NULL REFERENCES task_instances(id),
		position_id    TEXT NOT NULL,
		is_completed   INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		completed_by   TEXT NOT NULL DEFAULT '',
		uncompleted_at TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_completions_instance_position
		ON position_completions(instance_id, position_id)`,

	`CREATE TABLE IF NOT EXISTS holidays (
		date   TEXT NOT NULL,
		name   TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, region)
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id                   TEXT PRIMARY KEY DEFAULT 'default',
		working_days         TEXT NOT NULL DEFAULT '1,2,3,4,5',
		new_task_cutoff_hour INTEGER NOT NULL DEFAULT 10,
		missed_cutoff        TEXT NOT NULL DEFAULT '17:00',
		shift_end            TEXT NOT NULL DEFAULT '11:00',
		missed_grace_days    TEXT NOT NULL DEFAULT '',
		look_ahead_days      INTEGER NOT NULL DEFAULT 0,
		look_behind_days     INTEGER NOT NULL DEFAULT 7,
		holiday_push_forward INTEGER NOT NULL DEFAULT 1,
		timezone             TEXT NOT NULL DEFAULT 'UTC'
	)`,

	// Seed default settings
	`INSERT OR IGNORE INTO settings (id) VALUES ('default')`,
}
