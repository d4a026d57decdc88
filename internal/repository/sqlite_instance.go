package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
)

// instanceColumns is the canonical SELECT column list for task_instances.
const instanceColumns = `id, master_task_id, instance_date, due_date, due_time, status,
		completed_at, completed_by, created_at, updated_at`

// SQLiteInstanceRepo implements InstanceRepo using a SQLite database.
type SQLiteInstanceRepo struct {
	db db.DBTX
}

// NewSQLiteInstanceRepo creates a new SQLiteInstanceRepo.
func NewSQLiteInstanceRepo(db db.DBTX) *SQLiteInstanceRepo {
	return &SQLiteInstanceRepo{db: db}
}

func (r *SQLiteInstanceRepo) Create(ctx context.Context, inst *domain.TaskInstance) error {
	query := `INSERT INTO task_instances (` + instanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		inst.ID,
		inst.MasterTaskID,
		inst.InstanceDate.Format(dateLayout),
		inst.DueDate.Format(dateLayout),
		inst.DueTime.String(),
		string(inst.Status),
		nullableTimeToString(inst.CompletedAt, time.RFC3339),
		inst.CompletedBy,
		inst.CreatedAt.Format(time.RFC3339),
		inst.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("instance for task %s on %s: %w",
				inst.MasterTaskID, inst.InstanceDate.Format(dateLayout), domain.ErrConflict)
		}
		return fmt.Errorf("inserting task instance: %w", err)
	}
	return nil
}

func (r *SQLiteInstanceRepo) GetByID(ctx context.Context, id string) (*domain.TaskInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM task_instances WHERE id = ?`
	return r.scanInstance(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteInstanceRepo) GetByTaskAndDate(ctx context.Context, taskID string, date time.Time) (*domain.TaskInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM task_instances
		WHERE master_task_id = ? AND instance_date = ?`
	return r.scanInstance(r.db.QueryRowContext(ctx, query, taskID, date.Format(dateLayout)))
}

func (r *SQLiteInstanceRepo) ExistsForTask(ctx context.Context, taskID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_instances WHERE master_task_id = ?`, taskID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking instance existence: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteInstanceRepo) ListByDate(ctx context.Context, date time.Time) ([]*domain.TaskInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM task_instances
		WHERE instance_date = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing instances by date: %w", err)
	}
	defer rows.Close()
	return r.scanInstances(rows)
}

func (r *SQLiteInstanceRepo) ListOpenBefore(ctx context.Context, date time.Time) ([]*domain.TaskInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM task_instances
		WHERE instance_date < ? AND status IN ('not_due', 'due_today', 'overdue')
		ORDER BY instance_date`
	rows, err := r.db.QueryContext(ctx, query, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing open instances: %w", err)
	}
	defer rows.Close()
	return r.scanInstances(rows)
}

func (r *SQLiteInstanceRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM task_instances
		WHERE master_task_id = ? ORDER BY instance_date`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing instances by task: %w", err)
	}
	defer rows.Close()
	return r.scanInstances(rows)
}

func (r *SQLiteInstanceRepo) Update(ctx context.Context, inst *domain.TaskInstance) error {
	query := `UPDATE task_instances SET due_date = ?, due_time = ?, status = ?,
		completed_at = ?, completed_by = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		inst.DueDate.Format(dateLayout),
		inst.DueTime.String(),
		string(inst.Status),
		nullableTimeToString(inst.CompletedAt, time.RFC3339),
		inst.CompletedBy,
		inst.UpdatedAt.Format(time.RFC3339),
		inst.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task instance: %w", err)
	}
	return nil
}

// scanInstance scans a single instance from a *sql.Row.
func (r *SQLiteInstanceRepo) scanInstance(row *sql.Row) (*domain.TaskInstance, error) {
	var inst domain.TaskInstance
	var instDateStr, dueDateStr, dueTimeStr, statusStr string
	var completedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&inst.ID, &inst.MasterTaskID, &instDateStr, &dueDateStr, &dueTimeStr, &statusStr,
		&completedAtStr, &inst.CompletedBy, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task instance: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task instance: %w", err)
	}
	return r.populateInstance(&inst, instDateStr, dueDateStr, dueTimeStr, statusStr,
		completedAtStr, createdAtStr, updatedAtStr)
}

// scanInstances scans multiple instances from *sql.Rows.
func (r *SQLiteInstanceRepo) scanInstances(rows *sql.Rows) ([]*domain.TaskInstance, error) {
	var instances []*domain.TaskInstance
	for rows.Next() {
		var inst domain.TaskInstance
		var instDateStr, dueDateStr, dueTimeStr, statusStr string
		var completedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&inst.ID, &inst.MasterTaskID, &instDateStr, &dueDateStr, &dueTimeStr, &statusStr,
			&completedAtStr, &inst.CompletedBy, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task instance row: %w", err)
		}

		populated, err := r.populateInstance(&inst, instDateStr, dueDateStr, dueTimeStr, statusStr,
			completedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		instances = append(instances, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task instances: %w", err)
	}
	return instances, nil
}

// populateInstance fills in parsed fields on a TaskInstance after scanning raw values.
func (r *SQLiteInstanceRepo) populateInstance(
	inst *domain.TaskInstance,
	instDateStr, dueDateStr, dueTimeStr, statusStr string,
	completedAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.TaskInstance, error) {
	inst.Status = domain.InstanceStatus(statusStr)
	inst.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

	var err error
	inst.InstanceDate, err = time.Parse(dateLayout, instDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing instance_date: %w", err)
	}
	inst.DueDate, err = time.Parse(dateLayout, dueDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	inst.DueTime, err = domain.ParseDueTime(dueTimeStr)
	if err != nil {
		return nil, fmt.Errorf("parsing due_time: %w", err)
	}
	inst.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	inst.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return inst, nil
}
