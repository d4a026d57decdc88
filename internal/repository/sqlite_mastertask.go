package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
)

// masterTaskColumns is the canonical SELECT column list for master_tasks.
const masterTaskColumns = `id, title, responsibility, categories,
		rule_kind, rule_interval_days, rule_business_days_only, rule_weekdays, rule_months,
		timing_class, due_time, publish_status, publish_delay_until,
		start_date, end_date, sticky_once_off, allow_edit_when_locked,
		created_at, updated_at`

// SQLiteMasterTaskRepo implements MasterTaskRepo using a SQLite database.
type SQLiteMasterTaskRepo struct {
	db db.DBTX
}

// NewSQLiteMasterTaskRepo creates a new SQLiteMasterTaskRepo.
func NewSQLiteMasterTaskRepo(db db.DBTX) *SQLiteMasterTaskRepo {
	return &SQLiteMasterTaskRepo{db: db}
}

func (r *SQLiteMasterTaskRepo) Create(ctx context.Context, t *domain.MasterTask) error {
	if err := t.Rule.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO master_tasks (` + masterTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		joinCSV(t.Responsibility),
		joinCSV(t.Categories),
		string(t.Rule.Kind),
		t.Rule.IntervalDays,
		boolToInt(t.Rule.BusinessDaysOnly),
		joinIntCSV(weekdaysToInts(t.Rule.Weekdays)),
		joinIntCSV(monthsToInts(t.Rule.Months)),
		string(t.TimingClass),
		t.DueTime.String(),
		string(t.PublishStatus),
		nullableTimeToString(t.PublishDelayUntil, dateLayout),
		t.StartDate.Format(dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		boolToInt(t.StickyOnceOff),
		boolToInt(t.AllowEditWhenLocked),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting master task: %w", err)
	}
	return nil
}

func (r *SQLiteMasterTaskRepo) GetByID(ctx context.Context, id string) (*domain.MasterTask, error) {
	query := `SELECT ` + masterTaskColumns + ` FROM master_tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTask(row)
}

func (r *SQLiteMasterTaskRepo) List(ctx context.Context, includeArchived bool) ([]*domain.MasterTask, error) {
	query := `SELECT ` + masterTaskColumns + ` FROM master_tasks ORDER BY created_at`
	if !includeArchived {
		query = `SELECT ` + masterTaskColumns + ` FROM master_tasks
			WHERE publish_status != 'archived' ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing master tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteMasterTaskRepo) ListActive(ctx context.Context) ([]*domain.MasterTask, error) {
	query := `SELECT ` + masterTaskColumns + ` FROM master_tasks
		WHERE publish_status = 'active' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active master tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteMasterTaskRepo) Update(ctx context.Context, t *domain.MasterTask) error {
	if err := t.Rule.Validate(); err != nil {
		return err
	}
	query := `UPDATE master_tasks SET title = ?, responsibility = ?, categories = ?,
		rule_kind = ?, rule_interval_days = ?, rule_business_days_only = ?, rule_weekdays = ?, rule_months = ?,
		timing_class = ?, due_time = ?, publish_status = ?, publish_delay_until = ?,
		start_date = ?, end_date = ?, sticky_once_off = ?, allow_edit_when_locked = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Title,
		joinCSV(t.Responsibility),
		joinCSV(t.Categories),
		string(t.Rule.Kind),
		t.Rule.IntervalDays,
		boolToInt(t.Rule.BusinessDaysOnly),
		joinIntCSV(weekdaysToInts(t.Rule.Weekdays)),
		joinIntCSV(monthsToInts(t.Rule.Months)),
		string(t.TimingClass),
		t.DueTime.String(),
		string(t.PublishStatus),
		nullableTimeToString(t.PublishDelayUntil, dateLayout),
		t.StartDate.Format(dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		boolToInt(t.StickyOnceOff),
		boolToInt(t.AllowEditWhenLocked),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating master task: %w", err)
	}
	return nil
}

// Archive marks the task archived. Tasks owning instances are never
// hard-deleted, so there is no Delete.
func (r *SQLiteMasterTaskRepo) Archive(ctx context.Context, id string) error {
	query := `UPDATE master_tasks SET publish_status = 'archived', updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("archiving master task: %w", err)
	}
	return nil
}

// scanTask scans a single master task from a *sql.Row.
func (r *SQLiteMasterTaskRepo) scanTask(row *sql.Row) (*domain.MasterTask, error) {
	var t domain.MasterTask
	var respStr, catStr, kindStr, weekdaysStr, monthsStr string
	var timingStr, dueTimeStr, statusStr string
	var delayStr, endDateStr sql.NullString
	var businessOnlyInt, stickyInt, allowEditInt int
	var startDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.Title, &respStr, &catStr,
		&kindStr, &t.Rule.IntervalDays, &businessOnlyInt, &weekdaysStr, &monthsStr,
		&timingStr, &dueTimeStr, &statusStr, &delayStr,
		&startDateStr, &endDateStr, &stickyInt, &allowEditInt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("master task: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning master task: %w", err)
	}

	return r.populateTask(&t, respStr, catStr, kindStr, weekdaysStr, monthsStr,
		timingStr, dueTimeStr, statusStr, delayStr, endDateStr,
		businessOnlyInt, stickyInt, allowEditInt, startDateStr, createdAtStr, updatedAtStr)
}

// scanTasks scans multiple master tasks from *sql.Rows.
func (r *SQLiteMasterTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.MasterTask, error) {
	var tasks []*domain.MasterTask
	for rows.Next() {
		var t domain.MasterTask
		var respStr, catStr, kindStr, weekdaysStr, monthsStr string
		var timingStr, dueTimeStr, statusStr string
		var delayStr, endDateStr sql.NullString
		var businessOnlyInt, stickyInt, allowEditInt int
		var startDateStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&t.ID, &t.Title, &respStr, &catStr,
			&kindStr, &t.Rule.IntervalDays, &businessOnlyInt, &weekdaysStr, &monthsStr,
			&timingStr, &dueTimeStr, &statusStr, &delayStr,
			&startDateStr, &endDateStr, &stickyInt, &allowEditInt,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning master task row: %w", err)
		}

		task, err := r.populateTask(&t, respStr, catStr, kindStr, weekdaysStr, monthsStr,
			timingStr, dueTimeStr, statusStr, delayStr, endDateStr,
			businessOnlyInt, stickyInt, allowEditInt, startDateStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating master tasks: %w", err)
	}
	return tasks, nil
}

// populateTask fills in parsed fields on a MasterTask after scanning raw values.
func (r *SQLiteMasterTaskRepo) populateTask(
	t *domain.MasterTask,
	respStr, catStr, kindStr, weekdaysStr, monthsStr string,
	timingStr, dueTimeStr, statusStr string,
	delayStr, endDateStr sql.NullString,
	businessOnlyInt, stickyInt, allowEditInt int,
	startDateStr, createdAtStr, updatedAtStr string,
) (*domain.MasterTask, error) {
	t.Responsibility = splitCSV(respStr)
	t.Categories = splitCSV(catStr)
	t.Rule.Kind = domain.RuleKind(kindStr)
	t.Rule.BusinessDaysOnly = intToBool(businessOnlyInt)
	t.TimingClass = domain.TimingClass(timingStr)
	t.PublishStatus = domain.PublishStatus(statusStr)
	t.StickyOnceOff = intToBool(stickyInt)
	t.AllowEditWhenLocked = intToBool(allowEditInt)
	t.PublishDelayUntil = parseNullableTime(delayStr, dateLayout)
	t.EndDate = parseNullableTime(endDateStr, dateLayout)

	weekdayInts, err := splitIntCSV(weekdaysStr)
	if err != nil {
		return nil, fmt.Errorf("parsing rule_weekdays: %w", err)
	}
	t.Rule.Weekdays = intsToWeekdays(weekdayInts)

	monthInts, err := splitIntCSV(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("parsing rule_months: %w", err)
	}
	t.Rule.Months = intsToMonths(monthInts)

	t.DueTime, err = domain.ParseDueTime(dueTimeStr)
	if err != nil {
		return nil, fmt.Errorf("parsing due_time: %w", err)
	}

	t.StartDate, err = time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return t, nil
}

func weekdaysToInts(ws []time.Weekday) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = int(w)
	}
	return out
}

func intsToWeekdays(vals []int) []time.Weekday {
	if len(vals) == 0 {
		return nil
	}
	out := make([]time.Weekday, len(vals))
	for i, v := range vals {
		out[i] = time.Weekday(v)
	}
	return out
}

func monthsToInts(ms []time.Month) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = int(m)
	}
	return out
}

func intsToMonths(vals []int) []time.Month {
	if len(vals) == 0 {
		return nil
	}
	out := make([]time.Month, len(vals))
	for i, v := range vals {
		out[i] = time.Month(v)
	}
	return out
}
