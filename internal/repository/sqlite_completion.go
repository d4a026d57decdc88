package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
)

const completionColumns = `id, instance_id, position_id, is_completed,
		completed_at, completed_by, uncompleted_at, created_at, updated_at`

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

// NewSQLiteCompletionRepo creates a new SQLiteCompletionRepo.
func NewSQLiteCompletionRepo(db db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: db}
}

func (r *SQLiteCompletionRepo) Create(ctx context.Context, c *domain.PositionCompletion) error {
	query := `INSERT INTO position_completions (` + completionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.InstanceID,
		c.PositionID,
		boolToInt(c.IsCompleted),
		nullableTimeToString(c.CompletedAt, time.RFC3339),
		c.CompletedBy,
		nullableTimeToString(c.UncompletedAt, time.RFC3339),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("completion for position %s on instance %s: %w",
				c.PositionID, c.InstanceID, domain.ErrConflict)
		}
		return fmt.Errorf("inserting position completion: %w", err)
	}
	return nil
}

// Update toggles an existing record in place; completion rows are never
// deleted.
func (r *SQLiteCompletionRepo) Update(ctx context.Context, c *domain.PositionCompletion) error {
	query := `UPDATE position_completions SET is_completed = ?, completed_at = ?,
		completed_by = ?, uncompleted_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		boolToInt(c.IsCompleted),
		nullableTimeToString(c.CompletedAt, time.RFC3339),
		c.CompletedBy,
		nullableTimeToString(c.UncompletedAt, time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating position completion: %w", err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) GetByInstanceAndPosition(ctx context.Context, instanceID, positionID string) (*domain.PositionCompletion, error) {
	query := `SELECT ` + completionColumns + ` FROM position_completions
		WHERE instance_id = ? AND position_id = ?`
	return r.scanCompletion(r.db.QueryRowContext(ctx, query, instanceID, positionID))
}

func (r *SQLiteCompletionRepo) ListByInstance(ctx context.Context, instanceID string) ([]*domain.PositionCompletion, error) {
	query := `SELECT ` + completionColumns + ` FROM position_completions
		WHERE instance_id = ? ORDER BY position_id`
	rows, err := r.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("listing position completions: %w", err)
	}
	defer rows.Close()

	var completions []*domain.PositionCompletion
	for rows.Next() {
		var c domain.PositionCompletion
		var completedInt int
		var completedAtStr, uncompletedAtStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&c.ID, &c.InstanceID, &c.PositionID, &completedInt,
			&completedAtStr, &c.CompletedBy, &uncompletedAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning position completion row: %w", err)
		}
		populated, err := r.populateCompletion(&c, completedInt, completedAtStr, uncompletedAtStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		completions = append(completions, populated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating position completions: %w", err)
	}
	return completions, nil
}

func (r *SQLiteCompletionRepo) scanCompletion(row *sql.Row) (*domain.PositionCompletion, error) {
	var c domain.PositionCompletion
	var completedInt int
	var completedAtStr, uncompletedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&c.ID, &c.InstanceID, &c.PositionID, &completedInt,
		&completedAtStr, &c.CompletedBy, &uncompletedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("position completion: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning position completion: %w", err)
	}
	return r.populateCompletion(&c, completedInt, completedAtStr, uncompletedAtStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteCompletionRepo) populateCompletion(
	c *domain.PositionCompletion,
	completedInt int,
	completedAtStr, uncompletedAtStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.PositionCompletion, error) {
	c.IsCompleted = intToBool(completedInt)
	c.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	c.UncompletedAt = parseNullableTime(uncompletedAtStr, time.RFC3339)

	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, nil
}
