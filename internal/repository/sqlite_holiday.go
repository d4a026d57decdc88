package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
)

// SQLiteHolidayRepo implements HolidayRepo using a SQLite database. The
// holiday list is owned externally; this repo only consumes it, plus a Put
// for loading calendars.
type SQLiteHolidayRepo struct {
	db db.DBTX
}

// NewSQLiteHolidayRepo creates a new SQLiteHolidayRepo.
func NewSQLiteHolidayRepo(db db.DBTX) *SQLiteHolidayRepo {
	return &SQLiteHolidayRepo{db: db}
}

func (r *SQLiteHolidayRepo) Put(ctx context.Context, h *domain.Holiday) error {
	query := `INSERT INTO holidays (date, name, region) VALUES (?, ?, ?)
		ON CONFLICT(date, region) DO UPDATE SET name = excluded.name`
	_, err := r.db.ExecContext(ctx, query, h.Date.Format(dateLayout), h.Name, h.Region)
	if err != nil {
		return fmt.Errorf("upserting holiday: %w", err)
	}
	return nil
}

func (r *SQLiteHolidayRepo) ListRange(ctx context.Context, from, to time.Time) ([]*domain.Holiday, error) {
	query := `SELECT date, name, region FROM holidays
		WHERE date >= ? AND date <= ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		var dateStr string
		if err := rows.Scan(&dateStr, &h.Name, &h.Region); err != nil {
			return nil, fmt.Errorf("scanning holiday: %w", err)
		}
		h.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday date: %w", err)
		}
		holidays = append(holidays, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return holidays, nil
}

func (r *SQLiteHolidayRepo) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM holidays WHERE date = ?`, date.Format(dateLayout),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking holiday: %w", err)
	}
	return count > 0, nil
}
