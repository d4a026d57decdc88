package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/hjaltland/rota/internal/db"
	"github.com/hjaltland/rota/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo over the single seeded
// settings row.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(db db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: db}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT working_days, new_task_cutoff_hour, missed_cutoff, shift_end,
		missed_grace_days, look_ahead_days, look_behind_days, holiday_push_forward, timezone
		FROM settings WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var s domain.Settings
	var workingDaysStr, missedCutoffStr, shiftEndStr, graceStr string
	var pushForwardInt int

	err := row.Scan(
		&workingDaysStr, &s.NewTaskCutoffHour, &missedCutoffStr, &shiftEndStr,
		&graceStr, &s.LookAheadDays, &s.LookBehindDays, &pushForwardInt, &s.Timezone,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("settings: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning settings: %w", err)
	}

	dayInts, err := splitIntCSV(workingDaysStr)
	if err != nil {
		return nil, fmt.Errorf("parsing working_days: %w", err)
	}
	s.WorkingDays = intsToWeekdays(dayInts)

	s.MissedCutoff, err = domain.ParseDueTime(missedCutoffStr)
	if err != nil {
		return nil, fmt.Errorf("parsing missed_cutoff: %w", err)
	}
	s.ShiftEnd, err = domain.ParseDueTime(shiftEndStr)
	if err != nil {
		return nil, fmt.Errorf("parsing shift_end: %w", err)
	}
	s.MissedGraceDays, err = decodeGraceDays(graceStr)
	if err != nil {
		return nil, fmt.Errorf("parsing missed_grace_days: %w", err)
	}
	s.HolidayPushForward = intToBool(pushForwardInt)

	// Reject bad timezone identifiers here rather than at evaluation time.
	if _, err := s.Location(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	if _, err := s.Location(); err != nil {
		return err
	}
	query := `INSERT INTO settings (id, working_days, new_task_cutoff_hour, missed_cutoff, shift_end,
		missed_grace_days, look_ahead_days, look_behind_days, holiday_push_forward, timezone)
		VALUES ('default', ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			working_days = excluded.working_days,
			new_task_cutoff_hour = excluded.new_task_cutoff_hour,
			missed_cutoff = excluded.missed_cutoff,
			shift_end = excluded.shift_end,
			missed_grace_days = excluded.missed_grace_days,
			look_ahead_days = excluded.look_ahead_days,
			look_behind_days = excluded.look_behind_days,
			holiday_push_forward = excluded.holiday_push_forward,
			timezone = excluded.timezone`
	_, err := r.db.ExecContext(ctx, query,
		joinIntCSV(weekdaysToInts(s.WorkingDays)),
		s.NewTaskCutoffHour,
		s.MissedCutoff.String(),
		s.ShiftEnd.String(),
		encodeGraceDays(s.MissedGraceDays),
		s.LookAheadDays,
		s.LookBehindDays,
		boolToInt(s.HolidayPushForward),
		s.Timezone,
	)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

// encodeGraceDays stores the per-class grace map as "class=days" pairs.
func encodeGraceDays(m map[domain.TimingClass]int) string {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for _, class := range []domain.TimingClass{
		domain.TimingOpening, domain.TimingAnytime, domain.TimingBeforeCutoff, domain.TimingClosing,
	} {
		if days, ok := m[class]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", class, days))
		}
	}
	return strings.Join(parts, ",")
}

func decodeGraceDays(s string) (map[domain.TimingClass]int, error) {
	m := map[domain.TimingClass]int{}
	if s == "" {
		return m, nil
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed grace entry %q", part)
		}
		class := domain.TimingClass(strings.TrimSpace(kv[0]))
		if !domain.ValidTimingClasses[class] {
			return nil, fmt.Errorf("unknown timing class %q", kv[0])
		}
		days, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("parsing grace days %q: %w", kv[1], err)
		}
		m[class] = days
	}
	return m, nil
}
