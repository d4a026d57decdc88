package lifecycle

import (
	"testing"
	"time"

	"github.com/hjaltland/rota/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) Policy {
	t.Helper()
	p, err := PolicyFromSettings(domain.DefaultSettings())
	require.NoError(t, err)
	return p
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// Scenario: daily task due 09:30 on 2025-01-02, default cutoff 17:00.
func TestCompute_DayProgression(t *testing.T) {
	p := testPolicy(t)
	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("09:30"),
		TimingClass: domain.TimingBeforeCutoff,
	}

	cases := []struct {
		name string
		now  time.Time
		want domain.InstanceStatus
	}{
		{"before due time", at(2025, 1, 2, 8, 0), domain.StatusNotDue},
		{"at due time", at(2025, 1, 2, 9, 30), domain.StatusDueToday},
		{"between due and cutoff", at(2025, 1, 2, 14, 0), domain.StatusDueToday},
		{"at cutoff", at(2025, 1, 2, 17, 0), domain.StatusOverdue},
		{"late evening", at(2025, 1, 2, 23, 59), domain.StatusOverdue},
		{"after midnight rollover", at(2025, 1, 3, 0, 0), domain.StatusMissed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in.Now = tc.now
			assert.Equal(t, tc.want, Compute(in, p))
		})
	}
}

func TestCompute_StatusNeverRegressesWithinDay(t *testing.T) {
	p := testPolicy(t)
	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("09:30"),
		TimingClass: domain.TimingClosing,
	}

	order := map[domain.InstanceStatus]int{
		domain.StatusNotDue: 0, domain.StatusDueToday: 1,
		domain.StatusOverdue: 2, domain.StatusMissed: 3,
	}
	prev := -1
	for now := at(2025, 1, 2, 0, 0); now.Before(at(2025, 1, 3, 6, 0)); now = now.Add(30 * time.Minute) {
		in.Now = now
		rank := order[Compute(in, p)]
		assert.GreaterOrEqual(t, rank, prev, "status regressed at %s", now)
		prev = rank
	}
}

func TestCompute_OpeningUsesShiftEndBoundary(t *testing.T) {
	p := testPolicy(t)
	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("07:00"),
		TimingClass: domain.TimingOpening,
	}

	in.Now = at(2025, 1, 2, 10, 59)
	assert.Equal(t, domain.StatusDueToday, Compute(in, p))

	in.Now = at(2025, 1, 2, 11, 0) // default shift end
	assert.Equal(t, domain.StatusOverdue, Compute(in, p))
}

func TestCompute_AnytimeSkipsOverdue(t *testing.T) {
	p := testPolicy(t)
	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("00:00"),
		TimingClass: domain.TimingAnytime,
	}

	in.Now = at(2025, 1, 2, 23, 0)
	assert.Equal(t, domain.StatusDueToday, Compute(in, p), "anytime has no intraday cutoff")

	in.Now = at(2025, 1, 3, 0, 0)
	assert.Equal(t, domain.StatusMissed, Compute(in, p))
}

func TestCompute_GraceDaysDelayMissed(t *testing.T) {
	s := domain.DefaultSettings()
	s.MissedGraceDays = map[domain.TimingClass]int{domain.TimingClosing: 1}
	p, err := PolicyFromSettings(s)
	require.NoError(t, err)

	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("09:00"),
		TimingClass: domain.TimingClosing,
		Now:         at(2025, 1, 3, 12, 0),
	}
	assert.Equal(t, domain.StatusOverdue, Compute(in, p), "grace day holds the instance at overdue")

	in.Now = at(2025, 1, 4, 0, 0)
	assert.Equal(t, domain.StatusMissed, Compute(in, p))
}

func TestCompute_CompletedWinsEverywhere(t *testing.T) {
	p := testPolicy(t)
	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("09:30"),
		TimingClass: domain.TimingBeforeCutoff,
		Completed:   true,
	}

	for _, now := range []time.Time{
		at(2025, 1, 2, 8, 0), at(2025, 1, 2, 18, 0), at(2025, 1, 10, 0, 0),
	} {
		in.Now = now
		assert.Equal(t, domain.StatusDone, Compute(in, p))
	}
}

func TestCompute_TimezoneBoundaries(t *testing.T) {
	s := domain.DefaultSettings()
	s.Timezone = "Pacific/Auckland"
	p, err := PolicyFromSettings(s)
	require.NoError(t, err)

	in := Input{
		DueDate:     at(2025, 1, 2, 0, 0),
		DueTime:     domain.MustDueTime("09:30"),
		TimingClass: domain.TimingBeforeCutoff,
	}

	// 20:00 UTC on Jan 1 is 09:00 Jan 2 in Auckland (UTC+13 in January).
	in.Now = time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.StatusNotDue, Compute(in, p))

	// 21:00 UTC on Jan 1 is 10:00 Jan 2 local: past due time.
	in.Now = time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.StatusDueToday, Compute(in, p))
}

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit(domain.StatusDueToday, false))
	assert.True(t, CanEdit(domain.StatusOverdue, false))
	assert.False(t, CanEdit(domain.StatusMissed, false), "missed locks the instance")
	assert.True(t, CanEdit(domain.StatusMissed, true), "allow_edit_when_locked overrides the lock")
}
