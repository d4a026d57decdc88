package recurrence

import (
	"time"

	"github.com/hjaltland/rota/internal/domain"
)

// DateSet is an in-memory Calendar built from a loaded holiday range, so a
// generation run consults the store once instead of per candidate date.
type DateSet map[string]bool

// NewDateSet indexes holidays by date. Region is ignored: a holiday in any
// consumed region blocks the date.
func NewDateSet(holidays []*domain.Holiday) DateSet {
	s := make(DateSet, len(holidays))
	for _, h := range holidays {
		s[domain.DateOnly(h.Date).Format("2006-01-02")] = true
	}
	return s
}

func (s DateSet) IsHoliday(date time.Time) bool {
	return s[domain.DateOnly(date).Format("2006-01-02")]
}
