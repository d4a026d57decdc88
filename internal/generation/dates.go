package generation

import (
	"fmt"
	"time"

	"github.com/hjaltland/rota/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseRequiredDate parses a required YYYY-MM-DD date with field-aware errors.
func ParseRequiredDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD): %w",
			field, value, domain.ErrValidation)
	}
	return t, nil
}

// ParseOptionalDate parses an optional YYYY-MM-DD date with field-aware errors.
func ParseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := ParseRequiredDate(*value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
