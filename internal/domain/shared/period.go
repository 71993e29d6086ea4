package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period is an accounting month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewPeriod validates and builds a period
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, NewValidationFailure(uuid.Nil, "month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return Period{}, NewValidationFailure(uuid.Nil, "year must be positive, got %d", year)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the accounting period containing t, in UTC
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}
