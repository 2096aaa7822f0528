package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (decimal.Decimal, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return decimal.Zero, ErrInvalidDateRange
	}
	days := int64(e.Sub(s).Hours()/24) + 1
	return decimal.NewFromInt(days), nil
}
