package report

import (
	"context"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// DayCount is one row of the grouped daily query. Day holds the grouping key
// exactly as the driver returned it (time.Time, []byte or string).
type DayCount struct {
	Day   any
	Count int
}

// RefillRow is one row of the recent-activity join. Nil fields were NULL in
// the database.
type RefillRow struct {
	CreatedAt    any
	Customer     *string
	Vendor       *string
	BottleID     *string
	VolumeLiters *int
	Amount       *decimal.Decimal
	Status       string
}

// MetricsSource runs the read-only aggregate queries behind the dashboard.
type MetricsSource interface {
	CountCompletedRefills(ctx context.Context) (int, error)
	CountActiveCustomers(ctx context.Context) (int, error)
	SumCompletedLiters(ctx context.Context) (float64, error)
	CompletedRefillsByDay(ctx context.Context, since string) ([]DayCount, error)
	RecentRefills(ctx context.Context, limit int) ([]RefillRow, error)
}

// Random is the randomness used by synthetic fallback data. *rand.Rand from
// math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

// SystemRandom draws from the process-wide math/rand/v2 source, which is safe
// for concurrent use.
type SystemRandom struct{}

// IntN returns a uniform integer in [0, n).
func (SystemRandom) IntN(n int) int { return rand.IntN(n) }

// between returns a uniform integer in [lo, hi].
func between(r Random, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
