package report

import (
	"context"
	"math"
	"time"
)

// Aggregator computes the scalar and series metrics of the dashboard. Each
// metric is independent: a failing query yields that metric's fallback and
// leaves the others untouched.
type Aggregator struct {
	source    MetricsSource
	fallbacks Fallbacks
	rng       Random
	now       func() time.Time
}

// NewAggregator creates an aggregator over source.
func NewAggregator(source MetricsSource, fallbacks Fallbacks, rng Random, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		source:    source,
		fallbacks: fallbacks,
		rng:       rng,
		now:       now,
	}
}

// RefillsTotal counts completed refills.
func (a *Aggregator) RefillsTotal(ctx context.Context) Metric[int] {
	return attempt(
		func() (int, error) { return a.source.CountCompletedRefills(ctx) },
		func() int { return a.fallbacks.RefillsTotal },
	)
}

// ActiveCustomers counts active customer accounts.
func (a *Aggregator) ActiveCustomers(ctx context.Context) Metric[int] {
	return attempt(
		func() (int, error) { return a.source.CountActiveCustomers(ctx) },
		func() int { return a.fallbacks.ActiveCustomers },
	)
}

// PlasticSaved returns the liters of completed refills and the equivalent
// bottle count. Both come from the same query, so they degrade together and
// the bottle fallback is taken from the table rather than recomputed.
func (a *Aggregator) PlasticSaved(ctx context.Context) (liters Metric[int], bottles Metric[int]) {
	liters = attempt(
		func() (int, error) {
			sum, err := a.source.SumCompletedLiters(ctx)
			if err != nil {
				return 0, err
			}
			if math.IsNaN(sum) || math.IsInf(sum, 0) {
				return 0, ErrMalformedResult
			}
			return int(sum), nil
		},
		func() int { return a.fallbacks.PlasticLitersSaved },
	)

	if liters.Degraded {
		return liters, Fallback(a.fallbacks.BottlesSaved, liters.Cause)
	}
	return liters, Ok(BottlesFor(liters.Value))
}

// DailySeries counts completed refills per day over the 30 days ending today.
func (a *Aggregator) DailySeries(ctx context.Context) Metric[DailySeries] {
	return attempt(
		func() (DailySeries, error) { return a.dailySeries(ctx) },
		a.syntheticSeries,
	)
}

func (a *Aggregator) dailySeries(ctx context.Context) (DailySeries, error) {
	now := a.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(SeriesDays - 1))

	rows, err := a.source.CompletedRefillsByDay(ctx, start.Format(TimestampLayout))
	if err != nil {
		return DailySeries{}, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		key, err := NormalizeDayKey(row.Day)
		if err != nil {
			return DailySeries{}, err
		}
		counts[key] += row.Count
	}

	var series DailySeries
	for i := range series {
		day := start.AddDate(0, 0, i).Format(DayLayout)
		series[i] = counts[day]
	}
	return series, nil
}

// syntheticSeries draws a smooth plausible series for an unavailable database.
func (a *Aggregator) syntheticSeries() DailySeries {
	var series DailySeries
	for i := range series {
		base := 50 + math.Sin(float64(i)/3.2)*18
		series[i] = int(math.Round(base + float64(between(a.rng, 0, 15))))
	}
	return series
}

// VendorBreakdown has no backing query and always reports the fallback.
func (a *Aggregator) VendorBreakdown() Metric[VendorBreakdown] {
	return Fallback(a.fallbacks.VendorBreakdown, ErrNotComputed)
}
