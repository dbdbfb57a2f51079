package report

import "context"

// Payload is the single structure handed to the presentation layer.
type Payload struct {
	RefillsTotal       int              `json:"refillsTotal"`
	ActiveCustomers    int              `json:"activeCustomers"`
	PlasticLitersSaved int              `json:"plasticLitersSaved"`
	BottlesSaved       int              `json:"bottlesSaved"`
	DailySeries        DailySeries      `json:"dailySeries"`
	VendorBreakdown    VendorBreakdown  `json:"vendorBreakdown"`
	RecentActivity     []ActivityRecord `json:"recentActivity"`
}

// Degradation records one metric that was replaced by its fallback.
type Degradation struct {
	Metric string
	Cause  error
}

// Report pairs the payload with the list of degraded metrics. Degraded is
// diagnostic only and never changes the payload.
type Report struct {
	Payload  Payload
	Degraded []Degradation
}

// Inputs are the metric outcomes the builder merges.
type Inputs struct {
	RefillsTotal       Metric[int]
	ActiveCustomers    Metric[int]
	PlasticLitersSaved Metric[int]
	BottlesSaved       Metric[int]
	DailySeries        Metric[DailySeries]
	VendorBreakdown    Metric[VendorBreakdown]
	RecentActivity     Metric[[]ActivityRecord]
}

// Build assembles the report. It never fails.
func Build(in Inputs) Report {
	activity := in.RecentActivity.Value
	if activity == nil {
		activity = []ActivityRecord{}
	}

	r := Report{
		Payload: Payload{
			RefillsTotal:       in.RefillsTotal.Value,
			ActiveCustomers:    in.ActiveCustomers.Value,
			PlasticLitersSaved: in.PlasticLitersSaved.Value,
			BottlesSaved:       in.BottlesSaved.Value,
			DailySeries:        in.DailySeries.Value,
			VendorBreakdown:    in.VendorBreakdown.Value,
			RecentActivity:     activity,
		},
	}

	note := func(name string, degraded bool, cause error) {
		if degraded {
			r.Degraded = append(r.Degraded, Degradation{Metric: name, Cause: cause})
		}
	}
	note("refillsTotal", in.RefillsTotal.Degraded, in.RefillsTotal.Cause)
	note("activeCustomers", in.ActiveCustomers.Degraded, in.ActiveCustomers.Cause)
	note("plasticLitersSaved", in.PlasticLitersSaved.Degraded, in.PlasticLitersSaved.Cause)
	note("bottlesSaved", in.BottlesSaved.Degraded, in.BottlesSaved.Cause)
	note("dailySeries", in.DailySeries.Degraded, in.DailySeries.Cause)
	note("vendorBreakdown", in.VendorBreakdown.Degraded, in.VendorBreakdown.Cause)
	note("recentActivity", in.RecentActivity.Degraded, in.RecentActivity.Cause)

	return r
}

// Generator runs every metric in turn and builds the report.
type Generator struct {
	aggregator *Aggregator
	normalizer *Normalizer
}

// NewGenerator wires an aggregator and a normalizer into one pipeline.
func NewGenerator(aggregator *Aggregator, normalizer *Normalizer) *Generator {
	return &Generator{aggregator: aggregator, normalizer: normalizer}
}

// Generate computes each metric sequentially; a failure in one never affects
// the next.
func (g *Generator) Generate(ctx context.Context) Report {
	var in Inputs
	in.RefillsTotal = g.aggregator.RefillsTotal(ctx)
	in.ActiveCustomers = g.aggregator.ActiveCustomers(ctx)
	in.PlasticLitersSaved, in.BottlesSaved = g.aggregator.PlasticSaved(ctx)
	in.DailySeries = g.aggregator.DailySeries(ctx)
	in.VendorBreakdown = g.aggregator.VendorBreakdown()
	in.RecentActivity = g.normalizer.RecentActivity(ctx)
	return Build(in)
}
