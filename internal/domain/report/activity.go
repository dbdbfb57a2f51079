package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Refill statuses as they appear in the activity table.
const (
	StatusSuccess = "success"
	StatusPending = "pending"
	StatusFailed  = "failed"
)

const (
	// Placeholder stands in for a missing customer or vendor name.
	Placeholder = "—"
	// DefaultVolumeLiters is assumed when a refill has no recorded volume.
	DefaultVolumeLiters = 5
	// PricePerLiter derives an amount when a refill has none.
	PricePerLiter = 8
)

var (
	sampleCustomers = []string{"Rahim H.", "Sadia R.", "Arif M.", "Laila K.", "Tariq S.", "Nila P."}
	sampleVendors   = []string{"AquaPure - Dhanmondi", "ClearWell - Gulshan", "PureDrop - Mirpur", "H2O Hub - Banani"}
)

// ActivityRecord is the display-safe view of one refill.
type ActivityRecord struct {
	Timestamp    string `json:"timestamp"`
	Customer     string `json:"customer"`
	Vendor       string `json:"vendor"`
	BottleID     string `json:"bottleId"`
	VolumeLiters int    `json:"volumeLiters"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
}

// StatusLabel maps a status to its table label. Anything other than success
// or pending is shown as failed.
func StatusLabel(status string) string {
	switch status {
	case StatusSuccess:
		return "Completed"
	case StatusPending:
		return "Pending"
	default:
		return "Failed"
	}
}

// Normalizer fetches the most recent refills and fills in missing fields.
type Normalizer struct {
	source MetricsSource
	rng    Random
	now    func() time.Time
}

// NewNormalizer creates a normalizer over source.
func NewNormalizer(source MetricsSource, rng Random, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{source: source, rng: rng, now: now}
}

// RecentActivity returns up to RecentActivityLimit normalized records, or
// synthetic records when the query fails.
func (n *Normalizer) RecentActivity(ctx context.Context) Metric[[]ActivityRecord] {
	return attempt(
		func() ([]ActivityRecord, error) {
			rows, err := n.source.RecentRefills(ctx, RecentActivityLimit)
			if err != nil {
				return nil, err
			}
			if len(rows) > RecentActivityLimit {
				rows = rows[:RecentActivityLimit]
			}
			records := make([]ActivityRecord, 0, len(rows))
			for _, row := range rows {
				rec, err := n.Normalize(row)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
			return records, nil
		},
		n.synthetic,
	)
}

// Normalize converts one row into its display form. Each missing field is
// filled independently; amounts are always rendered with two decimals.
func (n *Normalizer) Normalize(row RefillRow) (ActivityRecord, error) {
	ts, err := FormatTimestamp(row.CreatedAt)
	if err != nil {
		return ActivityRecord{}, err
	}

	rec := ActivityRecord{
		Timestamp:    ts,
		Customer:     Placeholder,
		Vendor:       Placeholder,
		VolumeLiters: DefaultVolumeLiters,
		Status:       row.Status,
	}
	if row.Customer != nil {
		rec.Customer = *row.Customer
	}
	if row.Vendor != nil {
		rec.Vendor = *row.Vendor
	}
	if row.BottleID != nil {
		rec.BottleID = *row.BottleID
	} else {
		rec.BottleID = fmt.Sprintf("RW-%06d", between(n.rng, 1000, 9999))
	}
	if row.VolumeLiters != nil {
		rec.VolumeLiters = *row.VolumeLiters
	}

	amount := decimal.NewFromInt(int64(rec.VolumeLiters) * PricePerLiter)
	if row.Amount != nil {
		amount = *row.Amount
	}
	rec.Amount = amount.StringFixed(2)

	return rec, nil
}

// synthetic builds RecentActivityLimit plausible rows spaced 18 minutes apart.
func (n *Normalizer) synthetic() []ActivityRecord {
	now := n.now()
	records := make([]ActivityRecord, 0, RecentActivityLimit)
	for i := 0; i < RecentActivityLimit; i++ {
		volume, amount := 5, decimal.NewFromInt(40)
		if n.rng.IntN(2) == 1 {
			volume, amount = 10, decimal.NewFromInt(70)
		}

		status := StatusSuccess
		switch p := between(n.rng, 0, 100); {
		case p > 85:
			status = StatusFailed
		case p > 75:
			status = StatusPending
		}

		records = append(records, ActivityRecord{
			Timestamp:    now.Add(-time.Duration(i*18) * time.Minute).Format(TimestampLayout),
			Customer:     sampleCustomers[n.rng.IntN(len(sampleCustomers))],
			Vendor:       sampleVendors[n.rng.IntN(len(sampleVendors))],
			BottleID:     fmt.Sprintf("RW-%d", 100000+between(n.rng, 0, 899999)),
			VolumeLiters: volume,
			Amount:       amount.StringFixed(2),
			Status:       status,
		})
	}
	return records
}
