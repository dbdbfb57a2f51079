// Package report computes the dashboard report: a fixed set of independent
// metrics, each of which degrades to a documented fallback value when its
// query fails, merged into one payload for the presentation layer.
package report

// SeriesDays is the length of the daily refill series.
const SeriesDays = 30

// RecentActivityLimit is the maximum number of rows in the activity table.
const RecentActivityLimit = 12

// DailySeries holds one completed-refill count per calendar day, oldest first,
// ending today.
type DailySeries [SeriesDays]int

// VendorBreakdown holds the donut proportions for Retail vendors, Office
// deliveries, Community stations and Others, in that order.
type VendorBreakdown [4]int

// VendorCategories labels the VendorBreakdown entries.
var VendorCategories = [4]string{"Retail vendors", "Office deliveries", "Community stations", "Others"}

// Fallbacks is the table of values substituted when a metric cannot be
// computed. BottlesSaved is paired with PlasticLitersSaved rather than derived
// from it.
type Fallbacks struct {
	RefillsTotal       int
	ActiveCustomers    int
	PlasticLitersSaved int
	BottlesSaved       int
	VendorBreakdown    VendorBreakdown
}

// DefaultFallbacks returns the stock fallback table.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		RefillsTotal:       2348,
		ActiveCustomers:    1412,
		PlasticLitersSaved: 14720,
		BottlesSaved:       2944,
		VendorBreakdown:    VendorBreakdown{54, 21, 17, 8},
	}
}

// LitersPerBottle converts saved liters into equivalent bottles.
const LitersPerBottle = 5

// BottlesFor returns round(liters / LitersPerBottle), rounding half away from zero.
func BottlesFor(liters int) int {
	q, r := liters/LitersPerBottle, liters%LitersPerBottle
	if r < 0 {
		r = -r
	}
	if 2*r >= LitersPerBottle {
		if liters < 0 {
			return q - 1
		}
		return q + 1
	}
	return q
}
