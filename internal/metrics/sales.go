package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studio-metrics/internal/store"
)

// SalesByYear buckets the year's purchases by calendar month and by
// package type. All 12 months are present even when empty.
func (e *Engine) SalesByYear(ctx context.Context, year int) (*SalesReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	batches, packages, err := e.fetchPurchases(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return aggregateSales(batches, packages, year), nil
}

// SalesByDateRange buckets an arbitrary range's purchases by
// (year, month), chronologically, without empty-month padding.
func (e *Engine) SalesByDateRange(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	batches, packages, err := e.fetchPurchases(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return aggregateSales(batches, packages, 0), nil
}

type monthKey struct {
	year  int
	month time.Month
}

// aggregateSales performs the shared month/type aggregation. A non-zero
// fixedYear pre-seeds the 12 month buckets and labels them by month
// name only; otherwise buckets are created lazily and labeled
// "<Month> <Year>".
func aggregateSales(batches []store.CreditBatch, packages map[int64]store.Package, fixedYear int) *SalesReport {
	report := &SalesReport{
		ByMonth:       []MonthBucket{},
		ByPackageType: []PackageTypeStat{},
	}

	months := make(map[monthKey]*MonthBucket)
	var monthOrder []monthKey
	if fixedYear != 0 {
		for m := time.January; m <= time.December; m++ {
			key := monthKey{year: fixedYear, month: m}
			months[key] = &MonthBucket{Month: m.String()}
			monthOrder = append(monthOrder, key)
		}
	}

	types := make(map[string]*PackageTypeStat)
	var typeOrder []string

	for _, b := range batches {
		day, err := store.ParseDay(b.CreatedAt)
		if err != nil {
			// An undatable purchase cannot be bucketed; skipping it
			// entirely keeps bucket sums equal to the totals.
			continue
		}

		title, price := packageFor(packages, b.PackageID)

		key := monthKey{year: day.Year(), month: day.Month()}
		bucket, ok := months[key]
		if !ok {
			if fixedYear != 0 {
				continue
			}
			bucket = &MonthBucket{Month: fmt.Sprintf("%s %d", key.month, key.year)}
			months[key] = bucket
			monthOrder = append(monthOrder, key)
		}
		bucket.Count++
		bucket.Revenue += price
		bucket.Credits += b.CreditsTotal

		stat, ok := types[title]
		if !ok {
			stat = &PackageTypeStat{Name: title, UnitPrice: price}
			types[title] = stat
			typeOrder = append(typeOrder, title)
		}
		stat.Count++
		stat.Revenue += price
		stat.Credits += b.CreditsTotal

		report.TotalPackages++
		report.TotalRevenue += price
	}

	if fixedYear == 0 {
		sort.Slice(monthOrder, func(i, j int) bool {
			if monthOrder[i].year != monthOrder[j].year {
				return monthOrder[i].year < monthOrder[j].year
			}
			return monthOrder[i].month < monthOrder[j].month
		})
	}
	for _, key := range monthOrder {
		report.ByMonth = append(report.ByMonth, *months[key])
	}

	sort.SliceStable(typeOrder, func(i, j int) bool {
		return types[typeOrder[i]].Count > types[typeOrder[j]].Count
	})
	for _, title := range typeOrder {
		report.ByPackageType = append(report.ByPackageType, *types[title])
	}

	return report
}
