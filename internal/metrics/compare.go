package metrics

import (
	"context"
	"time"

	"studio-metrics/internal/store"

	"golang.org/x/sync/errgroup"
)

// CompareSales runs the sales aggregation over two disjoint date ranges
// and computes deltas and percentage change against the first period.
func (e *Engine) CompareSales(ctx context.Context, p1Start, p1End, p2Start, p2End time.Time) (*SalesComparison, error) {
	g, gctx := errgroup.WithContext(ctx)

	var batches1, batches2 []store.CreditBatch
	var packages []store.Package
	g.Go(func() error {
		var err error
		batches1, err = e.store.CreditBatches(gctx, purchaseWindow(p1Start, p1End)...)
		return err
	})
	g.Go(func() error {
		var err error
		batches2, err = e.store.CreditBatches(gctx, purchaseWindow(p2Start, p2End)...)
		return err
	})
	g.Go(func() error {
		var err error
		packages, err = e.store.Packages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(map[int64]store.Package, len(packages))
	for _, p := range packages {
		index[p.ID] = p
	}

	p1 := periodSales(batches1, index, p1Start, p1End)
	p2 := periodSales(batches2, index, p2Start, p2End)

	return &SalesComparison{
		Period1: p1,
		Period2: p2,
		Diff: SalesDiff{
			Packages:    p2.Packages - p1.Packages,
			Revenue:     Round1(p2.Revenue - p1.Revenue),
			PackagesPct: PctChange(float64(p2.Packages), float64(p1.Packages)),
			RevenuePct:  PctChange(p2.Revenue, p1.Revenue),
		},
	}, nil
}

func periodSales(batches []store.CreditBatch, index map[int64]store.Package, start, end time.Time) PeriodSales {
	p := PeriodSales{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}
	for _, b := range batches {
		_, price := packageFor(index, b.PackageID)
		p.Packages++
		p.Revenue += price
	}
	return p
}

// CompareCredits contrasts credit movement across two periods and
// counts recurring clients: users who purchased in both.
func (e *Engine) CompareCredits(ctx context.Context, p1Start, p1End, p2Start, p2End time.Time) (*CreditsComparison, error) {
	g, gctx := errgroup.WithContext(ctx)

	var batches1, batches2 []store.CreditBatch
	var bookings1, bookings2 []store.Booking
	g.Go(func() error {
		var err error
		batches1, err = e.store.CreditBatches(gctx, purchaseWindow(p1Start, p1End)...)
		return err
	})
	g.Go(func() error {
		var err error
		batches2, err = e.store.CreditBatches(gctx, purchaseWindow(p2Start, p2End)...)
		return err
	})
	g.Go(func() error {
		var err error
		filters := append([]store.Filter{store.In("status", "active", "completed")}, bookingWindow(p1Start, p1End)...)
		bookings1, err = e.store.Bookings(gctx, filters...)
		return err
	})
	g.Go(func() error {
		var err error
		filters := append([]store.Filter{store.In("status", "active", "completed")}, bookingWindow(p2Start, p2End)...)
		bookings2, err = e.store.Bookings(gctx, filters...)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p1, buyers1 := periodCredits(batches1, bookings1)
	p2, buyers2 := periodCredits(batches2, bookings2)

	recurring := 0
	for userID := range buyers1 {
		if buyers2[userID] {
			recurring++
		}
	}

	return &CreditsComparison{
		Period1:             p1,
		Period2:             p2,
		RecurringClients:    recurring,
		RecurringPercentage: RoundPct(recurring, len(buyers1)),
	}, nil
}

func periodCredits(batches []store.CreditBatch, bookings []store.Booking) (PeriodCredits, map[string]bool) {
	buyers := make(map[string]bool)
	p := PeriodCredits{}
	for _, b := range batches {
		buyers[b.UserID] = true
		p.CreditsPurchased += b.CreditsTotal
		p.CreditsUsed += b.CreditsTotal - b.CreditsRemaining
	}
	p.UniqueBuyers = len(buyers)

	active := make(map[string]bool)
	for _, b := range bookings {
		active[b.UserID] = true
	}
	p.ActiveClients = len(active)

	return p, buyers
}
