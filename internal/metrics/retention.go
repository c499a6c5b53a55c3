package metrics

import (
	"context"
	"time"

	"studio-metrics/internal/store"

	"golang.org/x/sync/errgroup"
)

// RetentionMetrics computes cohort percentages over the full booking
// and purchase history plus a fixed 30-day rolling window.
func (e *Engine) RetentionMetrics(ctx context.Context, now time.Time) (*RetentionReport, error) {
	g, gctx := errgroup.WithContext(ctx)

	var bookings []store.Booking
	var batches []store.CreditBatch
	g.Go(func() error {
		var err error
		bookings, err = e.store.Bookings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = e.store.CreditBatches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	windowStart := dayOf(now).AddDate(0, 0, -30)

	allUsers := make(map[string]bool)
	activeUsers := make(map[string]bool)
	for _, b := range bookings {
		if b.UserID == "" {
			continue
		}
		allUsers[b.UserID] = true
		if day, err := store.ParseDay(b.SessionDate); err == nil && !day.Before(windowStart) {
			activeUsers[b.UserID] = true
		}
	}

	allBuyers := make(map[string]bool)
	recentBuyers := make(map[string]bool)
	withCredits := make(map[string]bool)
	pending := 0
	for _, b := range batches {
		if b.UserID == "" {
			continue
		}
		allBuyers[b.UserID] = true
		if day, err := store.ParseDay(b.CreatedAt); err == nil && !day.Before(windowStart) {
			recentBuyers[b.UserID] = true
		}
		if b.CreditsRemaining > 0 {
			withCredits[b.UserID] = true
			pending += b.CreditsRemaining
		}
	}

	// The directory only covers profiles the access level can see, so
	// an empty directory falls back to the distinct-user approximation.
	registered := e.dir.Size()
	if registered == 0 {
		registered = len(allUsers)
	}

	return &RetentionReport{
		TotalUniqueUsers:     len(allUsers),
		ActiveUsers30Days:    len(activeUsers),
		TotalBuyersEver:      len(allBuyers),
		BuyersLast30Days:     len(recentBuyers),
		UsersWithCredits:     len(withCredits),
		TotalCreditsPending:  pending,
		RetentionRate:        RatePercent(len(activeUsers), len(allUsers)),
		// Buyers over distinct booking users: exceeds 100 when buyers
		// exist who never booked.
		ConversionRate:       RatePercent(len(allBuyers), len(allUsers)),
		TotalRegisteredUsers: registered,
	}, nil
}
