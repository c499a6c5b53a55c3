package metrics

import (
	"context"
	"sort"
	"time"

	"studio-metrics/internal/store"

	"golang.org/x/sync/errgroup"
)

const (
	activityBooking  = "booking"
	activityPurchase = "purchase"
)

type lastActivity struct {
	day time.Time
	typ string
}

// DormantClients merges the booking and purchase streams into a
// last-activity-per-user index and reports every user whose most recent
// activity is strictly before now minus thresholdDays. A user with no
// activity in either stream never appears: someone who was never active
// cannot go dormant. Sorted by days inactive descending.
func (e *Engine) DormantClients(ctx context.Context, thresholdDays int, now time.Time) (*DormantReport, error) {
	g, gctx := errgroup.WithContext(ctx)

	var bookings []store.Booking
	var batches []store.CreditBatch
	g.Go(func() error {
		var err error
		bookings, err = e.store.Bookings(gctx, store.Eq("status", "active"))
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

	last := make(map[string]lastActivity)
	for _, b := range bookings {
		raw := b.SessionDate
		if raw == "" {
			raw = b.CreatedAt
		}
		day, err := store.ParseDay(raw)
		if err != nil {
			continue
		}
		if cur, ok := last[b.UserID]; !ok || day.After(cur.day) {
			last[b.UserID] = lastActivity{day: day, typ: activityBooking}
		}
	}
	for _, b := range batches {
		day, err := store.ParseDay(b.CreatedAt)
		if err != nil {
			continue
		}
		// Strictly-after comparison: on an exact tie the booking wins,
		// matching the merge order of the two streams.
		if cur, ok := last[b.UserID]; !ok || day.After(cur.day) {
			last[b.UserID] = lastActivity{day: day, typ: activityPurchase}
		}
	}

	today := dayOf(now)
	cutoff := today.AddDate(0, 0, -thresholdDays)

	clients := []DormantClient{}
	for userID, act := range last {
		if !act.day.Before(cutoff) {
			continue
		}
		clients = append(clients, DormantClient{
			UserID:           userID,
			FullName:         e.dir.DisplayName(userID),
			Phone:            e.dir.DisplayPhone(userID),
			LastActivity:     act.day.Format(dateLayout),
			LastActivityType: act.typ,
			DaysInactive:     int(today.Sub(act.day).Hours() / 24),
		})
	}

	sort.Slice(clients, func(i, j int) bool {
		if clients[i].DaysInactive != clients[j].DaysInactive {
			return clients[i].DaysInactive > clients[j].DaysInactive
		}
		return clients[i].UserID < clients[j].UserID
	})

	return &DormantReport{
		Total:      len(clients),
		CutoffDays: thresholdDays,
		Clients:    clients,
	}, nil
}

// DormantClientsPage is the paginated variant: the identical
// computation followed by a plain 1-based slice. Concatenating all
// pages reproduces the unpaginated list exactly.
func (e *Engine) DormantClientsPage(ctx context.Context, thresholdDays, page, pageSize int, now time.Time) (*DormantPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	report, err := e.DormantClients(ctx, thresholdDays, now)
	if err != nil {
		return nil, err
	}

	totalPages := (report.Total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > report.Total {
		start = report.Total
	}
	if end > report.Total {
		end = report.Total
	}

	return &DormantPage{
		Total:      report.Total,
		CutoffDays: thresholdDays,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Clients:    report.Clients[start:end],
	}, nil
}
