package metrics

import (
	"context"
	"sort"
	"time"
)

type buyerAgg struct {
	userID        string
	purchases     int
	spent         float64
	credits       int
	titles        []string
	firstPurchase string
}

// TopBuyers ranks the range's purchasers by total spend, descending.
// Ranks are 1-based and dense. Ties on spend are broken by earliest
// first purchase, then by user id, so the ranking is stable regardless
// of fetch order.
func (e *Engine) TopBuyers(ctx context.Context, start, end time.Time, limit int) ([]BuyerStat, error) {
	batches, packages, err := e.fetchPurchases(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// Order purchases chronologically before grouping so that the
	// favorite-package tie-break below means "earliest purchased title".
	sort.SliceStable(batches, func(i, j int) bool {
		if batches[i].CreatedAt != batches[j].CreatedAt {
			return batches[i].CreatedAt < batches[j].CreatedAt
		}
		return batches[i].ID < batches[j].ID
	})

	buyers := make(map[string]*buyerAgg)
	var order []string
	for _, b := range batches {
		agg, ok := buyers[b.UserID]
		if !ok {
			agg = &buyerAgg{userID: b.UserID, firstPurchase: b.CreatedAt}
			buyers[b.UserID] = agg
			order = append(order, b.UserID)
		}
		title, price := packageFor(packages, b.PackageID)
		agg.purchases++
		agg.spent += price
		agg.credits += b.CreditsTotal
		agg.titles = append(agg.titles, title)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := buyers[order[i]], buyers[order[j]]
		if a.spent != b.spent {
			return a.spent > b.spent
		}
		if a.firstPurchase != b.firstPurchase {
			return a.firstPurchase < b.firstPurchase
		}
		return a.userID < b.userID
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	result := make([]BuyerStat, 0, len(order))
	for i, userID := range order {
		agg := buyers[userID]
		result = append(result, BuyerStat{
			Rank:            i + 1,
			UserID:          userID,
			FullName:        e.dir.DisplayName(userID),
			Phone:           e.dir.DisplayPhone(userID),
			TotalPurchases:  agg.purchases,
			TotalSpent:      agg.spent,
			TotalCredits:    agg.credits,
			FavoritePackage: favoriteTitle(agg.titles),
		})
	}
	return result, nil
}

// TopBuyersByYear ranks purchasers over one calendar year.
func (e *Engine) TopBuyersByYear(ctx context.Context, year, limit int) ([]BuyerStat, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return e.TopBuyers(ctx, start, end, limit)
}

// favoriteTitle returns the most frequent title; on equal frequency the
// first-encountered (earliest purchased) title wins.
func favoriteTitle(titles []string) string {
	counts := make(map[string]int)
	var order []string
	for _, t := range titles {
		if _, ok := counts[t]; !ok {
			order = append(order, t)
		}
		counts[t]++
	}

	favorite := ""
	best := 0
	for _, t := range order {
		if counts[t] > best {
			favorite = t
			best = counts[t]
		}
	}
	return favorite
}
