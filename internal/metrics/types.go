package metrics

// DormantClient is one user whose last known activity predates the
// requested threshold.
type DormantClient struct {
	UserID           string `json:"user_id"`
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	LastActivity     string `json:"last_activity"`
	LastActivityType string `json:"last_activity_type"` // "booking" or "purchase"
	DaysInactive     int    `json:"days_inactive"`
}

// DormantReport is the full dormancy listing, sorted by days inactive
// descending.
type DormantReport struct {
	Total      int             `json:"total"`
	CutoffDays int             `json:"cutoff_days"`
	Clients    []DormantClient `json:"clients"`
}

// DormantPage is one page of the dormancy listing.
type DormantPage struct {
	Total      int             `json:"total"`
	CutoffDays int             `json:"cutoff_days"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Clients    []DormantClient `json:"clients"`
}

// MonthBucket aggregates purchases for one calendar month.
type MonthBucket struct {
	Month   string  `json:"month"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Credits int     `json:"credits"`
}

// PackageTypeStat aggregates purchases for one package title.
type PackageTypeStat struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
	Credits   int     `json:"credits"`
	UnitPrice float64 `json:"unit_price"`
}

// SalesReport is the monthly sales aggregation. The sum of bucket
// revenues always equals TotalRevenue and the sum of bucket counts
// always equals TotalPackages for the same query.
type SalesReport struct {
	TotalPackages int               `json:"total_packages"`
	TotalRevenue  float64           `json:"total_revenue"`
	ByMonth       []MonthBucket     `json:"by_month"`
	ByPackageType []PackageTypeStat `json:"by_package_type"`
}

// BuyerStat is one entry of the top-buyer ranking. Rank is 1-based and
// dense; TotalSpent is non-increasing across consecutive ranks.
type BuyerStat struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	FullName        string  `json:"full_name"`
	Phone           string  `json:"phone"`
	TotalPurchases  int     `json:"total_purchases"`
	TotalSpent      float64 `json:"total_spent"`
	TotalCredits    int     `json:"total_credits"`
	FavoritePackage string  `json:"favorite_package"`
}

// RetentionReport holds cohort-style retention and conversion figures.
// Rates are strings with one decimal, "0" when there is no cohort.
type RetentionReport struct {
	TotalUniqueUsers     int    `json:"total_unique_users"`
	ActiveUsers30Days    int    `json:"active_users_30_days"`
	TotalBuyersEver      int    `json:"total_buyers_ever"`
	BuyersLast30Days     int    `json:"buyers_last_30_days"`
	UsersWithCredits     int    `json:"users_with_credits"`
	TotalCreditsPending  int    `json:"total_credits_pending"`
	RetentionRate        string `json:"retention_rate"`
	ConversionRate       string `json:"conversion_rate"`
	TotalRegisteredUsers int    `json:"total_registered_users"`
}

// OccupancySlot is one fixed (weekday, time) position in the recurring
// weekly schedule, with attendance averaged over observed occurrences.
type OccupancySlot struct {
	Day            string  `json:"day"`
	Time           string  `json:"time"`
	ClassName      string  `json:"class_name"`
	Subtitle       string  `json:"subtitle"`
	MaxCapacity    int     `json:"max_capacity"`
	TotalClasses   int     `json:"total_classes_observed"`
	TotalAttendees int     `json:"total_attendees"`
	AvgAttendance  float64 `json:"avg_attendance"`
	OccupancyRate  int     `json:"occupancy_rate"`
}

// WeeklySchedule maps each operating weekday (Monday through Saturday)
// to its slots, sorted by time of day. A weekday with no observed
// occurrences maps to an empty list, never to a missing key.
type WeeklySchedule map[string][]OccupancySlot

// PeriodSales summarizes purchases within one date range.
type PeriodSales struct {
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Packages int     `json:"packages"`
	Revenue  float64 `json:"revenue"`
}

// SalesDiff holds deltas between two compared periods. Percentage
// fields are 0 when the first period has no baseline, which callers
// must treat as ambiguous between "no change" and "no data".
type SalesDiff struct {
	Packages    int     `json:"packages"`
	Revenue     float64 `json:"revenue"`
	PackagesPct float64 `json:"packages_pct"`
	RevenuePct  float64 `json:"revenue_pct"`
}

// SalesComparison is the period-over-period sales report.
type SalesComparison struct {
	Period1 PeriodSales `json:"period1"`
	Period2 PeriodSales `json:"period2"`
	Diff    SalesDiff   `json:"diff"`
}

// PeriodCredits summarizes credit movement within one date range.
type PeriodCredits struct {
	CreditsPurchased int `json:"credits_purchased"`
	CreditsUsed      int `json:"credits_used"`
	UniqueBuyers     int `json:"unique_buyers"`
	ActiveClients    int `json:"active_clients"`
}

// CreditsComparison is the period-over-period credit report. Recurring
// clients are users who purchased in both periods.
type CreditsComparison struct {
	Period1             PeriodCredits `json:"period1"`
	Period2             PeriodCredits `json:"period2"`
	RecurringClients    int           `json:"recurring_clients"`
	RecurringPercentage int           `json:"recurring_percentage"`
}
