package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"studio-metrics/internal/metrics"
	"studio-metrics/internal/store"

	"github.com/spf13/cobra"
)

var (
	reportYear  int
	reportStart string
	reportEnd   string
	reportDays  int
	reportLimit int

	p1Start string
	p1End   string
	p2Start string
	p2End   string
)

var reportCmd = &cobra.Command{
	Use:       "report <name>",
	Short:     "Compute one report and print it as JSON to stdout",
	ValidArgs: []string{"dormant", "sales", "top-buyers", "retention", "schedule", "sales-comparison", "credits-comparison"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := metrics.LoadDirectory(ctx, storeClient)
		engine := metrics.NewEngine(storeClient, dir)
		now := time.Now().UTC()

		var result interface{}
		var err error

		switch args[0] {
		case "dormant":
			result, err = engine.DormantClients(ctx, reportDays, now)
		case "sales":
			if reportYear != 0 {
				result, err = engine.SalesByYear(ctx, reportYear)
				break
			}
			start, end, rangeErr := reportRange()
			if rangeErr != nil {
				return rangeErr
			}
			result, err = engine.SalesByDateRange(ctx, start, end)
		case "top-buyers":
			if reportYear != 0 {
				result, err = engine.TopBuyersByYear(ctx, reportYear, reportLimit)
				break
			}
			start, end, rangeErr := reportRange()
			if rangeErr != nil {
				return rangeErr
			}
			result, err = engine.TopBuyers(ctx, start, end, reportLimit)
		case "retention":
			result, err = engine.RetentionMetrics(ctx, now)
		case "schedule":
			result, err = engine.WeeklySchedule(ctx, now)
		case "sales-comparison":
			p1s, p1e, p2s, p2e, periodErr := comparisonRange()
			if periodErr != nil {
				return periodErr
			}
			result, err = engine.CompareSales(ctx, p1s, p1e, p2s, p2e)
		case "credits-comparison":
			p1s, p1e, p2s, p2e, periodErr := comparisonRange()
			if periodErr != nil {
				return periodErr
			}
			result, err = engine.CompareCredits(ctx, p1s, p1e, p2s, p2e)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func reportRange() (time.Time, time.Time, error) {
	start, err := store.ParseDay(reportStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("either --year or --start and --end (YYYY-MM-DD) are required: %w", err)
	}
	end, err := store.ParseDay(reportEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("either --year or --start and --end (YYYY-MM-DD) are required: %w", err)
	}
	return start, end, nil
}

func comparisonRange() (p1s, p1e, p2s, p2e time.Time, err error) {
	parse := func(name, raw string) time.Time {
		day, parseErr := store.ParseDay(raw)
		if parseErr != nil && err == nil {
			err = fmt.Errorf("--%s must be a date (YYYY-MM-DD): %w", name, parseErr)
		}
		return day
	}
	p1s = parse("p1-start", p1Start)
	p1e = parse("p1-end", p1End)
	p2s = parse("p2-start", p2Start)
	p2e = parse("p2-end", p2End)
	return p1s, p1e, p2s, p2e, err
}

func init() {
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "calendar year to report on")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "range end (YYYY-MM-DD), inclusive")
	reportCmd.Flags().IntVar(&reportDays, "days", 30, "inactivity threshold in days (dormant report)")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "number of buyers to rank (top-buyers report)")
	reportCmd.Flags().StringVar(&p1Start, "p1-start", "", "first period start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&p1End, "p1-end", "", "first period end (YYYY-MM-DD), inclusive")
	reportCmd.Flags().StringVar(&p2Start, "p2-start", "", "second period start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&p2End, "p2-end", "", "second period end (YYYY-MM-DD), inclusive")
}
