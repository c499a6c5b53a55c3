package metrics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"studio-metrics/internal/store"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxSpots is the assumed room capacity when no session template
// exists for a weekday.
const DefaultMaxSpots = 14

// operatingDays are the studio's six operating weekdays; Sunday is
// excluded by design.
var operatingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type occurrenceKey struct {
	date string
	time string
}

type occurrence struct {
	weekday   string
	attendees int
}

type slotKey struct {
	day  string
	time string
}

type slotAgg struct {
	classes   int
	attendees int
}

// WeeklySchedule aggregates the last 30 days of attended bookings into
// the recurring weekly grid. Two grouping passes: exact
// (calendar date, time) occurrences first, then (weekday, time) slots
// averaged over the occurrences observed.
//
// Slot metadata is looked up by weekday only, not weekday+time, so a
// day with several distinct class templates shows one template's
// name/capacity for all of its slots. Kept as-is for report
// compatibility.
func (e *Engine) WeeklySchedule(ctx context.Context, now time.Time) (WeeklySchedule, error) {
	today := dayOf(now)
	windowStart := today.AddDate(0, 0, -30)

	g, gctx := errgroup.WithContext(ctx)

	var bookings []store.Booking
	var sessions []store.Session
	g.Go(func() error {
		var err error
		// Observed occurrences only: the window ends today, so bookings
		// for upcoming sessions never count.
		filters := append([]store.Filter{store.In("status", "active", "completed")},
			bookingWindow(windowStart, today)...)
		bookings, err = e.store.Bookings(gctx, filters...)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = e.store.Sessions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pass 1: collapse bookings into one occurrence per (date, time).
	occurrences := make(map[occurrenceKey]*occurrence)
	for _, b := range bookings {
		day, err := store.ParseDay(b.SessionDate)
		if err != nil {
			continue
		}
		weekday := day.Weekday().String()
		if weekday == "Sunday" {
			continue
		}
		key := occurrenceKey{date: day.Format(dateLayout), time: b.SessionTime}
		occ, ok := occurrences[key]
		if !ok {
			occ = &occurrence{weekday: weekday}
			occurrences[key] = occ
		}
		occ.attendees += b.TotalAttendees
	}

	// Pass 2: fold occurrences into fixed weekly (weekday, time) slots.
	slots := make(map[slotKey]*slotAgg)
	for key, occ := range occurrences {
		sk := slotKey{day: occ.weekday, time: key.time}
		agg, ok := slots[sk]
		if !ok {
			agg = &slotAgg{}
			slots[sk] = agg
		}
		agg.classes++
		agg.attendees += occ.attendees
	}

	templates := make(map[string]store.Session)
	for _, s := range sessions {
		day := strings.ToLower(strings.TrimSpace(s.DayName))
		if _, ok := templates[day]; !ok {
			templates[day] = s
		}
	}

	// Pass 3: per-slot averaging and capacity-normalized occupancy.
	schedule := make(WeeklySchedule, len(operatingDays))
	for _, day := range operatingDays {
		schedule[day] = []OccupancySlot{}
	}
	for key, agg := range slots {
		capacity := DefaultMaxSpots
		className := ""
		subtitle := ""
		if tmpl, ok := templates[strings.ToLower(key.day)]; ok {
			className = tmpl.ClassName
			subtitle = tmpl.ClassSubtitle
			if tmpl.MaxSpots > 0 {
				capacity = tmpl.MaxSpots
			}
		}

		avg := Round1(float64(agg.attendees) / float64(agg.classes))
		schedule[key.day] = append(schedule[key.day], OccupancySlot{
			Day:            key.day,
			Time:           key.time,
			ClassName:      className,
			Subtitle:       subtitle,
			MaxCapacity:    capacity,
			TotalClasses:   agg.classes,
			TotalAttendees: agg.attendees,
			AvgAttendance:  avg,
			OccupancyRate:  int(math.Round(avg / float64(capacity) * 100)),
		})
	}

	for _, day := range operatingDays {
		list := schedule[day]
		sort.Slice(list, func(i, j int) bool { return list[i].Time < list[j].Time })
	}

	return schedule, nil
}
