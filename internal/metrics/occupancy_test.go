package metrics

import (
	"context"
	"testing"
	"time"

	"studio-metrics/internal/store"
)

// Saturday, June 15th 2024.
var scheduleNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func TestWeeklyScheduleAveragesSlotAttendance(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			// Monday June 3rd, 18:00: two bookings forming one occurrence of 8.
			{UserID: "u1", Status: "completed", SessionDate: "2024-06-03", SessionTime: "18:00", TotalAttendees: 5},
			{UserID: "u2", Status: "completed", SessionDate: "2024-06-03", SessionTime: "18:00", TotalAttendees: 3},
			// Monday June 10th, 18:00: one occurrence of 12.
			{UserID: "u3", Status: "active", SessionDate: "2024-06-10", SessionTime: "18:00", TotalAttendees: 12},
		},
		sessions: []store.Session{
			{DayName: "Monday", ClassName: "Evening Flow", ClassSubtitle: "All levels", MaxSpots: 14},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}

	monday := schedule["Monday"]
	if len(monday) != 1 {
		t.Fatalf("expected 1 Monday slot, got %d: %+v", len(monday), monday)
	}
	slot := monday[0]
	if slot.Time != "18:00" || slot.ClassName != "Evening Flow" || slot.Subtitle != "All levels" {
		t.Errorf("slot metadata = %+v", slot)
	}
	if slot.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", slot.TotalClasses)
	}
	if slot.TotalAttendees != 20 {
		t.Errorf("TotalAttendees = %d, want 20", slot.TotalAttendees)
	}
	if slot.AvgAttendance != 10.0 {
		t.Errorf("AvgAttendance = %v, want 10.0", slot.AvgAttendance)
	}
	if slot.MaxCapacity != 14 {
		t.Errorf("MaxCapacity = %d, want 14", slot.MaxCapacity)
	}
	if slot.OccupancyRate != 71 {
		t.Errorf("OccupancyRate = %d, want 71", slot.OccupancyRate)
	}
}

func TestWeeklyScheduleAlwaysHasSixWeekdays(t *testing.T) {
	e := newTestEngine(&fakeStore{})

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}

	if len(schedule) != 6 {
		t.Fatalf("expected 6 weekdays, got %d", len(schedule))
	}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		slots, ok := schedule[day]
		if !ok {
			t.Errorf("missing weekday %s", day)
			continue
		}
		if slots == nil {
			t.Errorf("weekday %s is nil, want empty list", day)
		}
	}
	if _, ok := schedule["Sunday"]; ok {
		t.Error("Sunday must not appear in the schedule")
	}
}

func TestWeeklyScheduleExcludesSunday(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			// June 9th 2024 is a Sunday.
			{UserID: "u1", Status: "completed", SessionDate: "2024-06-09", SessionTime: "10:00", TotalAttendees: 6},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	for day, slots := range schedule {
		if len(slots) != 0 {
			t.Errorf("unexpected slots on %s: %+v", day, slots)
		}
	}
}

func TestWeeklyScheduleDefaultCapacity(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			// Tuesday June 11th; no session template for Tuesday.
			{UserID: "u1", Status: "completed", SessionDate: "2024-06-11", SessionTime: "09:00", TotalAttendees: 7},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	tuesday := schedule["Tuesday"]
	if len(tuesday) != 1 {
		t.Fatalf("expected 1 Tuesday slot, got %d", len(tuesday))
	}
	if tuesday[0].MaxCapacity != DefaultMaxSpots {
		t.Errorf("MaxCapacity = %d, want default %d", tuesday[0].MaxCapacity, DefaultMaxSpots)
	}
	if tuesday[0].OccupancyRate != 50 {
		t.Errorf("OccupancyRate = %d, want 50", tuesday[0].OccupancyRate)
	}
}

func TestWeeklyScheduleSlotsSortedByTime(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			{UserID: "u1", Status: "completed", SessionDate: "2024-06-12", SessionTime: "19:00", TotalAttendees: 4},
			{UserID: "u2", Status: "completed", SessionDate: "2024-06-12", SessionTime: "08:00", TotalAttendees: 4},
			{UserID: "u3", Status: "completed", SessionDate: "2024-06-12", SessionTime: "12:30", TotalAttendees: 4},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	wednesday := schedule["Wednesday"]
	if len(wednesday) != 3 {
		t.Fatalf("expected 3 Wednesday slots, got %d", len(wednesday))
	}
	want := []string{"08:00", "12:30", "19:00"}
	for i, slot := range wednesday {
		if slot.Time != want[i] {
			t.Errorf("slot %d time = %s, want %s", i, slot.Time, want[i])
		}
	}
}

func TestWeeklyScheduleIgnoresOldAndCancelledBookings(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			// Older than the 30-day window.
			{UserID: "u1", Status: "completed", SessionDate: "2024-05-01", SessionTime: "10:00", TotalAttendees: 9},
			// Cancelled within the window.
			{UserID: "u2", Status: "cancelled", SessionDate: "2024-06-12", SessionTime: "10:00", TotalAttendees: 9},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	for day, slots := range schedule {
		if len(slots) != 0 {
			t.Errorf("unexpected slots on %s: %+v", day, slots)
		}
	}
}

func TestWeeklyScheduleExcludesFutureBookings(t *testing.T) {
	f := &fakeStore{
		bookings: []store.Booking{
			// Monday June 17th is after scheduleNow: booked but not yet
			// held, so it is no observed occurrence.
			{UserID: "u1", Status: "active", SessionDate: "2024-06-17", SessionTime: "18:00", TotalAttendees: 3},
			// Saturday June 15th is the window's inclusive end day.
			{UserID: "u2", Status: "completed", SessionDate: "2024-06-15", SessionTime: "10:00", TotalAttendees: 6},
		},
	}
	e := newTestEngine(f)

	schedule, err := e.WeeklySchedule(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	if monday := schedule["Monday"]; len(monday) != 0 {
		t.Errorf("future booking produced Monday slots: %+v", monday)
	}
	saturday := schedule["Saturday"]
	if len(saturday) != 1 {
		t.Fatalf("expected 1 Saturday slot, got %d", len(saturday))
	}
	if saturday[0].TotalAttendees != 6 {
		t.Errorf("Saturday TotalAttendees = %d, want 6", saturday[0].TotalAttendees)
	}
}

func TestWeeklySchedulePropagatesStoreError(t *testing.T) {
	e := newTestEngine(&fakeStore{sessionsErr: errTest})
	if _, err := e.WeeklySchedule(context.Background(), scheduleNow); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
