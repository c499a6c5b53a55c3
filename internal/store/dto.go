package store

import (
	"fmt"
	"time"
)

// Profile is one row of the profiles table. The whole table may be
// invisible depending on the key's access level; callers must tolerate
// an empty set.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Booking is one reservation instance.
type Booking struct {
	UserID         string `json:"user_id"`
	SessionDate    string `json:"session_date"`
	SessionTime    string `json:"session_time"`
	Status         string `json:"status"`
	TotalAttendees int    `json:"total_attendees"`
	CoachName      string `json:"coach_name"`
	CreatedAt      string `json:"created_at"`
}

// CreditBatch is one purchase event and its remaining balance.
type CreditBatch struct {
	ID               int64  `json:"id"`
	UserID           string `json:"user_id"`
	PackageID        int64  `json:"package_id"`
	CreditsTotal     int    `json:"credits_total"`
	CreditsRemaining int    `json:"credits_remaining"`
	CreatedAt        string `json:"created_at"`
}

// Package is reference data for one purchasable credit package.
type Package struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	ClassesCount int     `json:"classes_count"`
}

// Session is the template for a recurring weekly class slot, not a
// specific dated occurrence.
type Session struct {
	DayName       string `json:"day_name"`
	ClassName     string `json:"class_name"`
	ClassSubtitle string `json:"class_subtitle"`
	MaxSpots      int    `json:"max_spots"`
}

// ParseDay extracts the calendar day from a store date or timestamp
// string ("2006-01-02" or any ISO timestamp starting with it). Date
// comparisons across the engine are calendar-day based, never
// instant-based, so the time-of-day and zone suffix are ignored.
func ParseDay(s string) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("not a date: %q", s)
	}
	return time.Parse("2006-01-02", s[:10])
}
