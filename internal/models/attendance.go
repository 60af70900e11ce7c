package models

import "time"

// Attendance records which meals a subscriber took on one calendar day
type Attendance struct {
	ID             string    `json:"id" db:"id"`
	SubscriptionID string    `json:"subscriptionId" db:"subscription_id"`
	Date           time.Time `json:"date" db:"date"`
	Breakfast      bool      `json:"breakfast" db:"breakfast"`
	Lunch          bool      `json:"lunch" db:"lunch"`
	Dinner         bool      `json:"dinner" db:"dinner"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Meals returns the meal flags of the record
func (a *Attendance) Meals() MealFlags {
	return MealFlags{Breakfast: a.Breakfast, Lunch: a.Lunch, Dinner: a.Dinner}
}

// MealFlags is the set of meals taken on a day
type MealFlags struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

// AttendanceMark is a partial set of meal flags; nil fields keep their
// stored value (or default to false when the day has no record yet).
type AttendanceMark struct {
	Breakfast *bool
	Lunch     *bool
	Dinner    *bool
}

// Apply merges the supplied flags onto a
func (m AttendanceMark) Apply(a *Attendance) {
	if m.Breakfast != nil {
		a.Breakfast = *m.Breakfast
	}
	if m.Lunch != nil {
		a.Lunch = *m.Lunch
	}
	if m.Dinner != nil {
		a.Dinner = *m.Dinner
	}
}

// AttendanceStats counts days and taken meals over a set of records
type AttendanceStats struct {
	TotalDays      int `json:"totalDays"`
	BreakfastCount int `json:"breakfastCount"`
	LunchCount     int `json:"lunchCount"`
	DinnerCount    int `json:"dinnerCount"`
}

// ComputeStats counts the true flags across records
func ComputeStats(records []*Attendance) AttendanceStats {
	stats := AttendanceStats{TotalDays: len(records)}
	for _, a := range records {
		if a.Breakfast {
			stats.BreakfastCount++
		}
		if a.Lunch {
			stats.LunchCount++
		}
		if a.Dinner {
			stats.DinnerCount++
		}
	}
	return stats
}
