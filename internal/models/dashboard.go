package models

import "time"

// TodaySummary is the owner dashboard for one mess on one day
type TodaySummary struct {
	Date    time.Time              `json:"date"`
	Mess    MessSummary            `json:"mess"`
	Summary SummaryCounts          `json:"summary"`
	Details []SubscriberAttendance `json:"details"`
}

// SummaryCounts aggregates today's attendance across active subscriptions
type SummaryCounts struct {
	TotalActiveSubscriptions int `json:"totalActiveSubscriptions"`
	BreakfastCount           int `json:"breakfastCount"`
	LunchCount               int `json:"lunchCount"`
	DinnerCount              int `json:"dinnerCount"`
}

// PlanSummary is the short form of a plan embedded in dashboards
type PlanSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	MealType MealType `json:"mealType"`
}

// SubscriberAttendance is one dashboard row
type SubscriberAttendance struct {
	SubscriptionID string       `json:"subscriptionId"`
	User           *UserSummary `json:"user"`
	Plan           PlanSummary  `json:"plan"`
	Attendance     MealFlags    `json:"attendance"`
}
