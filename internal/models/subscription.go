package models

import "time"

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription binds a user to a plan for a fixed date window. The price,
// plan name and meal type are copied from the plan at purchase time.
type Subscription struct {
	ID               string             `json:"id" db:"id"`
	UserID           string             `json:"userId" db:"user_id"`
	PlanID           string             `json:"planId" db:"plan_id"`
	StartDate        time.Time          `json:"startDate" db:"start_date"`
	EndDate          time.Time          `json:"endDate" db:"end_date"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	PriceAtPurchase  float64            `json:"priceAtPurchase" db:"price_at_purchase"`
	PlanNameSnapshot string             `json:"planNameSnapshot" db:"plan_name_snapshot"`
	MealTypeSnapshot MealType           `json:"mealTypeSnapshot" db:"meal_type_snapshot"`
	CreatedAt        time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" db:"updated_at"`
	Plan             *Plan              `json:"plan,omitempty"`
	User             *UserSummary       `json:"user,omitempty"`
	Attendance       []*Attendance      `json:"attendance,omitempty"`
}

// IsActive returns true if the subscription has not been cancelled
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}

// IsOwnedBy returns true if userID holds the subscription
func (s *Subscription) IsOwnedBy(userID string) bool {
	return s.UserID == userID
}

// Covers reports whether day falls inside [StartDate, EndDate], both ends
// included. day must be a day key (see DayOf).
func (s *Subscription) Covers(day time.Time) bool {
	start := DayOf(s.StartDate, time.UTC)
	end := DayOf(s.EndDate, time.UTC)
	return !day.Before(start) && !day.After(end)
}
