package models

import "time"

// DurationType is the billing period of a plan
type DurationType string

const (
	DurationWeekly  DurationType = "weekly"
	DurationMonthly DurationType = "monthly"
)

// Valid reports whether d is a known duration type
func (d DurationType) Valid() bool {
	return d == DurationWeekly || d == DurationMonthly
}

// EndDate returns the last covered day of a subscription starting on start.
// Weekly plans run seven days; monthly plans run to the same day of the next
// month, clamped to that month's last day (Jan 31 -> Feb 28 or 29).
func (d DurationType) EndDate(start time.Time) time.Time {
	switch d {
	case DurationWeekly:
		return start.AddDate(0, 0, 7)
	case DurationMonthly:
		return AddMonthClamped(start)
	default:
		return start
	}
}

// MealType is the cuisine of a plan
type MealType string

const (
	MealVeg    MealType = "veg"
	MealNonveg MealType = "nonveg"
)

// Valid reports whether m is a known meal type
func (m MealType) Valid() bool {
	return m == MealVeg || m == MealNonveg
}

const (
	MinMealsPerDay = 1
	MaxMealsPerDay = 3

	// MaxPrice is the largest value a NUMERIC(10,2) price column holds
	MaxPrice = 99999999.99
)

// Plan is a priced meal offering under a mess
type Plan struct {
	ID           string       `json:"id" db:"id"`
	MessID       string       `json:"messId" db:"mess_id"`
	Name         string       `json:"name" db:"name"`
	Price        float64      `json:"price" db:"price"`
	DurationType DurationType `json:"durationType" db:"duration_type"`
	MealType     MealType     `json:"mealType" db:"meal_type"`
	MealsPerDay  int          `json:"mealsPerDay" db:"meals_per_day"`
	IsActive     bool         `json:"isActive" db:"is_active"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
	Mess         *Mess        `json:"mess,omitempty"`
}

// PlanUpdate carries a partial plan update; nil fields are left unchanged
type PlanUpdate struct {
	Name        *string
	Price       *float64
	MealsPerDay *int
	IsActive    *bool
}

// Apply copies the supplied fields onto p
func (u PlanUpdate) Apply(p *Plan) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.MealsPerDay != nil {
		p.MealsPerDay = *u.MealsPerDay
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}
