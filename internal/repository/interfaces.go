package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kerhoff/MessBoT/internal/models"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a write references a missing row
	ErrForeignKey = errors.New("referenced row does not exist")
)

// Getters return (nil, nil) when the requested row does not exist.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	SetTelegramChatID(ctx context.Context, userID string, chatID int64) error
}

// MessRepository defines the interface for mess data operations.
// Returned messes carry their owner's summary.
type MessRepository interface {
	Create(ctx context.Context, mess *models.Mess) (*models.Mess, error)
	GetByID(ctx context.Context, id string) (*models.Mess, error)
	List(ctx context.Context, filters MessFilters) ([]*models.Mess, error)
	Update(ctx context.Context, mess *models.Mess) (*models.Mess, error)
}

// PlanRepository defines the interface for plan data operations
type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) (*models.Plan, error)
	// GetByID returns the plan with its mess populated
	GetByID(ctx context.Context, id string) (*models.Plan, error)
	// ListByMesses returns plans of the given messes ordered by price ascending
	ListByMesses(ctx context.Context, messIDs []string, onlyActive bool) ([]*models.Plan, error)
	Update(ctx context.Context, plan *models.Plan) (*models.Plan, error)
}

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	// Create inserts an active subscription. It returns ErrDuplicate when the
	// user already holds an active subscription to the plan.
	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	FindActive(ctx context.Context, userID, planID string) (*models.Subscription, error)
	// ListByUser returns subscriptions with plan and mess, newest first
	ListByUser(ctx context.Context, userID string, filters SubscriptionFilters) ([]*models.Subscription, error)
	// UpdateStatus changes only the status column. It returns (nil, nil)
	// when the subscription is missing or already has that status.
	UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) (*models.Subscription, error)
	// ListActiveOnDay returns active subscriptions to the mess's plans whose
	// window contains day, with user, plan and at most one attendance row
	// for day.
	ListActiveOnDay(ctx context.Context, messID string, day time.Time) ([]*models.Subscription, error)
}

// AttendanceRepository defines the interface for attendance data operations
type AttendanceRepository interface {
	// Upsert atomically creates or merges the record for (subscriptionID, day)
	Upsert(ctx context.Context, subscriptionID string, day time.Time, mark models.AttendanceMark) (*models.Attendance, error)
	// List returns records of a subscription, newest first
	List(ctx context.Context, subscriptionID string, filters AttendanceFilters) ([]*models.Attendance, error)
	// ListRecent returns up to limit newest records per subscription
	ListRecent(ctx context.Context, subscriptionIDs []string, limit int) (map[string][]*models.Attendance, error)
}

// MessFilters represents filters for querying messes
type MessFilters struct {
	OwnerID    *string
	OnlyActive bool
}

// SubscriptionFilters represents filters for querying subscriptions
type SubscriptionFilters struct {
	Status *models.SubscriptionStatus
}

// AttendanceFilters represents an inclusive date range on attendance days
type AttendanceFilters struct {
	From *time.Time
	To   *time.Time
}
