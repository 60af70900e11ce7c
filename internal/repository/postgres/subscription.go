package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

const subscriptionColumns = `s.id, s.user_id, s.plan_id, s.start_date, s.end_date, s.status,
		       s.price_at_purchase, s.plan_name_snapshot, s.meal_type_snapshot, s.created_at, s.updated_at`

type subscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func subscriptionDest(sub *models.Subscription) []any {
	return []any{
		&sub.ID,
		&sub.UserID,
		&sub.PlanID,
		&sub.StartDate,
		&sub.EndDate,
		&sub.Status,
		&sub.PriceAtPurchase,
		&sub.PlanNameSnapshot,
		&sub.MealTypeSnapshot,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	}
}

// Create inserts the subscription. The partial unique index
// subscriptions_one_active_per_plan turns a concurrent duplicate into
// repository.ErrDuplicate.
func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	query := `
		INSERT INTO subscriptions (id, user_id, plan_id, start_date, end_date, status,
			price_at_purchase, plan_name_snapshot, meal_type_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	now := time.Now()
	sub.ID = uuid.NewString()
	sub.Status = models.SubscriptionActive
	sub.CreatedAt = now
	sub.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.PlanID,
		dateParam(sub.StartDate),
		dateParam(sub.EndDate),
		sub.Status,
		sub.PriceAtPurchase,
		sub.PlanNameSnapshot,
		sub.MealTypeSnapshot,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", translateError(err))
	}

	return sub, nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		WHERE s.id = $1`

	sub := &models.Subscription{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(subscriptionDest(sub)...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

func (r *subscriptionRepository) FindActive(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		WHERE s.user_id = $1 AND s.plan_id = $2 AND s.status = $3`

	sub := &models.Subscription{}
	err := r.db.QueryRowContext(ctx, query, userID, planID, models.SubscriptionActive).Scan(subscriptionDest(sub)...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}

	return sub, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string, filters repository.SubscriptionFilters) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `,
		       ` + planColumns + `,
		       m.id, m.owner_id, m.name, m.location, m.description, m.veg_available, m.nonveg_available,
		       m.is_active, m.created_at, m.updated_at
		FROM subscriptions s
		INNER JOIN plans p ON p.id = s.plan_id
		INNER JOIN messes m ON m.id = p.mess_id
		WHERE s.user_id = $1`
	args := []interface{}{userID}
	argIdx := 2

	if filters.Status != nil {
		query += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filters.Status)
	}

	query += " ORDER BY s.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{Plan: &models.Plan{Mess: &models.Mess{}}}
		mess := sub.Plan.Mess

		dest := append(subscriptionDest(sub), planDest(sub.Plan)...)
		dest = append(dest,
			&mess.ID,
			&mess.OwnerID,
			&mess.Name,
			&mess.Location,
			&mess.Description,
			&mess.VegAvailable,
			&mess.NonvegAvailable,
			&mess.IsActive,
			&mess.CreatedAt,
			&mess.UpdatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions s
		SET status = $2, updated_at = $3
		WHERE s.id = $1 AND s.status <> $2
		RETURNING ` + subscriptionColumns

	sub := &models.Subscription{}
	err := r.db.QueryRowContext(ctx, query, id, status, time.Now()).Scan(subscriptionDest(sub)...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update subscription status: %w", translateError(err))
	}

	return sub, nil
}

func (r *subscriptionRepository) ListActiveOnDay(ctx context.Context, messID string, day time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `,
		       ` + planColumns + `,
		       u.name, u.email, u.phone,
		       a.id, a.breakfast, a.lunch, a.dinner, a.created_at, a.updated_at
		FROM subscriptions s
		INNER JOIN plans p ON p.id = s.plan_id
		INNER JOIN users u ON u.id = s.user_id
		LEFT JOIN attendance a ON a.subscription_id = s.id AND a.date = $2
		WHERE p.mess_id = $1
		  AND s.status = $3
		  AND s.start_date <= $2
		  AND s.end_date >= $2
		ORDER BY u.name ASC, s.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, messID, dateParam(day), models.SubscriptionActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{Plan: &models.Plan{}, User: &models.UserSummary{}}
		var (
			attID                    sql.NullString
			breakfast, lunch, dinner sql.NullBool
			attCreatedAt, attUpdated sql.NullTime
		)

		dest := append(subscriptionDest(sub), planDest(sub.Plan)...)
		dest = append(dest,
			&sub.User.Name,
			&sub.User.Email,
			&sub.User.Phone,
			&attID,
			&breakfast,
			&lunch,
			&dinner,
			&attCreatedAt,
			&attUpdated,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan active subscription: %w", err)
		}
		sub.User.ID = sub.UserID

		if attID.Valid {
			sub.Attendance = []*models.Attendance{{
				ID:             attID.String,
				SubscriptionID: sub.ID,
				Date:           day,
				Breakfast:      breakfast.Bool,
				Lunch:          lunch.Bool,
				Dinner:         dinner.Bool,
				CreatedAt:      attCreatedAt.Time,
				UpdatedAt:      attUpdated.Time,
			}}
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
