package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

const planColumns = `p.id, p.mess_id, p.name, p.price, p.duration_type, p.meal_type, p.meals_per_day, p.is_active, p.created_at, p.updated_at`

type planRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func planDest(plan *models.Plan) []any {
	return []any{
		&plan.ID,
		&plan.MessID,
		&plan.Name,
		&plan.Price,
		&plan.DurationType,
		&plan.MealType,
		&plan.MealsPerDay,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	}
}

func (r *planRepository) Create(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	query := `
		INSERT INTO plans (id, mess_id, name, price, duration_type, meal_type, meals_per_day, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	now := time.Now()
	plan.ID = uuid.NewString()
	plan.IsActive = true
	plan.CreatedAt = now
	plan.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.MessID,
		plan.Name,
		plan.Price,
		plan.DurationType,
		plan.MealType,
		plan.MealsPerDay,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", translateError(err))
	}

	return plan, nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	query := `
		SELECT ` + planColumns + `,
		       m.owner_id, m.name, m.location, m.is_active
		FROM plans p
		INNER JOIN messes m ON m.id = p.mess_id
		WHERE p.id = $1`

	plan := &models.Plan{}
	mess := &models.Mess{}
	dest := append(planDest(plan), &mess.OwnerID, &mess.Name, &mess.Location, &mess.IsActive)

	if err := r.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	mess.ID = plan.MessID
	plan.Mess = mess
	return plan, nil
}

func (r *planRepository) ListByMesses(ctx context.Context, messIDs []string, onlyActive bool) ([]*models.Plan, error) {
	if len(messIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + planColumns + `
		FROM plans p
		WHERE p.mess_id = ANY($1)`
	if onlyActive {
		query += " AND p.is_active = TRUE"
	}
	query += " ORDER BY p.price ASC, p.created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, pq.Array(messIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan := &models.Plan{}
		if err := rows.Scan(planDest(plan)...); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (r *planRepository) Update(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	query := `
		UPDATE plans
		SET name = $2, price = $3, meals_per_day = $4, is_active = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at`

	plan.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.Name,
		plan.Price,
		plan.MealsPerDay,
		plan.IsActive,
		plan.UpdatedAt,
	).Scan(&plan.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return plan, nil
}
