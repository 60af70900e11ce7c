package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
)

// CreatePlanInput carries the fields of a new plan
type CreatePlanInput struct {
	Name         string
	Price        *float64
	DurationType models.DurationType
	MealType     models.MealType
	MealsPerDay  int
}

// CreatePlan adds a plan to a mess owned by ownerID
func (s *Service) CreatePlan(ctx context.Context, messID, ownerID string, in CreatePlanInput) (*models.Plan, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Price == nil || in.DurationType == "" || in.MealType == "" || in.MealsPerDay == 0 {
		return nil, apperr.Validation("Name, price, durationType, mealType, and mealsPerDay are required")
	}

	mess, err := s.ownedMess(ctx, messID, ownerID, "You are not authorized to create plans for this mess")
	if err != nil {
		return nil, err
	}

	if err := validatePlanFields(in.DurationType, in.MealType, &in.MealsPerDay, in.Price); err != nil {
		return nil, err
	}

	plan, err := s.Plans.Create(ctx, &models.Plan{
		MessID:       mess.ID,
		Name:         in.Name,
		Price:        *in.Price,
		DurationType: in.DurationType,
		MealType:     in.MealType,
		MealsPerDay:  in.MealsPerDay,
	})
	if err != nil {
		return nil, s.internal("create plan", err)
	}
	plan.Mess = mess

	s.logger.WithFields(logrus.Fields{
		"plan_id": plan.ID,
		"mess_id": mess.ID,
	}).Info("Created plan")

	return plan, nil
}

// ListPlans returns the active plans of a mess ordered by price
func (s *Service) ListPlans(ctx context.Context, messID string) ([]*models.Plan, error) {
	if _, err := s.findMess(ctx, messID); err != nil {
		return nil, err
	}

	plans, err := s.Plans.ListByMesses(ctx, []string{messID}, true)
	if err != nil {
		return nil, s.internal("list plans", err)
	}
	if plans == nil {
		plans = []*models.Plan{}
	}
	return plans, nil
}

// UpdatePlan applies a partial update to a plan. Subscriptions already sold
// keep their snapshot of the old values.
func (s *Service) UpdatePlan(ctx context.Context, messID, planID, ownerID string, upd models.PlanUpdate) (*models.Plan, error) {
	mess, err := s.ownedMess(ctx, messID, ownerID, "You are not authorized to update plans of this mess")
	if err != nil {
		return nil, err
	}

	plan, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, s.internal("get plan", err)
	}
	if plan == nil || plan.MessID != mess.ID {
		return nil, apperr.NotFound("Plan not found")
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Validation("Name cannot be empty", apperr.FieldError{Field: "name", Message: "cannot be empty"})
	}
	if err := validatePlanFields(plan.DurationType, plan.MealType, upd.MealsPerDay, upd.Price); err != nil {
		return nil, err
	}

	upd.Apply(plan)
	plan, err = s.Plans.Update(ctx, plan)
	if err != nil {
		return nil, s.internal("update plan", err)
	}
	plan.Mess = mess

	s.logger.WithField("plan_id", plan.ID).Info("Updated plan")
	return plan, nil
}

func validatePlanFields(duration models.DurationType, meal models.MealType, mealsPerDay *int, price *float64) error {
	if !duration.Valid() {
		return apperr.Validation("Duration type must be 'weekly' or 'monthly'")
	}
	if !meal.Valid() {
		return apperr.Validation("Meal type must be 'veg' or 'nonveg'")
	}
	if mealsPerDay != nil && (*mealsPerDay < models.MinMealsPerDay || *mealsPerDay > models.MaxMealsPerDay) {
		return apperr.Validation("Meals per day must be between 1 and 3")
	}
	if price != nil && *price < 0 {
		return apperr.Validation("Price cannot be negative")
	}
	if price != nil && *price > models.MaxPrice {
		return apperr.Validation("Price cannot exceed 99999999.99")
	}
	return nil
}
