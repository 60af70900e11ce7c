package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// RecentAttendanceLimit caps the attendance history listed per subscription
const RecentAttendanceLimit = 30

// CreateSubscriptionInput names the plan and the first covered day
type CreateSubscriptionInput struct {
	PlanID    string
	StartDate *time.Time
}

// CreateSubscription subscribes userID to an active plan. The end date is
// derived from the plan's duration and the plan's price, name and meal type
// are copied onto the subscription.
func (s *Service) CreateSubscription(ctx context.Context, userID string, in CreateSubscriptionInput) (*models.Subscription, error) {
	if in.PlanID == "" || in.StartDate == nil {
		return nil, apperr.Validation("Plan ID and start date are required")
	}

	if _, err := uuid.Parse(in.PlanID); err != nil {
		return nil, apperr.NotFound("Plan not found or inactive")
	}

	plan, err := s.Plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, s.internal("get plan", err)
	}
	if plan == nil || !plan.IsActive {
		return nil, apperr.NotFound("Plan not found or inactive")
	}

	existing, err := s.Subscriptions.FindActive(ctx, userID, plan.ID)
	if err != nil {
		return nil, s.internal("find active subscription", err)
	}
	if existing != nil {
		return nil, errDuplicateSubscription()
	}

	start := models.DayOf(*in.StartDate, s.loc)
	sub, err := s.Subscriptions.Create(ctx, &models.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		StartDate:        start,
		EndDate:          plan.DurationType.EndDate(start),
		PriceAtPurchase:  plan.Price,
		PlanNameSnapshot: plan.Name,
		MealTypeSnapshot: plan.MealType,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, errDuplicateSubscription()
		case errors.Is(err, repository.ErrForeignKey):
			return nil, apperr.NotFound("Plan not found or inactive")
		}
		return nil, s.internal("create subscription", err)
	}
	sub.Plan = plan

	s.metrics.SubscriptionCreated()
	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"user_id":         userID,
		"plan_id":         plan.ID,
		"start_date":      sub.StartDate.Format(time.DateOnly),
		"end_date":        sub.EndDate.Format(time.DateOnly),
	}).Info("Created subscription")

	return sub, nil
}

func errDuplicateSubscription() error {
	return apperr.Conflict("You already have an active subscription to this plan")
}

// ListMySubscriptions returns every subscription of userID, newest first,
// with plan and mess and the most recent attendance records.
func (s *Service) ListMySubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	subs, err := s.Subscriptions.ListByUser(ctx, userID, repository.SubscriptionFilters{})
	if err != nil {
		return nil, s.internal("list subscriptions", err)
	}
	if len(subs) == 0 {
		return []*models.Subscription{}, nil
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}

	recent, err := s.Attendance.ListRecent(ctx, ids, RecentAttendanceLimit)
	if err != nil {
		return nil, s.internal("list recent attendance", err)
	}
	for _, sub := range subs {
		sub.Attendance = recent[sub.ID]
	}

	return subs, nil
}

// ListActiveSubscriptions returns the active subscriptions of userID, newest first
func (s *Service) ListActiveSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	status := models.SubscriptionActive
	subs, err := s.Subscriptions.ListByUser(ctx, userID, repository.SubscriptionFilters{Status: &status})
	if err != nil {
		return nil, s.internal("list active subscriptions", err)
	}
	return subs, nil
}

// CancelSubscription moves a subscription of userID to cancelled. Dates and
// snapshot fields are left as they were.
func (s *Service) CancelSubscription(ctx context.Context, id, userID string) (*models.Subscription, error) {
	sub, err := s.ownedSubscription(ctx, id, userID, "You are not authorized to cancel this subscription")
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, apperr.Validation("Subscription is already cancelled")
	}

	updated, err := s.Subscriptions.UpdateStatus(ctx, sub.ID, models.SubscriptionCancelled)
	if err != nil {
		return nil, s.internal("cancel subscription", err)
	}
	if updated == nil {
		// another request cancelled it after the read above
		return nil, apperr.Validation("Subscription is already cancelled")
	}

	plan, err := s.Plans.GetByID(ctx, updated.PlanID)
	if err != nil {
		return nil, s.internal("get plan", err)
	}
	updated.Plan = plan

	s.metrics.SubscriptionCancelled()
	s.logger.WithFields(logrus.Fields{
		"subscription_id": updated.ID,
		"user_id":         userID,
	}).Info("Cancelled subscription")

	return updated, nil
}

// ownedSubscription loads a subscription and checks that userID holds it
func (s *Service) ownedSubscription(ctx context.Context, id, userID, forbidden string) (*models.Subscription, error) {
	sub, err := s.Subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal("get subscription", err)
	}
	if sub == nil {
		return nil, apperr.NotFound("Subscription not found")
	}
	if !sub.IsOwnedBy(userID) {
		return nil, apperr.Forbidden(forbidden)
	}
	return sub, nil
}
