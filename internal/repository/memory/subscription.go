package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

type subscriptionRepository struct {
	s *Store
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.plans[sub.PlanID]; !ok {
		return nil, fmt.Errorf("failed to create subscription: %w (subscriptions_plan_id_fkey)", repository.ErrForeignKey)
	}
	if _, ok := r.s.users[sub.UserID]; !ok {
		return nil, fmt.Errorf("failed to create subscription: %w (subscriptions_user_id_fkey)", repository.ErrForeignKey)
	}
	for _, existing := range r.s.subscriptions {
		if existing.UserID == sub.UserID && existing.PlanID == sub.PlanID && existing.IsActive() {
			return nil, fmt.Errorf("failed to create subscription: %w (subscriptions_one_active_per_plan)", repository.ErrDuplicate)
		}
	}

	created := *sub
	created.ID = newID()
	created.Status = models.SubscriptionActive
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	created.Plan = nil
	created.User = nil
	created.Attendance = nil
	r.s.subscriptions[created.ID] = created

	out := created
	return &out, nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindActive(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.subscriptions {
		if sub.UserID == userID && sub.PlanID == planID && sub.IsActive() {
			return &sub, nil
		}
	}
	return nil, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string, filters repository.SubscriptionFilters) ([]*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var subs []*models.Subscription
	for _, sub := range r.s.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if filters.Status != nil && sub.Status != *filters.Status {
			continue
		}

		view := sub
		if p, ok := r.s.plans[sub.PlanID]; ok {
			plan := p
			if m, ok := r.s.messes[p.MessID]; ok {
				mess := m
				plan.Mess = &mess
			}
			view.Plan = &plan
		}
		subs = append(subs, &view)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) (*models.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subscriptions[id]
	if !ok || sub.Status == status {
		return nil, nil
	}

	if status == models.SubscriptionActive {
		for otherID, other := range r.s.subscriptions {
			if otherID != id && other.UserID == sub.UserID && other.PlanID == sub.PlanID && other.IsActive() {
				return nil, fmt.Errorf("failed to update subscription status: %w", repository.ErrDuplicate)
			}
		}
	}

	sub.Status = status
	sub.UpdatedAt = r.s.tick()
	r.s.subscriptions[id] = sub

	out := sub
	return &out, nil
}

func (r *subscriptionRepository) ListActiveOnDay(ctx context.Context, messID string, day time.Time) ([]*models.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var subs []*models.Subscription
	for _, sub := range r.s.subscriptions {
		p, ok := r.s.plans[sub.PlanID]
		if !ok || p.MessID != messID || !sub.IsActive() || !sub.Covers(day) {
			continue
		}

		view := sub
		plan := p
		view.Plan = &plan
		view.User = r.s.summaryOf(sub.UserID)
		if a, ok := r.s.attendanceOn(sub.ID, day); ok {
			view.Attendance = []*models.Attendance{&a}
		}
		subs = append(subs, &view)
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].User.Name != subs[j].User.Name {
			return subs[i].User.Name < subs[j].User.Name
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	return subs, nil
}
