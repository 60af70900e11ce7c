package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

type planRepository struct {
	s *Store
}

func (r *planRepository) Create(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messes[plan.MessID]; !ok {
		return nil, fmt.Errorf("failed to create plan: %w (plans_mess_id_fkey)", repository.ErrForeignKey)
	}

	created := *plan
	created.ID = newID()
	created.IsActive = true
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	created.Mess = nil
	r.s.plans[created.ID] = created

	out := created
	return &out, nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.plans[id]
	if !ok {
		return nil, nil
	}
	if m, ok := r.s.messes[p.MessID]; ok {
		mess := m
		p.Mess = &mess
	}
	return &p, nil
}

func (r *planRepository) ListByMesses(ctx context.Context, messIDs []string, onlyActive bool) ([]*models.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(messIDs))
	for _, id := range messIDs {
		wanted[id] = true
	}

	var plans []*models.Plan
	for _, p := range r.s.plans {
		if !wanted[p.MessID] || (onlyActive && !p.IsActive) {
			continue
		}
		plan := p
		plans = append(plans, &plan)
	}

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Price != plans[j].Price {
			return plans[i].Price < plans[j].Price
		}
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.plans[plan.ID]
	if !ok {
		return nil, fmt.Errorf("failed to update plan: plan with ID %s not found", plan.ID)
	}

	stored.Name = plan.Name
	stored.Price = plan.Price
	stored.MealsPerDay = plan.MealsPerDay
	stored.IsActive = plan.IsActive
	stored.UpdatedAt = r.s.tick()
	r.s.plans[stored.ID] = stored

	out := stored
	return &out, nil
}
