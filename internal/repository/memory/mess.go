package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

type messRepository struct {
	s *Store
}

// messView copies a stored mess and joins its owner. Callers hold the lock.
func (s *Store) messView(m models.Mess) *models.Mess {
	m.Owner = s.summaryOf(m.OwnerID)
	m.Plans = nil
	return &m
}

func (r *messRepository) Create(ctx context.Context, mess *models.Mess) (*models.Mess, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[mess.OwnerID]; !ok {
		return nil, fmt.Errorf("failed to create mess: %w (messes_owner_id_fkey)", repository.ErrForeignKey)
	}

	created := *mess
	created.ID = newID()
	created.IsActive = true
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	created.Owner = nil
	created.Plans = nil
	r.s.messes[created.ID] = created

	return r.s.messView(created), nil
}

func (r *messRepository) GetByID(ctx context.Context, id string) (*models.Mess, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.messes[id]
	if !ok {
		return nil, nil
	}
	return r.s.messView(m), nil
}

func (r *messRepository) List(ctx context.Context, filters repository.MessFilters) ([]*models.Mess, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var messes []*models.Mess
	for _, m := range r.s.messes {
		if filters.OwnerID != nil && m.OwnerID != *filters.OwnerID {
			continue
		}
		if filters.OnlyActive && !m.IsActive {
			continue
		}
		messes = append(messes, r.s.messView(m))
	}

	sort.Slice(messes, func(i, j int) bool {
		return messes[i].CreatedAt.After(messes[j].CreatedAt)
	})
	return messes, nil
}

func (r *messRepository) Update(ctx context.Context, mess *models.Mess) (*models.Mess, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.messes[mess.ID]
	if !ok {
		return nil, fmt.Errorf("failed to update mess: mess with ID %s not found", mess.ID)
	}

	stored.Name = mess.Name
	stored.Location = mess.Location
	stored.Description = mess.Description
	stored.VegAvailable = mess.VegAvailable
	stored.NonvegAvailable = mess.NonvegAvailable
	stored.IsActive = mess.IsActive
	stored.UpdatedAt = r.s.tick()
	r.s.messes[stored.ID] = stored

	return r.s.messView(stored), nil
}
