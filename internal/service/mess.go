package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// CreateMessInput carries the fields of a new mess
type CreateMessInput struct {
	Name            string
	Location        string
	Description     *string
	VegAvailable    bool
	NonvegAvailable bool
}

// CreateMess registers a mess owned by ownerID
func (s *Service) CreateMess(ctx context.Context, ownerID string, in CreateMessInput) (*models.Mess, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" || in.Location == "" {
		return nil, apperr.Validation("Name and location are required")
	}

	mess, err := s.Messes.Create(ctx, &models.Mess{
		OwnerID:         ownerID,
		Name:            in.Name,
		Location:        in.Location,
		Description:     in.Description,
		VegAvailable:    in.VegAvailable,
		NonvegAvailable: in.NonvegAvailable,
	})
	if err != nil {
		return nil, s.internal("create mess", err)
	}

	s.logger.WithFields(logrus.Fields{
		"mess_id":  mess.ID,
		"owner_id": ownerID,
	}).Info("Created mess")

	return mess, nil
}

// ListMesses returns active messes, newest first, with their active plans
func (s *Service) ListMesses(ctx context.Context) ([]*models.Mess, error) {
	messes, err := s.Messes.List(ctx, repository.MessFilters{OnlyActive: true})
	if err != nil {
		return nil, s.internal("list messes", err)
	}
	if err := s.attachPlans(ctx, messes); err != nil {
		return nil, err
	}
	return messes, nil
}

// GetMess returns one mess with its owner and active plans
func (s *Service) GetMess(ctx context.Context, id string) (*models.Mess, error) {
	mess, err := s.findMess(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachPlans(ctx, []*models.Mess{mess}); err != nil {
		return nil, err
	}
	return mess, nil
}

// MyMesses returns every mess of ownerID, newest first
func (s *Service) MyMesses(ctx context.Context, ownerID string) ([]*models.Mess, error) {
	messes, err := s.Messes.List(ctx, repository.MessFilters{OwnerID: &ownerID})
	if err != nil {
		return nil, s.internal("list owner messes", err)
	}
	if err := s.attachPlans(ctx, messes); err != nil {
		return nil, err
	}
	return messes, nil
}

// UpdateMess applies a partial update to a mess owned by ownerID
func (s *Service) UpdateMess(ctx context.Context, id, ownerID string, upd models.MessUpdate) (*models.Mess, error) {
	mess, err := s.ownedMess(ctx, id, ownerID, "You are not authorized to update this mess")
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Validation("Name cannot be empty", apperr.FieldError{Field: "name", Message: "cannot be empty"})
	}
	if upd.Location != nil && strings.TrimSpace(*upd.Location) == "" {
		return nil, apperr.Validation("Location cannot be empty", apperr.FieldError{Field: "location", Message: "cannot be empty"})
	}

	upd.Apply(mess)
	mess, err = s.Messes.Update(ctx, mess)
	if err != nil {
		return nil, s.internal("update mess", err)
	}

	s.logger.WithField("mess_id", mess.ID).Info("Updated mess")
	return mess, nil
}

func (s *Service) findMess(ctx context.Context, id string) (*models.Mess, error) {
	mess, err := s.Messes.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal("get mess", err)
	}
	if mess == nil {
		return nil, apperr.NotFound("Mess not found")
	}
	return mess, nil
}

// ownedMess loads a mess and checks that ownerID owns it
func (s *Service) ownedMess(ctx context.Context, id, ownerID, forbidden string) (*models.Mess, error) {
	mess, err := s.findMess(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mess.IsOwnedBy(ownerID) {
		return nil, apperr.Forbidden(forbidden)
	}
	return mess, nil
}

// attachPlans loads the active plans of messes in one query
func (s *Service) attachPlans(ctx context.Context, messes []*models.Mess) error {
	if len(messes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(messes))
	byID := make(map[string]*models.Mess, len(messes))
	for _, m := range messes {
		ids = append(ids, m.ID)
		byID[m.ID] = m
		m.Plans = []*models.Plan{}
	}

	plans, err := s.Plans.ListByMesses(ctx, ids, true)
	if err != nil {
		return s.internal("list plans", err)
	}
	for _, p := range plans {
		if m, ok := byID[p.MessID]; ok {
			m.Plans = append(m.Plans, p)
		}
	}
	return nil
}
