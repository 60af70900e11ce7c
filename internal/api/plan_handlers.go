package api

import (
	"net/http"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
)

type createPlanRequest struct {
	Name         string   `json:"name" validate:"required"`
	Price        *float64 `json:"price" validate:"required,gte=0,lte=99999999.99"`
	DurationType string   `json:"durationType" validate:"required,oneof=weekly monthly"`
	MealType     string   `json:"mealType" validate:"required,oneof=veg nonveg"`
	MealsPerDay  int      `json:"mealsPerDay" validate:"required,min=1,max=3"`
}

type updatePlanRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	MealsPerDay *int     `json:"mealsPerDay" validate:"omitempty,min=1,max=3"`
	IsActive    *bool    `json:"isActive"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req createPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	plan, err := s.svc.CreatePlan(r.Context(), messID, currentUserID(r), service.CreatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		DurationType: models.DurationType(req.DurationType),
		MealType:     models.MealType(req.MealType),
		MealsPerDay:  req.MealsPerDay,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusCreated, plan, "Plan created successfully")
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	plans, err := s.svc.ListPlans(r.Context(), messID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, nonNil(plans), "")
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	planID, err := pathID(r, "planId", "Plan not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req updatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	plan, err := s.svc.UpdatePlan(r.Context(), messID, planID, currentUserID(r), models.PlanUpdate{
		Name:        req.Name,
		Price:       req.Price,
		MealsPerDay: req.MealsPerDay,
		IsActive:    req.IsActive,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusOK, plan, "Plan updated successfully")
}
