package api

import (
	"net/http"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
)

type createMessRequest struct {
	Name            string  `json:"name" validate:"required"`
	Location        string  `json:"location" validate:"required"`
	Description     *string `json:"description"`
	VegAvailable    bool    `json:"vegAvailable"`
	NonvegAvailable bool    `json:"nonvegAvailable"`
}

type updateMessRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Location        *string `json:"location" validate:"omitempty,min=1"`
	Description     *string `json:"description"`
	VegAvailable    *bool   `json:"vegAvailable"`
	NonvegAvailable *bool   `json:"nonvegAvailable"`
	IsActive        *bool   `json:"isActive"`
}

func (s *Server) handleCreateMess(w http.ResponseWriter, r *http.Request) {
	var req createMessRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	mess, err := s.svc.CreateMess(r.Context(), currentUserID(r), service.CreateMessInput{
		Name:            req.Name,
		Location:        req.Location,
		Description:     req.Description,
		VegAvailable:    req.VegAvailable,
		NonvegAvailable: req.NonvegAvailable,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusCreated, mess, "Mess created successfully")
}

func (s *Server) handleListMesses(w http.ResponseWriter, r *http.Request) {
	messes, err := s.svc.ListMesses(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, nonNil(messes), "")
}

func (s *Server) handleMyMesses(w http.ResponseWriter, r *http.Request) {
	messes, err := s.svc.MyMesses(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, nonNil(messes), "")
}

func (s *Server) handleGetMess(w http.ResponseWriter, r *http.Request) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	mess, err := s.svc.GetMess(r.Context(), messID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, mess, "")
}

func (s *Server) handleUpdateMess(w http.ResponseWriter, r *http.Request) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req updateMessRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	mess, err := s.svc.UpdateMess(r.Context(), messID, currentUserID(r), models.MessUpdate{
		Name:            req.Name,
		Location:        req.Location,
		Description:     req.Description,
		VegAvailable:    req.VegAvailable,
		NonvegAvailable: req.NonvegAvailable,
		IsActive:        req.IsActive,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusOK, mess, "Mess updated successfully")
}
