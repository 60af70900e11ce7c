package api

import (
	"net/http"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
)

type registerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=user mess_owner admin"`
	Phone    *string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusCreated, result, "User registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusOK, result, "Login successful")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Profile(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, user, "")
}

func (s *Server) handleTelegramLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.svc.TelegramLinkToken(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusCreated, link, "Send the command to the bot to link your chat")
}
