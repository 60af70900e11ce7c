package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/service"
)

type createSubscriptionRequest struct {
	PlanID    string `json:"planId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
}

type markAttendanceRequest struct {
	Date      string `json:"date"`
	Breakfast *bool  `json:"breakfast"`
	Lunch     *bool  `json:"lunch"`
	Dinner    *bool  `json:"dinner"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := uuid.Parse(req.PlanID); err != nil {
		s.respondError(w, r, apperr.NotFound("Plan not found or inactive"))
		return
	}

	start, err := parseDate("startDate", req.StartDate, s.svc.Location())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sub, err := s.svc.CreateSubscription(r.Context(), currentUserID(r), service.CreateSubscriptionInput{
		PlanID:    req.PlanID,
		StartDate: &start,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusCreated, sub, "Subscription created successfully")
}

func (s *Server) handleMySubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.svc.ListMySubscriptions(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, nonNil(subs), "")
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r, "id", "Subscription not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sub, err := s.svc.CancelSubscription(r.Context(), subID, currentUserID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, sub, "Subscription cancelled successfully")
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r, "id", "Subscription not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	date, err := parseOptionalDate("date", req.Date, s.svc.Location())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	record, err := s.svc.MarkAttendance(r.Context(), subID, currentUserID(r), service.MarkAttendanceInput{
		Date:      date,
		Breakfast: req.Breakfast,
		Lunch:     req.Lunch,
		Dinner:    req.Dinner,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondData(w, http.StatusCreated, record, "Attendance marked successfully")
}

func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r, "id", "Subscription not found")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	loc := s.svc.Location()
	query := r.URL.Query()

	from, err := parseOptionalDate("startDate", query.Get("startDate"), loc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	to, err := parseOptionalDate("endDate", query.Get("endDate"), loc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.svc.GetAttendance(r.Context(), subID, currentUserID(r), service.AttendanceRange{From: from, To: to})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    nonNil(report.Attendance),
		Stats:   report.Stats,
	})
}
