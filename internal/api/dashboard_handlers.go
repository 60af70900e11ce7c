package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/report"
)

func (s *Server) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.todaySummary(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondData(w, http.StatusOK, summary, "")
}

func (s *Server) handleExportTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.todaySummary(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := report.TodaySummary(summary)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("failed to render today summary: %w", err))
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.TodaySummaryFilename(summary)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Debug("failed to write export")
	}
}

func (s *Server) todaySummary(r *http.Request) (*models.TodaySummary, error) {
	messID, err := pathID(r, "messId", "Mess not found")
	if err != nil {
		return nil, err
	}
	return s.svc.TodaySummary(r.Context(), messID, currentUserID(r))
}
