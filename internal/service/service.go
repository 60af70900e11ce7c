package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/metrics"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the HTTP API and the Telegram bot.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	logger  *logrus.Logger
	tokens  *auth.Manager
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time

	Users         repository.UserRepository
	Messes        repository.MessRepository
	Plans         repository.PlanRepository
	Subscriptions repository.SubscriptionRepository
	Attendance    repository.AttendanceRepository
}

// Option configures optional collaborators of a Service
type Option func(*Service)

// WithMetrics records business counters on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the time zone in which calendar days are observed
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, tokens *auth.Manager,
	users repository.UserRepository,
	messes repository.MessRepository,
	plans repository.PlanRepository,
	subscriptions repository.SubscriptionRepository,
	attendance repository.AttendanceRepository,
	opts ...Option,
) *Service {
	s := &Service{
		logger: logger, tokens: tokens,
		loc: time.UTC, now: time.Now,
		Users: users, Messes: messes, Plans: plans,
		Subscriptions: subscriptions, Attendance: attendance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone in which calendar days are observed
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the day key of the current calendar day
func (s *Service) Today() time.Time {
	return models.DayOf(s.now(), s.loc)
}

// internal logs an unexpected failure and hides it behind a generic error
func (s *Service) internal(op string, err error) error {
	s.logger.WithError(err).Errorf("Failed to %s", op)
	return apperr.Internal("failed to "+op, err)
}
