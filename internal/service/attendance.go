package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// MarkAttendanceInput selects the day (today when Date is nil) and the meals
// to set. Nil meals keep their stored value.
type MarkAttendanceInput struct {
	Date      *time.Time
	Breakfast *bool
	Lunch     *bool
	Dinner    *bool
}

// AttendanceRange is an optional inclusive day range
type AttendanceRange struct {
	From *time.Time
	To   *time.Time
}

// AttendanceReport is a filtered attendance history with its counts
type AttendanceReport struct {
	Attendance []*models.Attendance
	Stats      models.AttendanceStats
}

// MarkAttendance records meals for one day of an active subscription. The
// write is a single store upsert keyed by (subscription, day), so concurrent
// marks for the same day merge into one record.
func (s *Service) MarkAttendance(ctx context.Context, subscriptionID, userID string, in MarkAttendanceInput) (*models.Attendance, error) {
	sub, err := s.ownedSubscription(ctx, subscriptionID, userID, "You are not authorized to mark attendance for this subscription")
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, apperr.Validation("Cannot mark attendance for inactive subscription")
	}

	day := s.Today()
	if in.Date != nil {
		day = models.DayOf(*in.Date, s.loc)
	}
	if !sub.Covers(day) {
		return nil, apperr.Validation("Date is outside subscription period")
	}

	mark := models.AttendanceMark{Breakfast: in.Breakfast, Lunch: in.Lunch, Dinner: in.Dinner}
	record, err := s.Attendance.Upsert(ctx, sub.ID, day, mark)
	if err != nil {
		return nil, s.internal("mark attendance", err)
	}

	s.metrics.MealsMarked(isTrue(in.Breakfast), isTrue(in.Lunch), isTrue(in.Dinner))
	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"date":            day.Format(time.DateOnly),
	}).Debug("Marked attendance")

	return record, nil
}

// GetAttendance returns attendance of a subscription, newest first, with
// counts computed over the returned records only.
func (s *Service) GetAttendance(ctx context.Context, subscriptionID, userID string, rng AttendanceRange) (*AttendanceReport, error) {
	sub, err := s.ownedSubscription(ctx, subscriptionID, userID, "You are not authorized to view this attendance")
	if err != nil {
		return nil, err
	}

	var filters repository.AttendanceFilters
	if rng.From != nil {
		from := models.DayOf(*rng.From, s.loc)
		filters.From = &from
	}
	if rng.To != nil {
		to := models.DayOf(*rng.To, s.loc)
		filters.To = &to
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, apperr.Validation("startDate must not be after endDate")
	}

	records, err := s.Attendance.List(ctx, sub.ID, filters)
	if err != nil {
		return nil, s.internal("list attendance", err)
	}
	if records == nil {
		records = []*models.Attendance{}
	}

	return &AttendanceReport{Attendance: records, Stats: models.ComputeStats(records)}, nil
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
