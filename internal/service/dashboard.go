package service

import (
	"context"

	"github.com/Kerhoff/MessBoT/internal/models"
)

// TodaySummary aggregates today's attendance of every active subscriber of a
// mess. Subscribers without a record for today count as having taken no meal;
// no record is created for them.
func (s *Service) TodaySummary(ctx context.Context, messID, ownerID string) (*models.TodaySummary, error) {
	mess, err := s.ownedMess(ctx, messID, ownerID, "You are not authorized to view this mess's dashboard")
	if err != nil {
		return nil, err
	}

	today := s.Today()
	subs, err := s.Subscriptions.ListActiveOnDay(ctx, mess.ID, today)
	if err != nil {
		return nil, s.internal("list active subscriptions", err)
	}

	summary := &models.TodaySummary{
		Date:    today,
		Mess:    mess.Summary(),
		Details: make([]models.SubscriberAttendance, 0, len(subs)),
	}
	summary.Summary.TotalActiveSubscriptions = len(subs)

	for _, sub := range subs {
		var meals models.MealFlags
		if len(sub.Attendance) > 0 {
			meals = sub.Attendance[0].Meals()
		}
		if meals.Breakfast {
			summary.Summary.BreakfastCount++
		}
		if meals.Lunch {
			summary.Summary.LunchCount++
		}
		if meals.Dinner {
			summary.Summary.DinnerCount++
		}

		row := models.SubscriberAttendance{
			SubscriptionID: sub.ID,
			User:           sub.User,
			Attendance:     meals,
		}
		if sub.Plan != nil {
			row.Plan = models.PlanSummary{ID: sub.Plan.ID, Name: sub.Plan.Name, MealType: sub.Plan.MealType}
		}
		summary.Details = append(summary.Details, row)
	}

	return summary, nil
}
