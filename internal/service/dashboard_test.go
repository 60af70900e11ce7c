package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
)

func TestTodaySummary_CountsTodayOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 15))
	_, err := f.svc.MarkAttendance(ctx, sub.ID, f.user.ID, MarkAttendanceInput{Lunch: ptr(true)})
	require.NoError(t, err)

	yesterday := date(2024, 1, 19)
	_, err = f.svc.MarkAttendance(ctx, sub.ID, f.user.ID, MarkAttendanceInput{Date: &yesterday, Breakfast: ptr(true), Dinner: ptr(true)})
	require.NoError(t, err)

	summary, err := f.svc.TodaySummary(ctx, f.mess.ID, f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, date(2024, 1, 20), summary.Date)
	assert.Equal(t, models.MessSummary{ID: f.mess.ID, Name: "Annapurna", Location: "Sector 5"}, summary.Mess)
	assert.Equal(t, models.SummaryCounts{TotalActiveSubscriptions: 1, LunchCount: 1}, summary.Summary)
	require.Len(t, summary.Details, 1)
	assert.Equal(t, sub.ID, summary.Details[0].SubscriptionID)
	assert.Equal(t, "Asha", summary.Details[0].User.Name)
	assert.Equal(t, models.PlanSummary{ID: f.plan.ID, Name: "Veg Monthly", MealType: models.MealVeg}, summary.Details[0].Plan)
	assert.Equal(t, models.MealFlags{Lunch: true}, summary.Details[0].Attendance)
}

func TestTodaySummary_SelectsActiveSubscriptionsCoveringToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	third := f.seedUser(t, "Bala", "bala@example.com", models.RoleUser)
	fourth := f.seedUser(t, "Chitra", "chitra@example.com", models.RoleUser)

	f.subscribe(t, f.user.ID, f.plan.ID, date(2024, 1, 20))
	f.subscribe(t, third.ID, f.plan.ID, date(2024, 1, 21))
	cancelled := f.subscribe(t, fourth.ID, f.plan.ID, date(2024, 1, 1))
	_, err := f.svc.CancelSubscription(ctx, cancelled.ID, fourth.ID)
	require.NoError(t, err)

	summary, err := f.svc.TodaySummary(ctx, f.mess.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SummaryCounts{TotalActiveSubscriptions: 1}, summary.Summary)
	require.Len(t, summary.Details, 1)
	assert.Equal(t, models.MealFlags{}, summary.Details[0].Attendance)

	records, err := f.svc.GetAttendance(ctx, summary.Details[0].SubscriptionID, f.user.ID, AttendanceRange{})
	require.NoError(t, err)
	assert.Empty(t, records.Attendance)
}

func TestTodaySummary_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.TodaySummary(ctx, f.mess.ID, f.other.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.TodaySummary(ctx, "missing", f.owner.ID)
	requireKind(t, err, apperr.KindNotFound)

	empty, err := f.svc.TodaySummary(ctx, f.mess.ID, f.owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Details)
	assert.Zero(t, empty.Summary.TotalActiveSubscriptions)
}
