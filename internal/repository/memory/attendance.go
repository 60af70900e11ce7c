package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

type attendanceRepository struct {
	s *Store
}

// attendanceOn finds the record of subscriptionID for day. Callers hold the lock.
func (s *Store) attendanceOn(subscriptionID string, day time.Time) (models.Attendance, bool) {
	for _, a := range s.attendance {
		if a.SubscriptionID == subscriptionID && a.Date.Equal(day) {
			return a, true
		}
	}
	return models.Attendance{}, false
}

// Upsert merges under the store lock, matching ON CONFLICT DO UPDATE.
func (r *attendanceRepository) Upsert(ctx context.Context, subscriptionID string, day time.Time, mark models.AttendanceMark) (*models.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subscriptions[subscriptionID]; !ok {
		return nil, fmt.Errorf("failed to upsert attendance: %w (attendance_subscription_id_fkey)", repository.ErrForeignKey)
	}

	now := r.s.tick()
	record, ok := r.s.attendanceOn(subscriptionID, day)
	if !ok {
		record = models.Attendance{
			ID:             newID(),
			SubscriptionID: subscriptionID,
			Date:           day,
			CreatedAt:      now,
		}
	}
	mark.Apply(&record)
	record.UpdatedAt = now
	r.s.attendance[record.ID] = record

	out := record
	return &out, nil
}

func (r *attendanceRepository) List(ctx context.Context, subscriptionID string, filters repository.AttendanceFilters) ([]*models.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []*models.Attendance
	for _, a := range r.s.attendance {
		if a.SubscriptionID != subscriptionID {
			continue
		}
		if filters.From != nil && a.Date.Before(*filters.From) {
			continue
		}
		if filters.To != nil && a.Date.After(*filters.To) {
			continue
		}
		record := a
		records = append(records, &record)
	}

	sortNewestFirst(records)
	return records, nil
}

func (r *attendanceRepository) ListRecent(ctx context.Context, subscriptionIDs []string, limit int) (map[string][]*models.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[string][]*models.Attendance, len(subscriptionIDs))
	wanted := make(map[string]bool, len(subscriptionIDs))
	for _, id := range subscriptionIDs {
		wanted[id] = true
	}

	for _, a := range r.s.attendance {
		if wanted[a.SubscriptionID] {
			record := a
			result[a.SubscriptionID] = append(result[a.SubscriptionID], &record)
		}
	}
	for id, records := range result {
		sortNewestFirst(records)
		if len(records) > limit {
			result[id] = records[:limit]
		}
	}
	return result, nil
}

func sortNewestFirst(records []*models.Attendance) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
