// Package memory implements the repository interfaces in process memory.
// It enforces the same uniqueness rules as the Postgres schema and backs
// service and API tests.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

// Store holds every table behind one lock
type Store struct {
	mu   sync.RWMutex
	last time.Time

	users         map[string]models.User
	messes        map[string]models.Mess
	plans         map[string]models.Plan
	subscriptions map[string]models.Subscription
	attendance    map[string]models.Attendance
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:         make(map[string]models.User),
		messes:        make(map[string]models.Mess),
		plans:         make(map[string]models.Plan),
		subscriptions: make(map[string]models.Subscription),
		attendance:    make(map[string]models.Attendance),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Messes returns the mess repository view of the store
func (s *Store) Messes() repository.MessRepository { return &messRepository{s} }

// Plans returns the plan repository view of the store
func (s *Store) Plans() repository.PlanRepository { return &planRepository{s} }

// Subscriptions returns the subscription repository view of the store
func (s *Store) Subscriptions() repository.SubscriptionRepository { return &subscriptionRepository{s} }

// Attendance returns the attendance repository view of the store
func (s *Store) Attendance() repository.AttendanceRepository { return &attendanceRepository{s} }

// tick returns a strictly increasing timestamp so creation order is stable.
// Callers hold the write lock.
func (s *Store) tick() time.Time {
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func newID() string {
	return uuid.NewString()
}
