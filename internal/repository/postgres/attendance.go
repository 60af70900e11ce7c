package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

const attendanceColumns = `id, subscription_id, date, breakfast, lunch, dinner, created_at, updated_at`

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *sql.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row scanner) (*models.Attendance, error) {
	a := &models.Attendance{}
	err := row.Scan(
		&a.ID,
		&a.SubscriptionID,
		&a.Date,
		&a.Breakfast,
		&a.Lunch,
		&a.Dinner,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// Upsert writes the day's record in one statement keyed by the
// (subscription_id, date) unique constraint. NULL flags fall back to the
// stored value on update and to FALSE on insert.
func (r *attendanceRepository) Upsert(ctx context.Context, subscriptionID string, day time.Time, mark models.AttendanceMark) (*models.Attendance, error) {
	query := `
		INSERT INTO attendance (id, subscription_id, date, breakfast, lunch, dinner, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4::boolean, FALSE), COALESCE($5::boolean, FALSE), COALESCE($6::boolean, FALSE), $7, $7)
		ON CONFLICT (subscription_id, date) DO UPDATE
		SET breakfast = COALESCE($4::boolean, attendance.breakfast),
		    lunch = COALESCE($5::boolean, attendance.lunch),
		    dinner = COALESCE($6::boolean, attendance.dinner),
		    updated_at = $7
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		subscriptionID,
		dateParam(day),
		nullBool(mark.Breakfast),
		nullBool(mark.Lunch),
		nullBool(mark.Dinner),
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", translateError(err))
	}

	return a, nil
}

func (r *attendanceRepository) List(ctx context.Context, subscriptionID string, filters repository.AttendanceFilters) ([]*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE subscription_id = $1`
	args := []interface{}{subscriptionID}
	argIdx := 2

	if filters.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, dateParam(*filters.From))
		argIdx++
	}
	if filters.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, dateParam(*filters.To))
	}

	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}

func (r *attendanceRepository) ListRecent(ctx context.Context, subscriptionIDs []string, limit int) (map[string][]*models.Attendance, error) {
	result := make(map[string][]*models.Attendance, len(subscriptionIDs))
	if len(subscriptionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM (
			SELECT ` + attendanceColumns + `,
			       ROW_NUMBER() OVER (PARTITION BY subscription_id ORDER BY date DESC) AS rn
			FROM attendance
			WHERE subscription_id = ANY($1)
		) ranked
		WHERE rn <= $2
		ORDER BY subscription_id, date DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(subscriptionIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result[a.SubscriptionID] = append(result[a.SubscriptionID], a)
	}

	return result, rows.Err()
}
