package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/repository"
)

const messSelect = `
		SELECT m.id, m.owner_id, m.name, m.location, m.description, m.veg_available, m.nonveg_available,
		       m.is_active, m.created_at, m.updated_at, u.name, u.email, u.phone
		FROM messes m
		INNER JOIN users u ON u.id = m.owner_id`

type messRepository struct {
	db *sql.DB
}

// NewMessRepository creates a new mess repository
func NewMessRepository(db *sql.DB) repository.MessRepository {
	return &messRepository{db: db}
}

func scanMess(row scanner) (*models.Mess, error) {
	mess := &models.Mess{Owner: &models.UserSummary{}}
	err := row.Scan(
		&mess.ID,
		&mess.OwnerID,
		&mess.Name,
		&mess.Location,
		&mess.Description,
		&mess.VegAvailable,
		&mess.NonvegAvailable,
		&mess.IsActive,
		&mess.CreatedAt,
		&mess.UpdatedAt,
		&mess.Owner.Name,
		&mess.Owner.Email,
		&mess.Owner.Phone,
	)
	mess.Owner.ID = mess.OwnerID
	return mess, err
}

func (r *messRepository) Create(ctx context.Context, mess *models.Mess) (*models.Mess, error) {
	query := `
		INSERT INTO messes (id, owner_id, name, location, description, veg_available, nonveg_available, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	now := time.Now()
	mess.ID = uuid.NewString()
	mess.IsActive = true
	mess.CreatedAt = now
	mess.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		mess.ID,
		mess.OwnerID,
		mess.Name,
		mess.Location,
		mess.Description,
		mess.VegAvailable,
		mess.NonvegAvailable,
		mess.IsActive,
		mess.CreatedAt,
		mess.UpdatedAt,
	).Scan(&mess.CreatedAt, &mess.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create mess: %w", translateError(err))
	}

	return r.GetByID(ctx, mess.ID)
}

func (r *messRepository) GetByID(ctx context.Context, id string) (*models.Mess, error) {
	query := messSelect + `
		WHERE m.id = $1`

	mess, err := scanMess(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mess: %w", err)
	}

	return mess, nil
}

func (r *messRepository) List(ctx context.Context, filters repository.MessFilters) ([]*models.Mess, error) {
	query := messSelect + `
		WHERE TRUE`
	var args []interface{}
	argIdx := 1

	if filters.OwnerID != nil {
		query += fmt.Sprintf(" AND m.owner_id = $%d", argIdx)
		args = append(args, *filters.OwnerID)
		argIdx++
	}
	if filters.OnlyActive {
		query += " AND m.is_active = TRUE"
	}

	query += " ORDER BY m.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messes: %w", err)
	}
	defer rows.Close()

	var messes []*models.Mess
	for rows.Next() {
		mess, err := scanMess(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mess: %w", err)
		}
		messes = append(messes, mess)
	}

	return messes, rows.Err()
}

func (r *messRepository) Update(ctx context.Context, mess *models.Mess) (*models.Mess, error) {
	query := `
		UPDATE messes
		SET name = $2, location = $3, description = $4, veg_available = $5, nonveg_available = $6, is_active = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at`

	mess.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		mess.ID,
		mess.Name,
		mess.Location,
		mess.Description,
		mess.VegAvailable,
		mess.NonvegAvailable,
		mess.IsActive,
		mess.UpdatedAt,
	).Scan(&mess.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update mess: %w", err)
	}

	return mess, nil
}
