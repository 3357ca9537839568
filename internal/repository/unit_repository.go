package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

// UnitRepository handles unit data access.
type UnitRepository struct {
	pool *pgxpool.Pool
}

// NewUnitRepository creates a new UnitRepository.
func NewUnitRepository(pool *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{pool: pool}
}

// GetByID retrieves a single unit.
func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*model.Unit, error) {
	u := &model.Unit{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM units WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// List retrieves every unit in id order.
func (r *UnitRepository) List(ctx context.Context) ([]model.Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM units ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ListByIDs retrieves the units with the given ids.
func (r *UnitRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM units WHERE id = ANY($1) ORDER BY id`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
