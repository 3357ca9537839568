package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitq/unitq-backend/internal/model"
)

// UserRepository handles user data access. Authentication itself lives
// outside this service; only account provisioning and lookups happen here.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, name, phone, passwordHash string) (*model.User, error) {
	u := &model.User{Name: name, Phone: phone, PasswordHash: passwordHash}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, phone, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`, name, phone, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, password_hash, created_at FROM users WHERE phone = $1`, phone,
	).Scan(&u.ID, &u.Name, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
