package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/unitq/unitq-backend/internal/model"
	"github.com/unitq/unitq-backend/internal/repository"
)

// UnitService exposes the unit catalog learners pick their sessions from.
type UnitService struct {
	unitRepo *repository.UnitRepository
	log      zerolog.Logger
}

// NewUnitService creates a new UnitService.
func NewUnitService(unitRepo *repository.UnitRepository, log zerolog.Logger) *UnitService {
	return &UnitService{
		unitRepo: unitRepo,
		log:      log.With().Str("component", "unit_service").Logger(),
	}
}

// List returns every unit.
func (s *UnitService) List(ctx context.Context) ([]model.Unit, error) {
	return s.unitRepo.List(ctx)
}

// Get returns one unit by id.
func (s *UnitService) Get(ctx context.Context, id int64) (*model.Unit, error) {
	u, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return u, nil
}
