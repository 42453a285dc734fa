package tours

import (
	"context"
	"fmt"
	"strings"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]TourWithOperator, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Tour, error) {
	if id <= 0 {
		return Tour{}, fmt.Errorf("%w: invalid tour id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, tour Tour) (Tour, error) {
	if err := s.validate(tour); err != nil {
		return Tour{}, err
	}
	return s.repo.Create(ctx, tour)
}

func (s *Service) Update(ctx context.Context, id int64, tour Tour) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid tour id", httpx.ErrValidation)
	}
	if err := s.validate(tour); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, tour)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid tour id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(tour Tour) error {
	if strings.TrimSpace(tour.Name) == "" {
		return fmt.Errorf("%w: tour name is required", httpx.ErrValidation)
	}
	if tour.OperatorID <= 0 {
		return fmt.Errorf("%w: operator is required", httpx.ErrValidation)
	}
	return nil
}
