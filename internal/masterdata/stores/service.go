package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

var maxCommissionRate = decimal.NewFromInt(100)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]StoreWithCompany, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Store, error) {
	if id <= 0 {
		return Store{}, fmt.Errorf("%w: invalid store id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, store Store) (Store, error) {
	if err := s.validate(store); err != nil {
		return Store{}, err
	}
	return s.repo.Create(ctx, store)
}

func (s *Service) Update(ctx context.Context, id int64, store Store) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid store id", httpx.ErrValidation)
	}
	if err := s.validate(store); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, store)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid store id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(store Store) error {
	if strings.TrimSpace(store.Name) == "" {
		return fmt.Errorf("%w: store name is required", httpx.ErrValidation)
	}
	if store.CompanyID <= 0 {
		return fmt.Errorf("%w: company is required", httpx.ErrValidation)
	}
	if store.CommissionRate.IsNegative() || store.CommissionRate.GreaterThan(maxCommissionRate) {
		return fmt.Errorf("%w: commission rate must be between 0 and 100", httpx.ErrValidation)
	}
	return nil
}
