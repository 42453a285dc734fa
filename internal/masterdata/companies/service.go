package companies

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Company, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	if id <= 0 {
		return Company{}, fmt.Errorf("%w: invalid company id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, company Company) (Company, error) {
	if err := s.validate(company); err != nil {
		return Company{}, err
	}
	return s.repo.Create(ctx, company)
}

func (s *Service) Update(ctx context.Context, id int64, company Company) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid company id", httpx.ErrValidation)
	}
	if err := s.validate(company); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, company)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid company id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(company Company) error {
	if strings.TrimSpace(company.Name) == "" {
		return fmt.Errorf("%w: company name is required", httpx.ErrValidation)
	}
	return nil
}
