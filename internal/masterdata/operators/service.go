package operators

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Operator, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Operator, error) {
	if id <= 0 {
		return Operator{}, fmt.Errorf("%w: invalid operator id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, operator Operator) (Operator, error) {
	if strings.TrimSpace(operator.Name) == "" {
		return Operator{}, fmt.Errorf("%w: operator name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, operator)
}

func (s *Service) Update(ctx context.Context, id int64, operator Operator) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid operator id", httpx.ErrValidation)
	}
	if strings.TrimSpace(operator.Name) == "" {
		return fmt.Errorf("%w: operator name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, operator)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid operator id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
