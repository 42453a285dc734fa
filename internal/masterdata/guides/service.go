package guides

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Guide, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Guide, error) {
	if id <= 0 {
		return Guide{}, fmt.Errorf("%w: invalid guide id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, guide Guide) (Guide, error) {
	if strings.TrimSpace(guide.FullName) == "" {
		return Guide{}, fmt.Errorf("%w: guide name is required", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, guide)
}

func (s *Service) Update(ctx context.Context, id int64, guide Guide) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid guide id", httpx.ErrValidation)
	}
	if strings.TrimSpace(guide.FullName) == "" {
		return fmt.Errorf("%w: guide name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, guide)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid guide id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
