package guides

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

type memoryGuidesRepo struct {
	guides []Guide
}

func (r *memoryGuidesRepo) List(ctx context.Context, filters shared.ListFilters) ([]Guide, int, error) {
	return r.guides, len(r.guides), nil
}

func (r *memoryGuidesRepo) ListAllActive(ctx context.Context) ([]Guide, error) {
	var active []Guide
	for _, g := range r.guides {
		if g.IsActive {
			active = append(active, g)
		}
	}
	return active, nil
}

func (r *memoryGuidesRepo) Get(ctx context.Context, id int64) (Guide, error) {
	for _, g := range r.guides {
		if g.ID == id {
			return g, nil
		}
	}
	return Guide{}, httpx.ErrNotFound
}

func (r *memoryGuidesRepo) Create(ctx context.Context, guide Guide) (Guide, error) {
	guide.ID = int64(len(r.guides) + 1)
	r.guides = append(r.guides, guide)
	return guide, nil
}

func (r *memoryGuidesRepo) Update(ctx context.Context, id int64, guide Guide) error { return nil }
func (r *memoryGuidesRepo) Delete(ctx context.Context, id int64) error              { return nil }

func registry(names ...string) *Service {
	repo := &memoryGuidesRepo{}
	for i, name := range names {
		repo.guides = append(repo.guides, Guide{ID: int64(i + 1), FullName: name, IsActive: true})
	}
	return NewService(repo)
}

func TestResolveByNameExactMatch(t *testing.T) {
	svc := registry("Mehmet Yılmaz", "Ayşe Demir")

	g, err := svc.ResolveByName(context.Background(), "Ayşe Demir")
	require.NoError(t, err)
	require.Equal(t, int64(2), g.ID)
}

func TestResolveByNameTurkishCasing(t *testing.T) {
	// Dotted/dotless I: upper "YILMAZ" must match lower "yılmaz",
	// and "İstanbul" style dotted capitals must lower correctly.
	svc := registry("Mehmet Yılmaz", "İbrahim Kaya")

	g, err := svc.ResolveByName(context.Background(), "MEHMET YILMAZ")
	require.NoError(t, err)
	require.Equal(t, int64(1), g.ID)

	g, err = svc.ResolveByName(context.Background(), "ibrahim kaya")
	require.NoError(t, err)
	require.Equal(t, int64(2), g.ID)
}

func TestResolveByNameCollapsesWhitespace(t *testing.T) {
	svc := registry("Mehmet Yılmaz")

	g, err := svc.ResolveByName(context.Background(), "  Mehmet   Yılmaz ")
	require.NoError(t, err)
	require.Equal(t, int64(1), g.ID)
}

func TestResolveByNameSubstringFallback(t *testing.T) {
	svc := registry("Mehmet Yılmaz", "Ayşe Demir")

	g, err := svc.ResolveByName(context.Background(), "Yılmaz")
	require.NoError(t, err)
	require.Equal(t, int64(1), g.ID)
}

func TestResolveByNameAmbiguousSubstring(t *testing.T) {
	svc := registry("Mehmet Yılmaz", "Ahmet Yılmaz")

	_, err := svc.ResolveByName(context.Background(), "Yılmaz")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestResolveByNameExactBeatsSubstring(t *testing.T) {
	// An exact normalized match wins even when other names contain it.
	svc := registry("Mehmet Yılmaz", "Mehmet")

	g, err := svc.ResolveByName(context.Background(), "Mehmet")
	require.NoError(t, err)
	require.Equal(t, int64(2), g.ID)
}

func TestResolveByNameNoMatch(t *testing.T) {
	svc := registry("Mehmet Yılmaz")

	_, err := svc.ResolveByName(context.Background(), "Zeynep Ak")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestResolveByNameEmpty(t *testing.T) {
	svc := registry("Mehmet Yılmaz")

	_, err := svc.ResolveByName(context.Background(), "   ")
	require.ErrorIs(t, err, httpx.ErrValidation)
}
