package reconciliation

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
)

type stubReconRepo struct {
	rows  []Row
	err   error
	calls int
}

func (r *stubReconRepo) List(ctx context.Context, filters Filters) ([]Row, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

type captureRecorder struct {
	entries []systemlog.Entry
}

func (c *captureRecorder) Record(ctx context.Context, entry systemlog.Entry) error {
	c.entries = append(c.entries, entry)
	return nil
}

func testRows() []Row {
	return []Row{
		{Status: StatusCompatible},
		{Status: StatusCompatible},
		{Status: StatusIncompatible},
		{Status: StatusNoGuide},
		{Status: StatusNoStore},
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSummaryCountsByStatus(t *testing.T) {
	repo := &stubReconRepo{rows: testRows()}
	svc := NewService(slog.Default(), repo, nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background(), Filters{})
	require.NoError(t, err)
	require.True(t, summary.Available)
	require.Equal(t, 2, summary.Compatible)
	require.Equal(t, 1, summary.Incompatible)
	require.Equal(t, 1, summary.NoGuide)
	require.Equal(t, 1, summary.NoStore)
	require.Equal(t, 5, summary.Total)
}

func TestSummaryUsesCache(t *testing.T) {
	repo := &stubReconRepo{rows: testRows()}
	svc := NewService(slog.Default(), repo, testRedis(t), time.Minute, nil)

	first, err := svc.Summary(context.Background(), Filters{})
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), Filters{})
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.calls, "second call must be served from cache")
}

func TestSummaryCacheKeyVariesByFilters(t *testing.T) {
	repo := &stubReconRepo{rows: testRows()}
	svc := NewService(slog.Default(), repo, testRedis(t), time.Minute, nil)

	_, err := svc.Summary(context.Background(), Filters{})
	require.NoError(t, err)

	companyID := int64(3)
	_, err = svc.Summary(context.Background(), Filters{CompanyID: &companyID})
	require.NoError(t, err)

	require.Equal(t, 2, repo.calls, "different filters must not share cache entries")
}

func TestSummaryPropagatesViewUnavailable(t *testing.T) {
	repo := &stubReconRepo{err: ErrViewUnavailable}
	svc := NewService(slog.Default(), repo, nil, time.Minute, nil)

	_, err := svc.Summary(context.Background(), Filters{})
	require.ErrorIs(t, err, ErrViewUnavailable)

	_, err = svc.List(context.Background(), Filters{})
	require.ErrorIs(t, err, ErrViewUnavailable)
}

func TestSnapshotRecordsCounters(t *testing.T) {
	repo := &stubReconRepo{rows: testRows()}
	recorder := &captureRecorder{}
	svc := NewService(slog.Default(), repo, nil, time.Minute, recorder)

	require.NoError(t, svc.Snapshot(context.Background()))
	require.Len(t, recorder.entries, 1)

	entry := recorder.entries[0]
	require.Equal(t, "reconciliation.snapshot", entry.Action)
	require.True(t, entry.Success)
	require.Equal(t, 2, entry.Meta["compatible"])
	require.Equal(t, 1, entry.Meta["incompatible"])
	require.Equal(t, 5, entry.Meta["total"])
}

func TestSnapshotRecordsFailure(t *testing.T) {
	repo := &stubReconRepo{err: ErrViewUnavailable}
	recorder := &captureRecorder{}
	svc := NewService(slog.Default(), repo, nil, time.Minute, recorder)

	require.Error(t, svc.Snapshot(context.Background()))
	require.Len(t, recorder.entries, 1)
	require.False(t, recorder.entries[0].Success)
}
