package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
)

type Service struct {
	logger   *slog.Logger
	repo     Repository
	cache    *redis.Client
	ttl      time.Duration
	recorder systemlog.Recorder
	group    singleflight.Group
}

func NewService(logger *slog.Logger, repo Repository, cache *redis.Client, ttl time.Duration, recorder systemlog.Recorder) *Service {
	if recorder == nil {
		recorder = systemlog.Noop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{logger: logger, repo: repo, cache: cache, ttl: ttl, recorder: recorder}
}

// List returns the classified comparison rows. Row deltas are never cached;
// every call recomputes from the view.
func (s *Service) List(ctx context.Context, filters Filters) ([]Row, error) {
	return s.repo.List(ctx, filters)
}

func summarize(rows []Row) Summary {
	summary := Summary{Available: true}
	for _, row := range rows {
		switch row.Status {
		case StatusCompatible:
			summary.Compatible++
		case StatusIncompatible:
			summary.Incompatible++
		case StatusNoGuide:
			summary.NoGuide++
		case StatusNoStore:
			summary.NoStore++
		}
		summary.Total++
	}
	return summary
}

func cacheKey(filters Filters) string {
	key := "recon:summary"
	if filters.DateFrom != nil {
		key += ":from=" + filters.DateFrom.Format("2006-01-02")
	}
	if filters.DateTo != nil {
		key += ":to=" + filters.DateTo.Format("2006-01-02")
	}
	if filters.CompanyID != nil {
		key += fmt.Sprintf(":company=%d", *filters.CompanyID)
	}
	if filters.StoreID != nil {
		key += fmt.Sprintf(":store=%d", *filters.StoreID)
	}
	return key
}

// Summary computes per-status counters. Counters (and only counters) sit
// behind a short-TTL Redis cache; concurrent misses for the same key are
// collapsed through singleflight so the view is queried once.
func (s *Service) Summary(ctx context.Context, filters Filters) (Summary, error) {
	key := cacheKey(filters)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		rows, err := s.repo.List(ctx, filters)
		if err != nil {
			return Summary{}, err
		}
		summary := summarize(rows)
		if s.cache != nil {
			if raw, err := json.Marshal(summary); err == nil {
				if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
					s.logger.Warn("cache reconciliation summary", slog.Any("error", err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return value.(Summary), nil
}

// Snapshot records the current counter totals to the system log. Run
// nightly by the worker's scheduler.
func (s *Service) Snapshot(ctx context.Context) error {
	start := time.Now()
	rows, err := s.repo.List(ctx, Filters{})
	if err != nil {
		recordErr := s.recorder.Record(ctx, systemlog.Entry{
			Action:     "reconciliation.snapshot",
			Entity:     "bildirim_karsilastirma",
			Success:    false,
			DurationMS: time.Since(start).Milliseconds(),
			OccurredAt: time.Now(),
		})
		if recordErr != nil {
			s.logger.Warn("record snapshot failure", slog.Any("error", recordErr))
		}
		return err
	}
	summary := summarize(rows)
	return s.recorder.Record(ctx, systemlog.Entry{
		Action: "reconciliation.snapshot",
		Entity: "bildirim_karsilastirma",
		Meta: map[string]any{
			"compatible":   summary.Compatible,
			"incompatible": summary.Incompatible,
			"no_guide":     summary.NoGuide,
			"no_store":     summary.NoStore,
			"total":        summary.Total,
		},
		Success:    true,
		DurationMS: time.Since(start).Milliseconds(),
		OccurredAt: time.Now(),
	})
}
