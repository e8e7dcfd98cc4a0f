package cache

import (
	"context"
	"time"

	"sinarabadi/backend/internal/domain"
)

type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.LedgerSummary, bool, error)
	Set(ctx context.Context, key string, value *domain.LedgerSummary, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.LedgerSummary, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.LedgerSummary, _ time.Duration) error {
	return nil
}
