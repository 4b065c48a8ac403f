package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps the per-server game counters. A manager built
// without queries counts nothing and reports zero.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) Enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesFinishedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementRematchCalledCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementRematchCalledCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetGamesFinishedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetRematchCalledCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetRematchCalledCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetServerAnalytics(ctx context.Context, serverIpNet pqtype.Inet) (GameServerAnalytic, error) {
	if !a.Enabled() {
		return GameServerAnalytic{ServerIp: serverIpNet}, nil
	}
	return a.queries.GetServerAnalytics(ctx, serverIpNet)
}
