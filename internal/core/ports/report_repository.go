package ports

import (
	"context"
	"time"

	"github.com/salesdesk/crm-api/internal/core/domain"
)

// ReportScope narrows an aggregation. Zero values mean "no restriction".
type ReportScope struct {
	RecordScope
	From   time.Time // created_at >= From
	To     time.Time // created_at <= To
	Source string    // leads only
}

// ReportRepository runs the aggregations behind the dashboard and reports.
type ReportRepository interface {
	LeadStats(ctx context.Context, scope ReportScope) (domain.LeadStats, error)
	DealStats(ctx context.Context, scope ReportScope) (domain.DealStats, error)
	ActivityStats(ctx context.Context, scope ReportScope, now time.Time) (domain.ActivityStats, error)
	RecentActivities(ctx context.Context, scope ReportScope, limit int) ([]*domain.Activity, error)
	DealsByStage(ctx context.Context, scope ReportScope) ([]domain.StageSummary, error)
	LeadsBySource(ctx context.Context, scope ReportScope) ([]domain.SourceCount, error)
	SalesByOwner(ctx context.Context, scope ReportScope) ([]domain.SalesPerformance, error)
	ConversionBySource(ctx context.Context, scope ReportScope) ([]domain.SourceConversion, error)
}
