package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/policy"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

const recentActivityLimit = 5

// DashboardService aggregates the headline figures shown on the dashboard.
// Sales Executives only see figures for records assigned to them.
type DashboardService struct {
	reports ports.ReportRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewDashboardService(reports ports.ReportRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		reports: reports,
		log:     log.With().Str("resource", string(policy.KindDashboard)).Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) scope(caller domain.Identity) (ports.ReportScope, error) {
	d, err := authorize(s.log, caller, policy.ActionRead, policy.Resource{Kind: policy.KindDashboard})
	if err != nil {
		return ports.ReportScope{}, err
	}
	return ports.ReportScope{RecordScope: listScope(caller, d)}, nil
}

func (s *DashboardService) Stats(ctx context.Context, caller domain.Identity) (*domain.DashboardStats, error) {
	scope, err := s.scope(caller)
	if err != nil {
		return nil, err
	}

	leads, err := s.reports.LeadStats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard lead stats: %w", err)
	}
	leads.ConversionRate = domain.Percent(leads.Converted, leads.Total)

	deals, err := s.reports.DealStats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard deal stats: %w", err)
	}

	activities, err := s.reports.ActivityStats(ctx, scope, s.now())
	if err != nil {
		return nil, fmt.Errorf("dashboard activity stats: %w", err)
	}

	recent, err := s.reports.RecentActivities(ctx, scope, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent activities: %w", err)
	}
	if recent == nil {
		recent = []*domain.Activity{}
	}

	return &domain.DashboardStats{
		Leads:            leads,
		Deals:            deals,
		Activities:       activities,
		RecentActivities: recent,
	}, nil
}

func (s *DashboardService) Pipeline(ctx context.Context, caller domain.Identity) ([]domain.StageSummary, error) {
	scope, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	stages, err := s.reports.DealsByStage(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard pipeline: %w", err)
	}
	return stages, nil
}

func (s *DashboardService) LeadSources(ctx context.Context, caller domain.Identity) ([]domain.SourceCount, error) {
	scope, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	sources, err := s.reports.LeadsBySource(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard lead sources: %w", err)
	}
	return sources, nil
}
