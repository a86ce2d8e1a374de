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

// ReportService produces the manager reports.
type ReportService struct {
	reports ports.ReportRepository
	users   ports.UserRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewReportService(reports ports.ReportRepository, users ports.UserRepository, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		users:   users,
		log:     log.With().Str("resource", string(policy.KindReports)).Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// scope authorizes the caller and builds the aggregation scope. A date range
// only applies when both ends are given.
func (s *ReportService) scope(caller domain.Identity, in ports.ReportInput) (ports.ReportScope, error) {
	if _, err := authorize(s.log, caller, policy.ActionReport, policy.Resource{Kind: policy.KindReports}); err != nil {
		return ports.ReportScope{}, err
	}
	scope := ports.ReportScope{
		RecordScope: ports.RecordScope{OrganizationID: tenant(caller), AssignedTo: in.UserID},
		Source:      in.Source,
	}
	if !in.From.IsZero() && !in.To.IsZero() {
		if in.To.Before(in.From) {
			return ports.ReportScope{}, validationError("endDate must not be before startDate")
		}
		scope.From, scope.To = in.From, in.To
	}
	return scope, nil
}

func (s *ReportService) SalesPerformance(ctx context.Context, caller domain.Identity, in ports.ReportInput) ([]domain.SalesPerformance, error) {
	scope, err := s.scope(caller, in)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.SalesByOwner(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("sales performance: %w", err)
	}
	for i := range rows {
		rows[i].WinRate = domain.Percent(rows[i].WonDeals, rows[i].TotalDeals)
	}
	return nonNil(rows), nil
}

func (s *ReportService) LeadConversion(ctx context.Context, caller domain.Identity, in ports.ReportInput) ([]domain.SourceConversion, error) {
	in.UserID = ""
	scope, err := s.scope(caller, in)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.ConversionBySource(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("lead conversion: %w", err)
	}
	for i := range rows {
		rows[i].ConversionRate = domain.Percent(rows[i].ConvertedLeads, rows[i].TotalLeads)
	}
	return nonNil(rows), nil
}

// DealPipeline breaks the pipeline down by stage and totals open and won value.
func (s *ReportService) DealPipeline(ctx context.Context, caller domain.Identity) (*domain.PipelineAnalysis, error) {
	scope, err := s.scope(caller, ports.ReportInput{})
	if err != nil {
		return nil, err
	}
	stages, err := s.reports.DealsByStage(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("deal pipeline: %w", err)
	}

	var summary domain.PipelineSummary
	for _, st := range stages {
		summary.TotalValue += st.TotalValue
		if !st.Stage.Closed() {
			summary.OpenValue += st.TotalValue
		}
		if st.Stage == domain.StageClosedWon {
			summary.ClosedWonValue = st.TotalValue
		}
	}
	return &domain.PipelineAnalysis{Stages: nonNil(stages), Summary: summary}, nil
}

// UserProductivity reports workload and results for every executive.
func (s *ReportService) UserProductivity(ctx context.Context, caller domain.Identity, in ports.ReportInput) ([]domain.Productivity, error) {
	in.UserID, in.Source = "", ""
	scope, err := s.scope(caller, in)
	if err != nil {
		return nil, err
	}

	executives, err := s.users.ListByRoles(ctx, scope.OrganizationID, domain.ExecutiveRoles)
	if err != nil {
		return nil, fmt.Errorf("user productivity: %w", err)
	}

	now := s.now()
	out := make([]domain.Productivity, 0, len(executives))
	for _, u := range executives {
		owned := scope
		owned.AssignedTo = u.ID

		leads, err := s.reports.LeadStats(ctx, owned)
		if err != nil {
			return nil, fmt.Errorf("user productivity: %w", err)
		}
		deals, err := s.reports.DealStats(ctx, owned)
		if err != nil {
			return nil, fmt.Errorf("user productivity: %w", err)
		}
		activities, err := s.reports.ActivityStats(ctx, owned, now)
		if err != nil {
			return nil, fmt.Errorf("user productivity: %w", err)
		}

		out = append(out, domain.Productivity{
			UserID:                 u.ID,
			UserName:               u.Name,
			UserEmail:              u.Email,
			UserRole:               u.Role,
			Leads:                  leads.Total,
			Deals:                  deals.Total,
			Activities:             activities.Total,
			CompletedActivities:    activities.Completed,
			WonDeals:               deals.Won,
			TotalDealValue:         deals.TotalValue,
			ActivityCompletionRate: domain.Percent(activities.Completed, activities.Total),
		})
	}
	return out, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
