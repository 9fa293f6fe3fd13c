package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
)

const defaultListLimit = 50

// Service owns management reports and the pipeline intelligence rollup.
// Every operation is gated on reviewer roles.
type Service struct {
	reports  report.Repository
	profiles profile.Repository
	now      func() time.Time
}

func NewReportService(reports report.Repository, profiles profile.Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{reports: reports, profiles: profiles, now: now}
}

// Create saves a management report authored by a manager or admin.
func (s *Service) Create(ctx context.Context, actor user.Actor, req report.CreateRequest) (report.ManagementReport, error) {
	if !actor.IsPrivileged() {
		return report.ManagementReport{}, user.ErrForbidden
	}

	created, err := s.reports.Create(ctx, report.ManagementReport{
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return report.ManagementReport{}, fmt.Errorf("failed to create management report: %w", err)
	}
	return created, nil
}

// List returns recent management reports, optionally filtered by category.
func (s *Service) List(ctx context.Context, actor user.Actor, category string, limit int) ([]report.ManagementReport, error) {
	if !actor.IsPrivileged() {
		return nil, user.ErrForbidden
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var (
		out []report.ManagementReport
		err error
	)
	if category != "" {
		out, err = s.reports.ListByCategory(ctx, category, limit)
	} else {
		out, err = s.reports.List(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list management reports: %w", err)
	}
	return out, nil
}

// SalesIntelligence aggregates every profile's pipeline into per-stage
// totals. Weighted value applies each deal's probability.
func (s *Service) SalesIntelligence(ctx context.Context, actor user.Actor) (report.SalesIntelligence, error) {
	if !actor.IsPrivileged() {
		return report.SalesIntelligence{}, user.ErrForbidden
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return report.SalesIntelligence{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	byStage := make(map[profile.DealStage]*report.StageSummary, len(profile.Stages))
	for _, stage := range profile.Stages {
		byStage[stage] = &report.StageSummary{Stage: string(stage)}
	}

	var intel report.SalesIntelligence
	for _, p := range profiles {
		for _, deal := range p.ActivePipeline {
			summary, ok := byStage[deal.Stage]
			if !ok {
				continue
			}
			weighted := deal.Value * float64(deal.Probability) / 100

			summary.Deals++
			summary.TotalValue += deal.Value
			summary.WeightedValue += weighted

			intel.TotalDeals++
			intel.TotalValue += deal.Value
			intel.WeightedValue += weighted
		}
	}

	intel.Stages = make([]report.StageSummary, 0, len(profile.Stages))
	for _, stage := range profile.Stages {
		intel.Stages = append(intel.Stages, *byStage[stage])
	}
	return intel, nil
}
