package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
)

// ReportRepository is an in-memory report.Repository.
type ReportRepository struct {
	mu      sync.RWMutex
	reports []report.ManagementReport
	nextID  int64
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{nextID: 1}
}

func (r *ReportRepository) Create(ctx context.Context, rep report.ManagementReport) (report.ManagementReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep.ID = r.nextID
	r.nextID++
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	r.reports = append(r.reports, rep)
	return rep, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]report.ManagementReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]report.ManagementReport, 0, limit)
	for i := len(r.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.reports[i])
	}
	return out, nil
}

func (r *ReportRepository) ListByCategory(ctx context.Context, category string, limit int) ([]report.ManagementReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]report.ManagementReport, 0, limit)
	for i := len(r.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if r.reports[i].Category == category {
			out = append(out, r.reports[i])
		}
	}
	return out, nil
}
