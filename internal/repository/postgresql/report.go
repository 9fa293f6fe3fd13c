package postgresql

import (
	"context"
	"fmt"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates the management report store backed by
// Postgres.
func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, rep report.ManagementReport) (report.ManagementReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO management_reports (author_id, author_name, title, content, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		rep.AuthorID,
		rep.AuthorName,
		rep.Title,
		rep.Content,
		rep.Category,
		rep.CreatedAt,
	).Scan(&rep.ID)
	if err != nil {
		return report.ManagementReport{}, fmt.Errorf("failed to create management report: %w", err)
	}

	return rep, nil
}

func (r *reportRepository) List(ctx context.Context, limit int) ([]report.ManagementReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, author_id, author_name, title, content, category, created_at
		FROM management_reports
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list management reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

func (r *reportRepository) ListByCategory(ctx context.Context, category string, limit int) ([]report.ManagementReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, author_id, author_name, title, content, category, created_at
		FROM management_reports
		WHERE category = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list management reports by category: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]report.ManagementReport, error) {
	var out []report.ManagementReport
	for rows.Next() {
		var rep report.ManagementReport
		if err := rows.Scan(&rep.ID, &rep.AuthorID, &rep.AuthorName, &rep.Title, &rep.Content, &rep.Category, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan management report: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate management reports: %w", err)
	}
	return out, nil
}
