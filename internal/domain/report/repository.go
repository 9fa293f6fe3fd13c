package report

import "context"

// Repository defines data access for management reports.
type Repository interface {
	// Create persists a report and returns it with an assigned id.
	Create(ctx context.Context, r ManagementReport) (ManagementReport, error)

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]ManagementReport, error)

	// ListByCategory filters reports by category, newest first.
	ListByCategory(ctx context.Context, category string, limit int) ([]ManagementReport, error)
}
