package report

import "time"

// ManagementReport is a privileged free-text log entry written by managers
// and admins, directly or through the assistant's save_management_report
// tool.
type ManagementReport struct {
	ID         int64     `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StageSummary aggregates one funnel stage across all profiles.
type StageSummary struct {
	Stage         string  `json:"stage"`
	Deals         int     `json:"deals"`
	TotalValue    float64 `json:"total_value"`
	WeightedValue float64 `json:"weighted_value"`
}

// SalesIntelligence is the global pipeline rollup. Admin/manager only.
type SalesIntelligence struct {
	TotalDeals    int            `json:"total_deals"`
	TotalValue    float64        `json:"total_value"`
	WeightedValue float64        `json:"weighted_value"`
	Stages        []StageSummary `json:"stages"`
}
