package dto

import "time"

// IdeaStatusCounts totals ideas by approval state.
type IdeaStatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// ProgressStatusCounts totals progress updates by review state.
type ProgressStatusCounts struct {
	Total            int64 `json:"total"`
	Pending          int64 `json:"pending"`
	Reviewed         int64 `json:"reviewed"`
	NeedsImprovement int64 `json:"needs_improvement"`
}

// DashboardSummaryResponse is the payload behind the mentor and admin dashboards.
type DashboardSummaryResponse struct {
	Ideas       IdeaStatusCounts     `json:"ideas"`
	Progress    ProgressStatusCounts `json:"progress"`
	GeneratedAt time.Time            `json:"generated_at"`
}
