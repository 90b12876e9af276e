package model

// AnalyticsSummary is the on-demand per-status rollup. Issues whose status is
// outside the storage vocabulary count toward the total only.
type AnalyticsSummary struct {
	TotalIssues      int `json:"totalIssues"`
	OpenIssues       int `json:"openIssues"`
	InProgressIssues int `json:"inProgressIssues"`
	ResolvedIssues   int `json:"resolvedIssues"`
	ClosedIssues     int `json:"closedIssues"`
}
