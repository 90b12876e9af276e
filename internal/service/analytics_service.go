package service

import (
	"civicdesk/internal/model"
)

// StatusCounter reports how many issues hold each raw status value.
type StatusCounter interface {
	StatusCounts() (map[string]int, error)
}

type AnalyticsService struct {
	counter StatusCounter
}

func NewAnalyticsService(counter StatusCounter) *AnalyticsService {
	return &AnalyticsService{counter: counter}
}

// Summarize recomputes the per-status rollup from the current table contents.
// Statuses outside the storage vocabulary count toward the total but land in
// no named bucket.
func (s *AnalyticsService) Summarize() (*model.AnalyticsSummary, error) {
	counts, err := s.counter.StatusCounts()
	if err != nil {
		return nil, err
	}

	summary := &model.AnalyticsSummary{}
	for status, count := range counts {
		summary.TotalIssues += count
		switch model.IssueStatus(status) {
		case model.StatusOpen:
			summary.OpenIssues += count
		case model.StatusInProgress:
			summary.InProgressIssues += count
		case model.StatusResolved:
			summary.ResolvedIssues += count
		case model.StatusClosed:
			summary.ClosedIssues += count
		}
	}

	return summary, nil
}
