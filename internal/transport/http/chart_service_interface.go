package http

import (
	"context"

	"mintel/pkg/contracts/domain"
)

// ChartServiceInterface defines the contract the chart handler needs from the
// service layer. Kept small so handler tests can mock it.
type ChartServiceInterface interface {
	GetChartData(ctx context.Context, criteria domain.FilterCriteria) (domain.ChartData, error)
	GetGeographyTree(ctx context.Context) ([]domain.GeographyNode, []string, error)
	GetSegmentLevels(ctx context.Context, label string) []string
}
