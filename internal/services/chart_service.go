package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"mintel/internal/analytics"
	"mintel/internal/dataset"
	apierrors "mintel/internal/errors"
	"mintel/internal/taxonomy"
	"mintel/pkg/contracts/domain"
)

// ChartService validates filter criteria and produces chart-ready series
// from the loaded dataset. The heavy lifting lives in the analytics engine;
// the service adds the boundary concerns: validation, logging, metrics and
// memoization.
type ChartService struct {
	engine   *analytics.Engine
	cache    *analytics.Cache
	geo      *taxonomy.GeographyResolver
	seg      *taxonomy.SegmentResolver
	validate *validator.Validate
	logger   *slog.Logger

	mu sync.RWMutex
	ds *dataset.Dataset
}

// NewChartService creates a chart service using the default logger.
func NewChartService() (*ChartService, error) {
	return NewChartServiceWithLogger(slog.Default())
}

// NewChartServiceWithLogger creates a chart service with a specific logger.
func NewChartServiceWithLogger(logger *slog.Logger) (*ChartService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	geo, err := taxonomy.NewGeographyResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to load geography taxonomy: %w", err)
	}
	seg, err := taxonomy.NewSegmentResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to load segment taxonomy: %w", err)
	}

	return &ChartService{
		engine:   analytics.NewEngine(geo, seg),
		cache:    analytics.NewCache(),
		geo:      geo,
		seg:      seg,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "chart_service")),
	}, nil
}

// SetDataset installs the active dataset, invalidating every memoized result
// computed against the previous one.
func (s *ChartService) SetDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	previous := s.ds
	s.ds = ds
	s.mu.Unlock()

	if previous != nil {
		s.cache.InvalidateDataset(previous.ID)
	}

	s.logger.Info("dataset installed",
		slog.String("dataset_id", ds.ID),
		slog.Int("value_records", len(ds.Records(domain.DataTypeValue))),
		slog.Int("volume_records", len(ds.Records(domain.DataTypeVolume))),
		slog.Int("geographies", len(ds.Geographies())))
}

// Dataset returns the active dataset, or nil when none is loaded.
func (s *ChartService) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// GetChartData validates the criteria and computes (or recalls) the chart
// series for it. Empty results are legitimate: a fully-excluding filter
// returns empty points and names with a nil error.
func (s *ChartService) GetChartData(ctx context.Context, criteria domain.FilterCriteria) (domain.ChartData, error) {
	ds := s.Dataset()
	if ds == nil {
		return domain.ChartData{}, apierrors.ErrDatasetNotLoaded
	}

	if err := s.validate.Struct(criteria); err != nil {
		return domain.ChartData{}, validationError(err)
	}

	data, hit := s.cache.Get(ds.ID, criteria, func() domain.ChartData {
		computationsTotal.WithLabelValues(string(criteria.ViewMode), string(criteria.DataType)).Inc()
		return s.engine.ComputeChartData(ds, criteria)
	})
	if hit {
		cacheHitsTotal.Inc()
	}

	s.logger.DebugContext(ctx, "chart data computed",
		slog.String("dataset_id", ds.ID),
		slog.String("view_mode", string(criteria.ViewMode)),
		slog.String("data_type", string(criteria.DataType)),
		slog.Bool("cache_hit", hit),
		slog.Int("points", len(data.Points)),
		slog.Int("series", len(data.SeriesNames)))

	return data, nil
}

// GetGeographyTree resolves the reference geography hierarchy against the
// active dataset's labels.
func (s *ChartService) GetGeographyTree(ctx context.Context) ([]domain.GeographyNode, []string, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, nil, apierrors.ErrDatasetNotLoaded
	}

	resolution := s.geo.Resolve(ds.Geographies())

	s.logger.DebugContext(ctx, "geography hierarchy resolved",
		slog.String("dataset_id", ds.ID),
		slog.Int("regions", len(resolution.Tree)),
		slog.Int("unmatched", len(resolution.Unmatched)))

	return resolution.Tree, resolution.Unmatched, nil
}

// GetSegmentLevels returns the ancestry path of a segment label, root first.
// Unknown labels yield a single-element path of themselves, mirroring the
// resolver's total-function contract.
func (s *ChartService) GetSegmentLevels(ctx context.Context, label string) []string {
	if levels := s.seg.Levels(label); levels != nil {
		return levels
	}
	return []string{label}
}

// validationError flattens validator.v10 failures into an APIError.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	details := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		})
	}
	return apierrors.ValidationFailedWithErrors(details)
}
