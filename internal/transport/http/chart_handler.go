package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "mintel/internal/errors"
	"mintel/internal/infrastructure"
	"mintel/pkg/contracts/domain"
)

// ChartHandler serves chart-data requests with RFC 7807 compliance
type ChartHandler struct {
	service      ChartServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler with RFC 7807 error handling
func NewChartHandler(service ChartServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes with proper Chi patterns
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/chart", h.PostChart)
	r.Get("/geographies", h.GetGeographies)
	r.Get("/segments/{segment}/levels", h.GetSegmentLevels)

	return r
}

// PostChart handles POST /api/chart: a FilterCriteria snapshot in, chart
// points and series names out.
func (h *ChartHandler) PostChart(w http.ResponseWriter, r *http.Request) {
	reqID := infrastructure.GetTraceID(r.Context())

	var criteria domain.FilterCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "computing chart data",
		slog.String("request_id", reqID),
		slog.String("view_mode", string(criteria.ViewMode)),
		slog.String("data_type", string(criteria.DataType)),
	)

	data, err := h.service.GetChartData(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// GetGeographies handles GET /api/geographies: the reference hierarchy
// reconciled against the loaded dataset, plus the unmatched bucket.
func (h *ChartHandler) GetGeographies(w http.ResponseWriter, r *http.Request) {
	tree, unmatched, err := h.service.GetGeographyTree(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"tree":      tree,
			"unmatched": unmatched,
		},
	})
}

// GetSegmentLevels handles GET /api/segments/{segment}/levels
func (h *ChartHandler) GetSegmentLevels(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "segment")
	if segment == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("segment", "Segment label is required"))
		return
	}

	levels := h.service.GetSegmentLevels(r.Context(), segment)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   levels,
	})
}
