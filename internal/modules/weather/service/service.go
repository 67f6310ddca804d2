package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"weatherboard/internal/db"
	"weatherboard/internal/modules/weather/repository"
	"weatherboard/internal/modules/weather/types"
	"weatherboard/internal/observability"
)

// unknownLabel stands in for caller text that failed validation so metric
// label cardinality stays bounded.
const unknownLabel = "unknown"

// Service answers top-K and listing reads over weather samples.
type Service struct {
	repository repository.WeatherRepository
	metrics    *observability.Metrics
	clock      clockwork.Clock
	timeout    time.Duration
	logger     *slog.Logger
}

// NewService wires a Service. A nil clock means the real clock, a nil logger
// means slog.Default(), and a non-positive timeout leaves the caller's
// deadline untouched.
func NewService(
	repository repository.WeatherRepository,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	timeout time.Duration,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repository: repository,
		metrics:    metrics,
		clock:      clock,
		timeout:    timeout,
		logger:     logger,
	}
}

// TopK returns at most limit samples ordered by field in the given order.
//
// Inputs are validated before the store is touched: an unknown field yields
// *types.InvalidFieldError, a limit outside 1..types.MaxLimit yields
// *types.InvalidLimitError and an unrecognized order yields
// *types.InvalidOrderError. A failed read is returned as *db.DataFetchError
// and is not retried.
func (s *Service) TopK(ctx context.Context, field string, limit int, order string) ([]types.WeatherSample, error) {
	q, err := types.NewQuery(field, limit, order)
	if err != nil {
		s.logger.Debug("top-k query rejected", "field", field, "limit", limit, "order", order, "error", err)
		s.countTopK(unknownLabel, unknownLabel, observability.OutcomeInvalid)
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.clock.Now()
	samples, err := s.repository.TopK(ctx, q.SortKey(), q.Limit)
	elapsed := s.clock.Since(start)
	if s.metrics != nil {
		s.metrics.TopKDuration.WithLabelValues(string(q.Field)).Observe(elapsed.Seconds())
	}

	if err != nil {
		s.logger.Error("top-k query failed",
			"op", "TopK",
			"field", q.Field,
			"order", q.Order,
			"limit", q.Limit,
			"error", err,
		)
		s.countTopK(string(q.Field), string(q.Order), observability.OutcomeError)
		return nil, db.FetchError("TopK", err)
	}

	s.logger.Debug("top-k query served",
		"field", q.Field,
		"order", q.Order,
		"limit", q.Limit,
		"rows", len(samples),
		"duration_ms", elapsed.Milliseconds(),
	)
	s.countTopK(string(q.Field), string(q.Order), observability.OutcomeSuccess)
	return samples, nil
}

// List returns every stored sample ordered by city.
func (s *Service) List(ctx context.Context) ([]types.WeatherSample, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	samples, err := s.repository.List(ctx)
	if err != nil {
		s.logger.Error("list samples failed", "op", "List", "error", err)
		return nil, db.FetchError("List", err)
	}
	return samples, nil
}

func (s *Service) countTopK(field, order, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.TopKQueries.WithLabelValues(field, order, outcome).Inc()
}
