package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"weatherboard/internal/db"
	"weatherboard/internal/modules/dashboard/repository"
	"weatherboard/internal/modules/dashboard/types"
	"weatherboard/internal/observability"
)

// Service serves the dashboard reads. Every store failure comes back as a
// *db.DataFetchError naming the operation.
type Service struct {
	repository repository.DashboardRepository
	metrics    *observability.Metrics
	timeout    time.Duration
	logger     *slog.Logger
}

func NewService(repository repository.DashboardRepository, metrics *observability.Metrics, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, metrics: metrics, timeout: timeout, logger: logger}
}

// call bounds fn by the query timeout and applies the shared error and
// metrics handling for op.
func call[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	v, err := fn(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.count(op, observability.OutcomeSuccess)
			var zero T
			return zero, err
		}
		s.logger.Error("dashboard query failed", "op", op, "error", err)
		s.count(op, observability.OutcomeError)
		var zero T
		return zero, db.FetchError(op, err)
	}
	s.count(op, observability.OutcomeSuccess)
	return v, nil
}

func (s *Service) count(op, outcome string) {
	if s.metrics != nil {
		s.metrics.DashboardQueries.WithLabelValues(op, outcome).Inc()
	}
}

func (s *Service) Revenue(ctx context.Context) ([]types.Revenue, error) {
	return call(ctx, s, "Revenue", s.repository.Revenue)
}

func (s *Service) LatestInvoices(ctx context.Context) ([]types.LatestInvoice, error) {
	return call(ctx, s, "LatestInvoices", func(ctx context.Context) ([]types.LatestInvoice, error) {
		return s.repository.LatestInvoices(ctx, types.LatestInvoicesLimit)
	})
}

func (s *Service) CardData(ctx context.Context) (types.CardData, error) {
	return call(ctx, s, "CardData", s.repository.CardData)
}

// FilteredInvoices returns one page of invoices matching query. Pages below 1
// are treated as page 1.
func (s *Service) FilteredInvoices(ctx context.Context, query string, page int) ([]types.InvoiceRow, error) {
	query = strings.TrimSpace(query)
	return call(ctx, s, "FilteredInvoices", func(ctx context.Context) ([]types.InvoiceRow, error) {
		return s.repository.FilteredInvoices(ctx, query, types.ItemsPerPage, types.PageOffset(page))
	})
}

func (s *Service) InvoicesPages(ctx context.Context, query string) (int, error) {
	query = strings.TrimSpace(query)
	return call(ctx, s, "InvoicesPages", func(ctx context.Context) (int, error) {
		n, err := s.repository.CountFilteredInvoices(ctx, query)
		if err != nil {
			return 0, err
		}
		return types.TotalPages(n), nil
	})
}

// InvoiceByID returns an error matching db.ErrNotFound for unknown ids.
func (s *Service) InvoiceByID(ctx context.Context, id string) (types.InvoiceForm, error) {
	return call(ctx, s, "InvoiceByID", func(ctx context.Context) (types.InvoiceForm, error) {
		return s.repository.InvoiceByID(ctx, id)
	})
}

func (s *Service) Customers(ctx context.Context) ([]types.CustomerField, error) {
	return call(ctx, s, "Customers", s.repository.Customers)
}

func (s *Service) FilteredCustomers(ctx context.Context, query string) ([]types.CustomerTableRow, error) {
	query = strings.TrimSpace(query)
	return call(ctx, s, "FilteredCustomers", func(ctx context.Context) ([]types.CustomerTableRow, error) {
		return s.repository.FilteredCustomers(ctx, query)
	})
}

// BestRevenueStreak is the largest total over consecutive months of revenue.
func (s *Service) BestRevenueStreak(ctx context.Context) (int64, error) {
	return call(ctx, s, "BestRevenueStreak", func(ctx context.Context) (int64, error) {
		revenue, err := s.repository.Revenue(ctx)
		if err != nil {
			return 0, err
		}
		values := make([]int64, len(revenue))
		for i, r := range revenue {
			values[i] = r.Revenue
		}
		return types.BestStreak(values), nil
	})
}
