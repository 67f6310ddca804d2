package controller

import (
	"context"
	"net/http"

	"weatherboard/internal/modules/dashboard/types"
)

type DashboardService interface {
	Revenue(ctx context.Context) ([]types.Revenue, error)
	LatestInvoices(ctx context.Context) ([]types.LatestInvoice, error)
	CardData(ctx context.Context) (types.CardData, error)
	FilteredInvoices(ctx context.Context, query string, page int) ([]types.InvoiceRow, error)
	InvoicesPages(ctx context.Context, query string) (int, error)
	InvoiceByID(ctx context.Context, id string) (types.InvoiceForm, error)
	Customers(ctx context.Context) ([]types.CustomerField, error)
	FilteredCustomers(ctx context.Context, query string) ([]types.CustomerTableRow, error)
	BestRevenueStreak(ctx context.Context) (int64, error)
}

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	service DashboardService
}

func NewDashboardController(service DashboardService) DashboardController {
	return &dashboardControllerImpl{service: service}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/dashboard/revenue", c.handleRevenue)
	mux.HandleFunc("GET /api/v1/dashboard/revenue/best-streak", c.handleBestRevenueStreak)
	mux.HandleFunc("GET /api/v1/dashboard/cards", c.handleCardData)
	mux.HandleFunc("GET /api/v1/dashboard/invoices", c.handleFilteredInvoices)
	mux.HandleFunc("GET /api/v1/dashboard/invoices/latest", c.handleLatestInvoices)
	mux.HandleFunc("GET /api/v1/dashboard/invoices/pages", c.handleInvoicesPages)
	mux.HandleFunc("GET /api/v1/dashboard/invoices/{id}", c.handleInvoiceByID)
	mux.HandleFunc("GET /api/v1/dashboard/customers", c.handleCustomers)
	mux.HandleFunc("GET /api/v1/dashboard/customers/table", c.handleFilteredCustomers)
}
