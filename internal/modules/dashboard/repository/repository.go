package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"weatherboard/internal/db"
	"weatherboard/internal/modules/dashboard/types"
)

//go:embed sql/revenue.sql
var revenueSQL string

//go:embed sql/latest-invoices.sql
var latestInvoicesSQL string

//go:embed sql/count-invoices.sql
var countInvoicesSQL string

//go:embed sql/count-customers.sql
var countCustomersSQL string

//go:embed sql/invoice-status-totals.sql
var invoiceStatusTotalsSQL string

//go:embed sql/filtered-invoices.sql
var filteredInvoicesSQL string

//go:embed sql/count-filtered-invoices.sql
var countFilteredInvoicesSQL string

//go:embed sql/invoice-by-id.sql
var invoiceByIDSQL string

//go:embed sql/customers.sql
var customersSQL string

//go:embed sql/filtered-customers.sql
var filteredCustomersSQL string

type DashboardRepository interface {
	Revenue(ctx context.Context) ([]types.Revenue, error)
	LatestInvoices(ctx context.Context, limit int) ([]types.LatestInvoice, error)
	CardData(ctx context.Context) (types.CardData, error)
	FilteredInvoices(ctx context.Context, query string, limit, offset int) ([]types.InvoiceRow, error)
	CountFilteredInvoices(ctx context.Context, query string) (int, error)
	InvoiceByID(ctx context.Context, id string) (types.InvoiceForm, error)
	Customers(ctx context.Context) ([]types.CustomerField, error)
	FilteredCustomers(ctx context.Context, query string) ([]types.CustomerTableRow, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) DashboardRepository {
	return &repositoryImpl{db: db}
}

// likePattern turns free text into a substring LIKE pattern with the
// wildcards in query matched literally.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}

func (r *repositoryImpl) Revenue(ctx context.Context) ([]types.Revenue, error) {
	rows, err := r.db.QueryContext(ctx, revenueSQL)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "revenue")

	out := make([]types.Revenue, 0, 12)
	for rows.Next() {
		var rv types.Revenue
		if err := rows.Scan(&rv.Month, &rv.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) LatestInvoices(ctx context.Context, limit int) ([]types.LatestInvoice, error) {
	rows, err := r.db.QueryContext(ctx, latestInvoicesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "latest invoices")

	out := make([]types.LatestInvoice, 0, limit)
	for rows.Next() {
		var inv types.LatestInvoice
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.ImageURL, &inv.Email, &inv.Amount); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CardData runs the three summary queries concurrently.
func (r *repositoryImpl) CardData(ctx context.Context) (types.CardData, error) {
	var card types.CardData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, countInvoicesSQL).Scan(&card.NumberOfInvoices); err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, countCustomersSQL).Scan(&card.NumberOfCustomers); err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.db.QueryRowContext(gctx, invoiceStatusTotalsSQL).Scan(&card.TotalPaidInvoices, &card.TotalPendingInvoices)
		if err != nil {
			return fmt.Errorf("invoice status totals: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.CardData{}, err
	}
	return card, nil
}

func (r *repositoryImpl) FilteredInvoices(ctx context.Context, query string, limit, offset int) ([]types.InvoiceRow, error) {
	rows, err := r.db.QueryContext(ctx, filteredInvoicesSQL,
		sql.Named("pattern", likePattern(query)),
		sql.Named("limit", limit),
		sql.Named("offset", offset),
	)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "filtered invoices")

	out := make([]types.InvoiceRow, 0, limit)
	for rows.Next() {
		var inv types.InvoiceRow
		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &inv.Name, &inv.Email, &inv.ImageURL,
			&inv.Date, &inv.Amount, &inv.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) CountFilteredInvoices(ctx context.Context, query string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countFilteredInvoicesSQL, sql.Named("pattern", likePattern(query))).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// InvoiceByID returns db.ErrNotFound when no invoice has id.
func (r *repositoryImpl) InvoiceByID(ctx context.Context, id string) (types.InvoiceForm, error) {
	var (
		form  types.InvoiceForm
		cents int64
	)
	err := r.db.QueryRowContext(ctx, invoiceByIDSQL, id).Scan(&form.ID, &form.CustomerID, &cents, &form.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return types.InvoiceForm{}, fmt.Errorf("invoice %q: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return types.InvoiceForm{}, err
	}
	form.Amount = types.CentsToDollars(cents)
	return form, nil
}

func (r *repositoryImpl) Customers(ctx context.Context) ([]types.CustomerField, error) {
	rows, err := r.db.QueryContext(ctx, customersSQL)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "customers")

	out := []types.CustomerField{}
	for rows.Next() {
		var c types.CustomerField
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) FilteredCustomers(ctx context.Context, query string) ([]types.CustomerTableRow, error) {
	rows, err := r.db.QueryContext(ctx, filteredCustomersSQL, sql.Named("pattern", likePattern(query)))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, "filtered customers")

	out := []types.CustomerTableRow{}
	for rows.Next() {
		var c types.CustomerTableRow
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.ImageURL,
			&c.TotalInvoices, &c.TotalPending, &c.TotalPaid,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
