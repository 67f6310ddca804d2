package types

const (
	// ItemsPerPage is the invoice table page size.
	ItemsPerPage        = 6
	LatestInvoicesLimit = 5
)

type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Revenue is one month of revenue in cents.
type Revenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

type LatestInvoice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
}

// InvoiceRow is one line of the filtered invoice table.
type InvoiceRow struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	ImageURL   string        `json:"image_url"`
	Date       string        `json:"date"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

// InvoiceForm is an invoice prepared for editing. Amount is in dollars.
type InvoiceForm struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Amount     float64       `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

type CustomerField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CustomerTableRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int    `json:"total_invoices"`
	TotalPending  int64  `json:"total_pending"`
	TotalPaid     int64  `json:"total_paid"`
}

// CardData holds the dashboard summary totals. Amounts are in cents.
type CardData struct {
	NumberOfInvoices     int   `json:"numberOfInvoices"`
	NumberOfCustomers    int   `json:"numberOfCustomers"`
	TotalPaidInvoices    int64 `json:"totalPaidInvoices"`
	TotalPendingInvoices int64 `json:"totalPendingInvoices"`
}

// NormalizePage clamps page numbers below 1 to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageOffset returns the row offset of a 1-based page.
func PageOffset(page int) int {
	return (NormalizePage(page) - 1) * ItemsPerPage
}

// TotalPages is ceil(count / ItemsPerPage).
func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + ItemsPerPage - 1) / ItemsPerPage
}

// BestStreak returns the largest sum over a contiguous run of values. An
// empty or all-negative input yields 0.
func BestStreak(values []int64) int64 {
	var best, current int64
	for _, v := range values {
		current = max(v, current+v)
		best = max(best, current)
	}
	return best
}

// CentsToDollars converts a stored amount to dollars.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}
