package controller

import (
	"net/http"
	"strconv"

	"weatherboard/internal/utils"
)

// parsePage returns the 1-based page number from the request (default 1, min 1).
func parsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (c *dashboardControllerImpl) handleRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := c.service.Revenue(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch revenue data")
		return
	}
	utils.WriteJSON(w, http.StatusOK, revenue)
}

func (c *dashboardControllerImpl) handleBestRevenueStreak(w http.ResponseWriter, r *http.Request) {
	best, err := c.service.BestRevenueStreak(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch revenue data")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"bestStreak": best})
}

func (c *dashboardControllerImpl) handleCardData(w http.ResponseWriter, r *http.Request) {
	card, err := c.service.CardData(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch card data")
		return
	}
	utils.WriteJSON(w, http.StatusOK, card)
}

func (c *dashboardControllerImpl) handleLatestInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := c.service.LatestInvoices(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch the latest invoices")
		return
	}
	utils.WriteJSON(w, http.StatusOK, invoices)
}

func (c *dashboardControllerImpl) handleFilteredInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := c.service.FilteredInvoices(r.Context(), r.URL.Query().Get("query"), parsePage(r))
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch invoices")
		return
	}
	utils.WriteJSON(w, http.StatusOK, invoices)
}

func (c *dashboardControllerImpl) handleInvoicesPages(w http.ResponseWriter, r *http.Request) {
	pages, err := c.service.InvoicesPages(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch total number of invoices")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"totalPages": pages})
}

func (c *dashboardControllerImpl) handleInvoiceByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing invoice id")
		return
	}

	invoice, err := c.service.InvoiceByID(r.Context(), id)
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch invoice")
		return
	}
	utils.WriteJSON(w, http.StatusOK, invoice)
}

func (c *dashboardControllerImpl) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.service.Customers(r.Context())
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch all customers")
		return
	}
	utils.WriteJSON(w, http.StatusOK, customers)
}

func (c *dashboardControllerImpl) handleFilteredCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.service.FilteredCustomers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		utils.WriteServiceError(w, err, "failed to fetch customer table")
		return
	}
	utils.WriteJSON(w, http.StatusOK, customers)
}
