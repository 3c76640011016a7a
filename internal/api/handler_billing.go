package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/parse"
	"hotel-frontdesk-backend/internal/store"
)

const defaultReportLimit = 10

type paymentRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ReservationPayments handles GET /api/reservations/:id/payments.
func (h *Handler) ReservationPayments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.billing.ListPayments(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// RecordPayment handles POST /api/reservations/:id/payments.
func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, ok := dateField(c, "date", req.Date)
	if !ok {
		return
	}
	paymentID, err := h.billing.RecordPayment(c.Request.Context(), id, req.Amount, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": paymentID})
}

// RemovePayment handles DELETE /api/payments/:id.
func (h *Handler) RemovePayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.billing.RemovePayment(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// rangeQuery reads the optional inclusive from/to pair.
func rangeQuery(c *gin.Context) (store.DateRange, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return store.DateRange{}, false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return store.DateRange{}, false
	}
	return store.DateRange{From: from, To: to}, true
}

// ListFinances handles GET /api/finances.
func (h *Handler) ListFinances(c *gin.Context) {
	r, ok := rangeQuery(c)
	if !ok {
		return
	}
	f := store.FinanceFilter{Range: r, Description: c.Query("description")}
	if raw := c.Query("kind"); raw != "" {
		kind, err := parse.FinanceKind(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		f.Kind = kind
	}
	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "invalid amount")
			return
		}
		f.Amount = &amount
	}
	records, err := h.billing.ListFinances(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type financeRequest struct {
	Kind        string  `json:"kind" binding:"required"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func bindFinance(c *gin.Context) (financeRequest, model.FinanceKind, model.Day, bool) {
	var req financeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return req, "", model.Day{}, false
	}
	kind, err := parse.FinanceKind(req.Kind)
	if err != nil {
		badRequest(c, err.Error())
		return req, "", model.Day{}, false
	}
	date, ok := dateField(c, "date", req.Date)
	return req, kind, date, ok
}

// CreateFinance handles POST /api/finances.
func (h *Handler) CreateFinance(c *gin.Context) {
	req, kind, date, ok := bindFinance(c)
	if !ok {
		return
	}
	id, err := h.billing.RecordManualAdjustment(c.Request.Context(), kind, req.Amount, date, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateFinance handles PUT /api/finances/:id.
func (h *Handler) UpdateFinance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	req, kind, date, ok := bindFinance(c)
	if !ok {
		return
	}
	if err := h.billing.UpdateFinance(c.Request.Context(), id, kind, req.Amount, date, req.Description); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteFinance handles DELETE /api/finances/:id.
func (h *Handler) DeleteFinance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.billing.DeleteFinance(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearFinances handles DELETE /api/finances (root only).
func (h *Handler) ClearFinances(c *gin.Context) {
	if err := h.billing.ClearAll(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type clientSpendRequest struct {
	ClientID int64   `json:"clientId" binding:"required"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

// RecordClientSpend handles POST /api/finances/client-spend.
func (h *Handler) RecordClientSpend(c *gin.Context) {
	var req clientSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, ok := dateField(c, "date", req.Date)
	if !ok {
		return
	}
	id, err := h.billing.RecordClientSpend(c.Request.Context(), req.ClientID, req.Amount, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// FinanceSummary handles GET /api/finances/summary?from=&to=.
func (h *Handler) FinanceSummary(c *gin.Context) {
	r, ok := rangeQuery(c)
	if !ok {
		return
	}
	summary, err := h.billing.SummarizeFinances(c.Request.Context(), r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func limitQuery(c *gin.Context) (int, bool) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return 0, false
	}
	if limit <= 0 {
		limit = defaultReportLimit
	}
	return int(limit), true
}

// TopClients handles GET /api/reports/top-clients?limit=.
func (h *Handler) TopClients(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	rows, err := h.billing.TopClients(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TopRooms handles GET /api/reports/top-rooms?limit=.
func (h *Handler) TopRooms(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	rows, err := h.billing.TopRooms(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
