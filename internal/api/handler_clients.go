package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// ListClients handles GET /api/clients?search=.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context(), store.ClientFilter{Search: c.Query("search")})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, err := h.store.GetClient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

type clientRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	Contact   string `json:"contact"`
	Passport  string `json:"passport" binding:"required"`
	Birthdate string `json:"birthdate"`
}

func bindClient(c *gin.Context, id int64) (model.Client, bool) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return model.Client{}, false
	}
	birthdate, ok := dateField(c, "birthdate", req.Birthdate)
	if !ok {
		return model.Client{}, false
	}
	return model.Client{
		ID:        id,
		FullName:  strings.TrimSpace(req.FullName),
		Contact:   strings.TrimSpace(req.Contact),
		Passport:  strings.TrimSpace(req.Passport),
		Birthdate: birthdate,
	}, true
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c *gin.Context) {
	client, ok := bindClient(c, 0)
	if !ok {
		return
	}
	if err := h.store.CreateClient(c.Request.Context(), &client); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PUT /api/clients/:id.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, ok := bindClient(c, id)
	if !ok {
		return
	}
	if err := h.store.UpdateClient(c.Request.Context(), &client); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteClient(c.Request.Context(), id, h.ledger.Today()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClientReservations handles GET /api/clients/:id/reservations.
func (h *Handler) ClientReservations(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.ledger.ListForClient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListBlacklist handles GET /api/blacklist?search=.
func (h *Handler) ListBlacklist(c *gin.Context) {
	entries, err := h.store.ListBlacklist(c.Request.Context(), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type blacklistRequest struct {
	ClientID int64  `json:"clientId" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// AddToBlacklist handles POST /api/blacklist.
func (h *Handler) AddToBlacklist(c *gin.Context) {
	var req blacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		badRequest(c, "reason must not be empty")
		return
	}
	if err := h.store.AddToBlacklist(c.Request.Context(), req.ClientID, reason); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"clientId": req.ClientID, "reason": reason})
}

// RemoveFromBlacklist handles DELETE /api/blacklist/:client_id.
func (h *Handler) RemoveFromBlacklist(c *gin.Context) {
	id, ok := idParam(c, "client_id")
	if !ok {
		return
	}
	if err := h.store.RemoveFromBlacklist(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
