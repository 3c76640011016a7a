package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/engine"
	"hotel-frontdesk-backend/internal/ledger"
	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// stayQuery reads the required checkin/checkout query pair.
func stayQuery(c *gin.Context) (model.Day, model.Day, bool) {
	checkin, ok := dateQuery(c, "checkin")
	if !ok {
		return model.Day{}, model.Day{}, false
	}
	checkout, ok := dateQuery(c, "checkout")
	if !ok {
		return model.Day{}, model.Day{}, false
	}
	if checkin.IsZero() || checkout.IsZero() {
		badRequest(c, "checkin and checkout are required")
		return model.Day{}, model.Day{}, false
	}
	return checkin, checkout, true
}

// Board handles GET /api/board?checkin=&checkout= plus the room filters.
func (h *Handler) Board(c *gin.Context) {
	checkin, checkout, ok := stayQuery(c)
	if !ok {
		return
	}
	f, ok := roomFilter(c)
	if !ok {
		return
	}
	board, err := h.engine.Board(c.Request.Context(), checkin, checkout, f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// RoomAvailability handles GET /api/rooms/:id/availability?checkin=&checkout=.
func (h *Handler) RoomAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	checkin, checkout, ok := stayQuery(c)
	if !ok {
		return
	}
	av, err := h.engine.CheckAvailability(c.Request.Context(), id, checkin, checkout)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

// RoomReservations handles GET /api/rooms/:id/reservations.
func (h *Handler) RoomReservations(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.ledger.ListForRoom(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListReservations handles GET /api/reservations.
func (h *Handler) ListReservations(c *gin.Context) {
	f := ledger.Filter{ReservationFilter: store.ReservationFilter{
		Search: c.Query("search"),
		Newest: c.Query("order") == "newest",
	}}
	var ok bool
	if f.RoomID, ok = intQuery(c, "room_id"); !ok {
		return
	}
	if f.ClientID, ok = intQuery(c, "client_id"); !ok {
		return
	}
	if f.From, ok = dateQuery(c, "from"); !ok {
		return
	}
	if f.To, ok = dateQuery(c, "to"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, valid := ledger.ParseStatus(raw)
		if !valid {
			badRequest(c, "unknown status "+raw)
			return
		}
		f.Status = status
	}
	entries, err := h.ledger.ListReservations(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetReservation handles GET /api/reservations/:id.
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.store.GetReservation(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger.Entry{Reservation: *r, Status: ledger.DeriveStatus(*r, h.ledger.Today())})
}

type reservationRequest struct {
	RoomID      int64   `json:"roomId" binding:"required"`
	OccupantIDs []int64 `json:"occupantIds"`
	Checkin     string  `json:"checkin" binding:"required"`
	Checkout    string  `json:"checkout" binding:"required"`
}

// CreateReservation handles POST /api/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	checkin, ok := dateField(c, "checkin", req.Checkin)
	if !ok {
		return
	}
	checkout, ok := dateField(c, "checkout", req.Checkout)
	if !ok {
		return
	}
	booking, err := h.engine.CreateReservation(c.Request.Context(), engine.ReservationRequest{
		RoomID:      req.RoomID,
		OccupantIDs: req.OccupantIDs,
		Checkin:     checkin,
		Checkout:    checkout,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// CancelReservation handles DELETE /api/reservations/:id.
func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.engine.CancelReservation(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
