package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/auth"
	"hotel-frontdesk-backend/internal/billing"
	"hotel-frontdesk-backend/internal/engine"
	"hotel-frontdesk-backend/internal/ledger"
	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/parse"
	"hotel-frontdesk-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	engine  *engine.Engine
	ledger  *ledger.Ledger
	billing *billing.Service
	users   *auth.Service
	webpush *webpush.Options
}

// Services bundles the domain services the handlers call into.
type Services struct {
	Engine  *engine.Engine
	Ledger  *ledger.Ledger
	Billing *billing.Service
	Users   *auth.Service
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc Services, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		engine:  svc.Engine,
		ledger:  svc.Ledger,
		billing: svc.Billing,
		users:   svc.Users,
		webpush: webpushOptions,
	}
}

// errorStatus maps a domain error to an HTTP status and a stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, engine.ErrInvalidDateRange):
		return http.StatusBadRequest, "INVALID_DATE_RANGE"
	case errors.Is(err, engine.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"
	case errors.Is(err, engine.ErrAllOccupantsBlacklisted):
		return http.StatusUnprocessableEntity, "ALL_OCCUPANTS_BLACKLISTED"
	case errors.Is(err, engine.ErrRoomUnavailable):
		return http.StatusConflict, "ROOM_UNAVAILABLE"
	case errors.Is(err, engine.ErrRoomConflict):
		return http.StatusConflict, "ROOM_CONFLICT"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, billing.ErrInvalidAmount), errors.Is(err, billing.ErrInvalidKind),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, auth.ErrRootProtected):
		return http.StatusForbidden, "ROOT_PROTECTED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// fail writes err as {"error": ..., "code": ...}.
func fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "VALIDATION"})
}

// idParam reads a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter.
func intQuery(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// dateQuery reads an optional DD.MM.YYYY or ISO date query parameter.
func dateQuery(c *gin.Context, name string) (model.Day, bool) {
	d, err := parse.OptionalDate(c.Query(name))
	if err != nil {
		badRequest(c, name+": "+err.Error())
		return model.Day{}, false
	}
	return d, true
}

// dateField parses an optional date from a request body.
func dateField(c *gin.Context, name, raw string) (model.Day, bool) {
	d, err := parse.OptionalDate(raw)
	if err != nil {
		badRequest(c, name+": "+err.Error())
		return model.Day{}, false
	}
	return d, true
}
