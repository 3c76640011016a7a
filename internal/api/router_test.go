package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel-frontdesk-backend/internal/auth"
	"hotel-frontdesk-backend/internal/billing"
	"hotel-frontdesk-backend/internal/engine"
	"hotel-frontdesk-backend/internal/events"
	"hotel-frontdesk-backend/internal/ledger"
	"hotel-frontdesk-backend/internal/store"
	"hotel-frontdesk-backend/internal/store/storetest"
)

func init() { gin.SetMode(gin.TestMode) }

var fixedNow = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	router  *gin.Engine
	store   store.Store
	events  *events.Recorder
	rootTok string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := storetest.NewStore(t)
	clock := func() time.Time { return fixedNow }
	rec := &events.Recorder{}
	users := auth.NewService(st, auth.NewIssuer("test-secret", time.Hour), bcrypt.MinCost)
	require.NoError(t, users.EnsureRoot(context.Background(), "rootpw"))

	svc := Services{
		Engine:  engine.New(st, engine.WithClock(clock), engine.WithLocation(time.UTC), engine.WithPublisher(rec)),
		Ledger:  ledger.New(st, clock, time.UTC),
		Billing: billing.New(st, clock, time.UTC),
		Users:   users,
	}
	ts := &testServer{
		router: NewRouter(st, svc, RouterOptions{CacheTTL: time.Minute}),
		store:  st,
		events: rec,
	}
	ts.rootTok = ts.login(t, "root", "rootpw")
	return ts
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, name, password string) string {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/login", "", gin.H{"name": name, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok auth.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	return tok.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type idResponse struct {
	ID int64 `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestRouter_Authentication(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/rooms", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/login", "", gin.H{"name": "root", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[errorResponse](t, w).Code)

	w = ts.do(http.MethodGet, "/api/rooms", ts.rootTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RootOnlyRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/users", ts.rootTok, gin.H{"name": "clerk", "password": "clerkpw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	clerk := ts.login(t, "clerk", "clerkpw")

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/api/users", clerk, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodDelete, "/api/finances", clerk, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/finances", clerk, nil).Code)

	w = ts.do(http.MethodGet, "/api/users", ts.rootTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}](t, w)
	require.Len(t, users, 2)

	var rootID int64
	for _, u := range users {
		if u.Name == "root" {
			rootID = u.ID
		}
	}
	w = ts.do(http.MethodDelete, "/api/users/"+itoa(rootID), ts.rootTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ROOT_PROTECTED", decode[errorResponse](t, w).Code)
}

func TestRouter_ReferenceDataCache(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/classes", ts.rootTok, gin.H{"name": "Suite"})
	require.Equal(t, http.StatusCreated, w.Code)

	first := ts.do(http.MethodGet, "/api/classes", ts.rootTok, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := ts.do(http.MethodGet, "/api/classes", ts.rootTok, nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w = ts.do(http.MethodPost, "/api/classes", ts.rootTok, gin.H{"name": "Deluxe"})
	require.Equal(t, http.StatusCreated, w.Code)

	third := ts.do(http.MethodGet, "/api/classes", ts.rootTok, nil)
	assert.Empty(t, third.Header().Get("X-Cache"), "write invalidates the group")
	assert.Contains(t, third.Body.String(), "Deluxe")

	w = ts.do(http.MethodPost, "/api/classes", ts.rootTok, gin.H{"name": "Deluxe"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_BookingLifecycle(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.rootTok

	class := decode[idResponse](t, ts.do(http.MethodPost, "/api/classes", tok, gin.H{"name": "Standard"}))
	building := decode[idResponse](t, ts.do(http.MethodPost, "/api/buildings", tok, gin.H{"name": "Main"}))
	option := decode[idResponse](t, ts.do(http.MethodPost, "/api/options", tok, gin.H{"name": "Balcony"}))

	w := ts.do(http.MethodPost, "/api/rooms", tok, gin.H{
		"roomNumber": "101", "capacity": 2, "classId": class.ID, "price": 1000,
		"floor": 1, "buildingId": building.ID, "optionIds": []int64{option.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[idResponse](t, w)

	w = ts.do(http.MethodPost, "/api/clients", tok, gin.H{
		"fullName": "Anna", "passport": "4510 123456", "birthdate": "01.02.1990",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	anna := decode[idResponse](t, w)

	// Availability before and after booking.
	path := "/api/rooms/" + itoa(room.ID) + "/availability?checkin=2024-05-01&checkout=2024-05-04"
	assert.Equal(t, engine.Free, decode[engine.Availability](t, ts.do(http.MethodGet, path, tok, nil)).State)

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{anna.ID}, "checkin": "01.05.2024", "checkout": "2024-05-04",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[engine.Booking](t, w)
	assert.Equal(t, 1, booking.BookedCount)
	assert.Equal(t, 3000.0, booking.TotalPrice)

	assert.Equal(t, engine.Occupied, decode[engine.Availability](t, ts.do(http.MethodGet, path, tok, nil)).State)

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{anna.ID}, "checkin": "2024-05-03", "checkout": "2024-05-06",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_CONFLICT", decode[errorResponse](t, w).Code)

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{anna.ID}, "checkin": "2024-05-04", "checkout": "2024-05-04",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_RANGE", decode[errorResponse](t, w).Code)

	// The room ledger shows the stay as upcoming.
	entries := decode[[]ledger.Entry](t, ts.do(http.MethodGet, "/api/rooms/"+itoa(room.ID)+"/reservations", tok, nil))
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Upcoming, entries[0].Status)

	// Payments feed the finance ledger and the reports.
	resPath := "/api/reservations/" + itoa(booking.ReservationID)
	w = ts.do(http.MethodPost, resPath+"/payments", tok, gin.H{"amount": 1500, "date": "2024-04-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decode[idResponse](t, w)

	w = ts.do(http.MethodPost, resPath+"/payments", tok, gin.H{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	summary := decode[billing.Summary](t, ts.do(http.MethodGet, "/api/finances/summary", tok, nil))
	assert.Equal(t, 1500.0, summary.TotalIncome)
	assert.Equal(t, 1500.0, summary.Net)

	top := decode[[]store.ClientSpend](t, ts.do(http.MethodGet, "/api/reports/top-clients", tok, nil))
	require.Len(t, top, 1)
	assert.Equal(t, "Anna", top[0].ClientName)

	// A client with an upcoming stay cannot be deleted.
	w = ts.do(http.MethodDelete, "/api/clients/"+itoa(anna.ID), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/payments/"+itoa(payment.ID), tok, nil).Code)
	summary = decode[billing.Summary](t, ts.do(http.MethodGet, "/api/finances/summary", tok, nil))
	assert.Zero(t, summary.TotalIncome)

	require.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, resPath, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, resPath, tok, nil).Code)
	assert.Equal(t, engine.Free, decode[engine.Availability](t, ts.do(http.MethodGet, path, tok, nil)).State)

	evs := ts.events.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.ReservationCreated, evs[0].Type)
	assert.Equal(t, events.ReservationCancelled, evs[1].Type)
}

func TestRouter_BlacklistAndMaintenance(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.rootTok
	room := storetest.Room(t, ts.store, "201", 2, 500)
	bad := storetest.Client(t, ts.store, "Mallory")
	good := storetest.Client(t, ts.store, "Bob")

	w := ts.do(http.MethodPost, "/api/blacklist", tok, gin.H{"clientId": bad.ID, "reason": "unpaid damage"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{bad.ID}, "checkin": "2024-04-10", "checkout": "2024-04-12",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ALL_OCCUPANTS_BLACKLISTED", decode[errorResponse](t, w).Code)

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{bad.ID, good.ID}, "checkin": "2024-04-10", "checkout": "2024-04-12",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[engine.Booking](t, w)
	assert.Equal(t, 1, booking.BookedCount)
	assert.Equal(t, []int64{bad.ID}, booking.Skipped)

	require.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/blacklist/"+itoa(bad.ID), tok, nil).Code)

	// Operators cannot mark a room Occupied by hand; maintenance blocks booking.
	statusPath := "/api/rooms/" + itoa(room.ID) + "/status"
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, statusPath, tok, gin.H{"status": "Occupied"}).Code)
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, statusPath, tok, gin.H{"status": "needs repair"}).Code)

	w = ts.do(http.MethodPost, "/api/reservations", tok, gin.H{
		"roomId": room.ID, "occupantIds": []int64{good.ID}, "checkin": "2024-04-20", "checkout": "2024-04-22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_UNAVAILABLE", decode[errorResponse](t, w).Code)

	board := decode[[]engine.RoomAvailability](t, ts.do(http.MethodGet, "/api/board?checkin=2024-04-20&checkout=2024-04-22", tok, nil))
	require.Len(t, board, 1)
	assert.Equal(t, engine.Unavailable, board[0].Availability.State)
}

func TestRouter_BadInput(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.rootTok

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad id", http.MethodGet, "/api/rooms/abc", nil, http.StatusBadRequest},
		{"missing room", http.MethodGet, "/api/rooms/99", nil, http.StatusNotFound},
		{"board without dates", http.MethodGet, "/api/board", nil, http.StatusBadRequest},
		{"malformed date", http.MethodGet, "/api/board?checkin=31.02.2024&checkout=2024-03-05", nil, http.StatusBadRequest},
		{"unknown status", http.MethodGet, "/api/reservations?status=later", nil, http.StatusBadRequest},
		{"unknown kind", http.MethodPost, "/api/finances", gin.H{"kind": "gift", "amount": 1}, http.StatusBadRequest},
		{"empty class name", http.MethodPost, "/api/classes", gin.H{"name": "  "}, http.StatusBadRequest},
		{"room capacity", http.MethodPost, "/api/rooms", gin.H{"roomNumber": "1", "capacity": 0, "classId": 1, "buildingId": 1}, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(tc.method, tc.path, tok, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{engine.ErrRoomConflict, http.StatusConflict},
		{engine.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{billing.ErrInvalidAmount, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{&store.PersistenceError{Op: "get room", Err: assert.AnError}, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		got, _ := errorStatus(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
