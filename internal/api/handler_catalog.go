package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/parse"
	"hotel-frontdesk-backend/internal/store"
)

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

func bindName(c *gin.Context) (string, bool) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		badRequest(c, "name must not be empty")
		return "", false
	}
	return name, true
}

// ListClasses handles GET /api/classes.
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.store.ListClasses(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// SaveClass handles POST /api/classes and PUT /api/classes/:id.
func (h *Handler) SaveClass(c *gin.Context) {
	var id int64
	if c.Param("id") != "" {
		var ok bool
		if id, ok = idParam(c, "id"); !ok {
			return
		}
	}
	name, ok := bindName(c)
	if !ok {
		return
	}
	class := model.RoomClass{ID: id, Name: name}
	if err := h.store.SaveClass(c.Request.Context(), &class); err != nil {
		fail(c, err)
		return
	}
	c.JSON(statusFor(id), class)
}

// DeleteClass handles DELETE /api/classes/:id.
func (h *Handler) DeleteClass(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteClass(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBuildings handles GET /api/buildings.
func (h *Handler) ListBuildings(c *gin.Context) {
	buildings, err := h.store.ListBuildings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// SaveBuilding handles POST /api/buildings and PUT /api/buildings/:id.
func (h *Handler) SaveBuilding(c *gin.Context) {
	var id int64
	if c.Param("id") != "" {
		var ok bool
		if id, ok = idParam(c, "id"); !ok {
			return
		}
	}
	name, ok := bindName(c)
	if !ok {
		return
	}
	building := model.Building{ID: id, Name: name}
	if err := h.store.SaveBuilding(c.Request.Context(), &building); err != nil {
		fail(c, err)
		return
	}
	c.JSON(statusFor(id), building)
}

// DeleteBuilding handles DELETE /api/buildings/:id.
func (h *Handler) DeleteBuilding(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteBuilding(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOptions handles GET /api/options.
func (h *Handler) ListOptions(c *gin.Context) {
	options, err := h.store.ListOptions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// CreateOption handles POST /api/options.
func (h *Handler) CreateOption(c *gin.Context) {
	name, ok := bindName(c)
	if !ok {
		return
	}
	option := model.RoomOption{Name: name}
	if err := h.store.CreateOption(c.Request.Context(), &option); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// DeleteOption handles DELETE /api/options/:id.
func (h *Handler) DeleteOption(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteOption(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// roomFilter reads the room search parameters shared by the room list and the board.
func roomFilter(c *gin.Context) (store.RoomFilter, bool) {
	f := store.RoomFilter{
		Number:    c.Query("number"),
		ClassName: c.Query("class"),
		Building:  c.Query("building"),
	}
	var ok bool
	if f.ClassID, ok = intQuery(c, "class_id"); !ok {
		return f, false
	}
	if f.BuildingID, ok = intQuery(c, "building_id"); !ok {
		return f, false
	}
	places, ok := intQuery(c, "places")
	if !ok {
		return f, false
	}
	f.Places = int(places)
	floor, ok := intQuery(c, "floor")
	if !ok {
		return f, false
	}
	f.Floor = int(floor)
	if raw := c.Query("status"); raw != "" {
		status, err := parse.RoomStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return f, false
		}
		f.Status = status
	}
	return f, true
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	f, ok := roomFilter(c)
	if !ok {
		return
	}
	rooms, err := h.store.ListRooms(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := h.store.GetRoom(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type roomRequest struct {
	Number     string  `json:"roomNumber" binding:"required"`
	Capacity   int     `json:"capacity" binding:"required,min=1"`
	ClassID    int64   `json:"classId" binding:"required"`
	Price      float64 `json:"price" binding:"min=0"`
	Floor      int     `json:"floor"`
	BuildingID int64   `json:"buildingId" binding:"required"`
	OptionIDs  []int64 `json:"optionIds"`
}

func (r roomRequest) room(id int64) model.Room {
	return model.Room{
		ID:         id,
		Number:     strings.TrimSpace(r.Number),
		Capacity:   r.Capacity,
		ClassID:    r.ClassID,
		Price:      r.Price,
		Floor:      r.Floor,
		BuildingID: r.BuildingID,
	}
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room := req.room(0)
	if err := h.store.CreateRoom(c.Request.Context(), &room, req.OptionIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/rooms/:id.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room := req.room(id)
	if err := h.store.UpdateRoom(c.Request.Context(), &room, req.OptionIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), id, h.engine.Today()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus handles PUT /api/rooms/:id/status. Staff may set Free,
// NeedsCleaning or NeedsRepair; Occupied is only set by bookings.
func (h *Handler) SetRoomStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status, err := parse.RoomStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if status == model.RoomOccupied {
		badRequest(c, "status Occupied is set by bookings only")
		return
	}
	if err := h.store.SetRoomStatus(c.Request.Context(), id, status); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func statusFor(id int64) int {
	if id == 0 {
		return http.StatusCreated
	}
	return http.StatusOK
}
