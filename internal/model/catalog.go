package model

import "time"

// RoomStatus is the operational (maintenance) flag of a room.
// It is independent of booking occupancy, which is always derived from reservations.
type RoomStatus string

const (
	RoomFree          RoomStatus = "Free"
	RoomNeedsCleaning RoomStatus = "NeedsCleaning"
	RoomNeedsRepair   RoomStatus = "NeedsRepair"
	RoomOccupied      RoomStatus = "Occupied"
)

// Valid reports whether s is one of the known statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomFree, RoomNeedsCleaning, RoomNeedsRepair, RoomOccupied:
		return true
	}
	return false
}

// Blocked reports whether the status takes the room out of service.
func (s RoomStatus) Blocked() bool {
	return s == RoomNeedsCleaning || s == RoomNeedsRepair
}

// RoomClass is a category of rooms (standard, suite, ...).
type RoomClass struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Building is a hotel building (corpus) that rooms belong to.
type Building struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// RoomOption is an entry of the amenity list a room can be equipped with.
type RoomOption struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
}

// Room is a bookable unit of the hotel's inventory.
type Room struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	Number     string     `gorm:"column:room_number;uniqueIndex;size:32;not null" json:"roomNumber"`
	Capacity   int        `gorm:"column:places;not null" json:"capacity"`
	ClassID    int64      `gorm:"index;not null" json:"classId"`
	Price      float64    `gorm:"not null" json:"price"`
	Floor      int        `json:"floor"`
	BuildingID int64      `gorm:"index;not null" json:"buildingId"`
	Status     RoomStatus `gorm:"size:32;not null;default:Free" json:"status"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`

	// Associations
	Class    *RoomClass    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Building *Building     `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Options  []*RoomOption `gorm:"many2many:room_option_mapping;" json:"options,omitempty"`
}
